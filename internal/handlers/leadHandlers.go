package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"leadgate/internal/models"
	"leadgate/internal/services"
	"leadgate/internal/utils"
)

type LeadHandler struct {
	leadService services.LeadService
	sessions    *SessionManager
}

func NewLeadHandler(leadService services.LeadService, sessions *SessionManager) *LeadHandler {
	return &LeadHandler{leadService: leadService, sessions: sessions}
}

func (h *LeadHandler) SubmitBanner(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.FormSourceBanner)
}

func (h *LeadHandler) SubmitBrochure(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.FormSourceBrochure)
}

func (h *LeadHandler) SubmitPopup(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.FormSourcePopup)
}

func (h *LeadHandler) submit(w http.ResponseWriter, r *http.Request, source models.FormSource) {
	token, err := h.sessions.Token(w, r, false)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read session for lead submission")
	}

	// An empty or malformed body reaches the service as nil. The service
	// rejects nil and blank requests only after the verification gate.
	var req *models.LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err != io.EOF {
			log.Error().Err(err).Str("form_source", string(source)).Msg("Invalid lead payload")
		}
		req = nil
	}

	debug, err := h.leadService.SubmitLead(r.Context(), token, req, source, utils.ClientIP(r))

	if err == nil || errors.Is(err, services.ErrSinkUnreachable) {
		if derr := h.sessions.Destroy(w, r); derr != nil {
			log.Error().Err(derr).Msg("Failed to expire session cookie")
		}
	}

	if err != nil {
		respondServiceError(w, err, "No data received")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.APIResponse{
		Status:  models.StatusSuccess,
		Message: "Form submitted successfully",
		Debug:   debug,
	})
}
