package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"leadgate/internal/models"
	"leadgate/internal/services"
	"leadgate/internal/utils"
)

const maxFormMemory = 1 << 20

type OTPHandler struct {
	otpService services.OTPService
	sessions   *SessionManager
}

func NewOTPHandler(otpService services.OTPService, sessions *SessionManager) *OTPHandler {
	return &OTPHandler{otpService: otpService, sessions: sessions}
}

// IssueOTP sends a code to the posted mobile number and binds it to the
// caller's session, creating the session if needed.
func (h *OTPHandler) IssueOTP(w http.ResponseWriter, r *http.Request) {
	mobile, err := readField(r, "mobile")
	if err != nil {
		log.Error().Err(err).Msg("Invalid request body for IssueOTP")
		utils.RespondWithError(w, http.StatusBadRequest, "Mobile number is required")
		return
	}

	token, err := h.sessions.Token(w, r, true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to establish session for IssueOTP")
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not start a session. Please try again.")
		return
	}

	res, err := h.otpService.IssueOTP(r.Context(), token, mobile)
	if err != nil {
		respondServiceError(w, err, "Mobile number is required")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.APIResponse{
		Status:  models.StatusSuccess,
		Message: "OTP sent successfully to " + res.Mobile,
		Debug:   res.GatewayResponse,
	})
}

func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	code, err := readField(r, "otp")
	if err != nil {
		log.Error().Err(err).Msg("Invalid request body for VerifyOTP")
		utils.RespondWithError(w, http.StatusBadRequest, "OTP is required")
		return
	}

	token, err := h.sessions.Token(w, r, false)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read session for VerifyOTP")
	}

	if err := h.otpService.VerifyOTP(r.Context(), token, code); err != nil {
		respondServiceError(w, err, "OTP is required")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.APIResponse{
		Status:  models.StatusSuccess,
		Message: "OTP verified successfully",
	})
}

// readField reads one string field from a JSON, urlencoded or multipart body.
func readField(r *http.Request, name string) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", err
		}
		raw, ok := body[name]
		if !ok {
			return "", nil
		}
		// Accept numbers as well as strings, e.g. {"otp": 123456}.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, nil
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return "", err
		}
	} else if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue(name), nil
}
