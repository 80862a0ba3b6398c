package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"leadgate/internal/models"
	"leadgate/internal/services"
	"leadgate/internal/utils"
)

// respondServiceError converts a service error into the uniform error body.
// missingMessage is the text used for services.ErrMissingInput.
func respondServiceError(w http.ResponseWriter, err error, missingMessage string) {
	var delivery *services.DeliveryError

	switch {
	case errors.Is(err, services.ErrMissingInput):
		utils.RespondWithError(w, http.StatusBadRequest, missingMessage)
	case errors.Is(err, services.ErrNoPendingOTP):
		utils.RespondWithError(w, http.StatusBadRequest, "No OTP found. Please request a new one.")
	case errors.Is(err, services.ErrInvalidOTP):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, services.ErrNotVerified):
		utils.RespondWithError(w, http.StatusUnauthorized, "Please verify your phone number before submitting.")
	case errors.As(err, &delivery):
		utils.RespondWithJSON(w, http.StatusBadGateway, models.APIResponse{
			Status:  models.StatusError,
			Message: delivery.Reason,
			Debug:   delivery.Response,
		})
	case errors.Is(err, services.ErrSinkUnreachable):
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to send data to Google Sheet")
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
