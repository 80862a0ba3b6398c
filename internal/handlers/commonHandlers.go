package handlers

import (
	"net/http"

	"leadgate/internal/database"
	"leadgate/internal/utils"
)

type CommonHandler struct {
	db database.Service
}

func NewCommonHandler(db database.Service) *CommonHandler {
	return &CommonHandler{db: db}
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	stats := h.db.Health()

	status := http.StatusOK
	if stats["error"] != "" {
		status = http.StatusServiceUnavailable
	}

	utils.RespondWithJSON(w, status, stats)
}
