package handlers

import (
	"net/http"

	"DocShelf/internal/service"

	"go.uber.org/zap"
)

type StatsHandler struct {
	StatsService *service.StatsService
	Logger       *zap.SugaredLogger
}

func NewStatsHandler(statsService *service.StatsService, logger *zap.SugaredLogger) *StatsHandler {
	return &StatsHandler{StatsService: statsService, Logger: logger}
}

func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.StatsService.Dashboard(r.Context())
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
