package v1

import (
	"net/http"

	"caribay-backend/internal/domain"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/utils"
)

type StatsHandler struct {
	statsUsecase *usecase.StatsUsecase
}

func NewStatsHandler(statsUsecase *usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{statsUsecase: statsUsecase}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUsecase.Overview(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: stats})
}
