package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetworks-back/internal/model"
)

type StatsProvider interface {
	GetStats(ctx context.Context) (stats *model.Stats, degraded bool)
}

type StatsHandler struct {
	log     *zap.Logger
	service StatsProvider
}

func NewStatsHandler(log *zap.Logger, service StatsProvider) *StatsHandler {
	return &StatsHandler{
		log:     log,
		service: service,
	}
}

// Get serves the usage aggregation. Degraded stats still return 200 so
// the admin dashboard renders; the message flags the outage.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, degraded := h.service.GetStats(c.Request.Context())

	if degraded {
		c.JSON(http.StatusOK, SuccessResponse{
			Success: true,
			Data: gin.H{
				"stats":   stats,
				"message": MsgStoreUnavailable,
			},
		})

		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: stats})
}
