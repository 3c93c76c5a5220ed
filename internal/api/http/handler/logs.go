package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetworks-back/internal/model"
)

// recentLogsLimit caps the admin log view; older entries age out of the
// store on their own.
const recentLogsLimit = 100

type LogReader interface {
	Recent(ctx context.Context, limit int) ([]model.LogEntry, int, error)
}

type LogHandler struct {
	log     *zap.Logger
	service LogReader
}

func NewLogHandler(log *zap.Logger, service LogReader) *LogHandler {
	return &LogHandler{
		log:     log,
		service: service,
	}
}

// Recent serves the newest entries for the admin dashboard. A store
// outage degrades to an empty list with an explanatory message.
func (h *LogHandler) Recent(c *gin.Context) {
	entries, total, err := h.service.Recent(c.Request.Context(), recentLogsLimit)
	if err != nil {
		h.log.Warn("Log view degraded", zap.Error(err))
		c.JSON(http.StatusOK, SuccessResponse{
			Success: true,
			Data: gin.H{
				"logs":    []model.LogEntry{},
				"total":   0,
				"message": MsgStoreUnavailable,
			},
		})

		return
	}

	if entries == nil {
		entries = []model.LogEntry{}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    model.LogListResponse{Logs: entries, Total: total},
	})
}
