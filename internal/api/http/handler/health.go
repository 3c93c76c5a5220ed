package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetworks-back/internal/service"
)

type HealthService interface {
	Status(ctx context.Context) service.HealthStatus
}

type HealthHandler struct {
	log *zap.Logger
	svc HealthService
}

func NewHealthHandler(log *zap.Logger, svc HealthService) *HealthHandler {
	return &HealthHandler{
		log: log,
		svc: svc,
	}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "pong",
	})
}

// Health reports dependency status. A degraded store is not an error:
// the service keeps answering on the in-memory fallback.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.svc.Status(c.Request.Context())

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: status})
}
