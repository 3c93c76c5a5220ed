package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
)

type AuthKeyService interface {
	Create(ctx context.Context, company, memo string) (*model.AuthKey, error)
	List(ctx context.Context) ([]model.AuthKey, error)
	Deactivate(ctx context.Context, id string) error
}

// AuthKeyHandler exposes the admin key registry. Every route behind it
// is guarded by the admin middleware.
type AuthKeyHandler struct {
	log     *zap.Logger
	service AuthKeyService
}

func NewAuthKeyHandler(log *zap.Logger, service AuthKeyService) *AuthKeyHandler {
	return &AuthKeyHandler{
		log:     log,
		service: service,
	}
}

func (h *AuthKeyHandler) List(c *gin.Context) {
	keys, err := h.service.List(c.Request.Context())
	if err != nil {
		// The registry view stays up when the store is down; the message
		// tells the operator why it is empty.
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			c.JSON(http.StatusOK, SuccessResponse{
				Success: true,
				Data: gin.H{
					"keys":    []model.AuthKey{},
					"message": MsgStoreUnavailable,
				},
			})

			return
		}

		h.log.Error("Failed to list auth keys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgServerError})

		return
	}

	if keys == nil {
		keys = []model.AuthKey{}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    model.AuthKeyListResponse{Keys: keys},
	})
}

func (h *AuthKeyHandler) Create(c *gin.Context) {
	var req model.AuthKeyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgCompanyRequired})
		return
	}

	key, err := h.service.Create(c.Request.Context(), req.Company, req.Memo)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyRequired) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgCompanyRequired})
			return
		}

		h.log.Error("Failed to create auth key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgServerError})

		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: key})
}

func (h *AuthKeyHandler) Deactivate(c *gin.Context) {
	var req model.AuthKeyDeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgKeyRequired})
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), req.Key); err != nil {
		if errors.Is(err, apperrors.ErrKeyDoesNotExist) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgAuthInvalid})
			return
		}

		h.log.Error("Failed to deactivate auth key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgServerError})

		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    gin.H{"message": MsgKeyDeactivated},
	})
}
