package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
	"sheetworks-back/internal/service"
)

type Interpreter interface {
	ResolveModel(requested string, premium bool) string
	Interpret(ctx context.Context, command string, sheetCtx *model.SheetContext, modelID, clientType string) (*service.Outcome, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, in service.AuthorizeInput) service.Decision
}

// CommandHandler is the inbound command endpoint: it gates premium
// access, resolves the command through the interpretation gateway and
// shapes the success/failure wire envelope.
type CommandHandler struct {
	log              *zap.Logger
	interpreter      Interpreter
	authorizer       Authorizer
	apiKeyConfigured bool
}

func NewCommandHandler(log *zap.Logger, interpreter Interpreter, authorizer Authorizer, apiKeyConfigured bool) *CommandHandler {
	return &CommandHandler{
		log:              log,
		interpreter:      interpreter,
		authorizer:       authorizer,
		apiKeyConfigured: apiKeyConfigured,
	}
}

// Health reports readiness without touching any collaborator.
func (h *CommandHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"message":          "Spreadsheet command proxy API is running",
		"apiKeyConfigured": h.apiKeyConfigured,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *CommandHandler) Interpret(c *gin.Context) {
	if !h.apiKeyConfigured {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgNoAPIKey})
		return
	}

	var req model.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequest})
		return
	}

	if req.SheetContext == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequest})
		return
	}

	// A command is required even for batch translation requests.
	if strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequest})
		return
	}

	batch := req.SheetContext.Operation == model.BatchTranslateSentinel

	tier := service.TierFree
	if req.AuthKey != "" {
		tier = service.TierPremium
	}

	decision := h.authorizer.Authorize(c.Request.Context(), service.AuthorizeInput{
		Key:            req.AuthKey,
		Email:          req.AuthEmail,
		Tier:           tier,
		ClientIP:       c.ClientIP(),
		UserAgent:      c.GetHeader("User-Agent"),
		Origin:         c.GetHeader("Origin"),
		Model:          req.Model,
		Command:        req.Command,
		SheetOperation: req.SheetContext.Operation,
	})

	if tier == service.TierPremium && !decision.Granted {
		// Never silently downgrade a premium request to the free tier.
		resp := ErrorResponse{Error: MsgAuthInvalid}
		if errors.Is(decision.Reason, apperrors.ErrAuthRequired) {
			resp.Error = MsgAuthRequired
		}
		if decision.Reason != nil {
			resp.Debug = gin.H{"reason": decision.Reason.Error()}
		}

		c.JSON(http.StatusForbidden, resp)

		return
	}

	modelID := h.interpreter.ResolveModel(req.Model, decision.Granted && !decision.IsFree)

	outcome, err := h.interpreter.Interpret(c.Request.Context(), req.Command, req.SheetContext, modelID, req.ClientType)
	if err != nil {
		h.respondInterpretError(c, err, batch)
		return
	}

	if outcome.Batch != nil {
		c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: outcome.Batch})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: outcome.Result})
}

// respondInterpretError maps gateway failures onto the wire. Upstream and
// model-shape failures stay 200 with success:false so clients can branch
// without treating them as transport errors.
func (h *CommandHandler) respondInterpretError(c *gin.Context, err error, batch bool) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequest})

	case errors.Is(err, apperrors.ErrRateLimited):
		c.JSON(http.StatusOK, ErrorResponse{Error: MsgRateLimited})

	case errors.Is(err, apperrors.ErrUpstream):
		if batch {
			c.JSON(http.StatusOK, ErrorResponse{Error: MsgTranslateFailed})
			return
		}

		c.JSON(http.StatusOK, ErrorResponse{Error: MsgUpstreamPrefix + upstreamDetail(err)})

	case errors.Is(err, apperrors.ErrUnparseableResponse), errors.Is(err, apperrors.ErrUnknownOperation):
		c.JSON(http.StatusOK, ErrorResponse{Error: MsgUnparseable})

	default:
		h.log.Error("Interpretation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgServerError})
	}
}

func upstreamDetail(err error) string {
	detail := strings.TrimSpace(strings.TrimPrefix(err.Error(), apperrors.ErrUpstream.Error()+":"))
	if detail == "" || detail == apperrors.ErrUpstream.Error() {
		return MsgUnknownUpstream
	}

	return detail
}
