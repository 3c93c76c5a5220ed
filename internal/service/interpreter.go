package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
	"sheetworks-back/pkg/openai"
)

type ChatClient interface {
	ChatCompletion(ctx context.Context, req openai.ChatRequest) (string, error)
}

type InterpreterConfig struct {
	DefaultModel string
	PremiumModel string
	Temperature  float64
	MaxTokens    int
	BatchTokens  int
}

// InterpreterService resolves natural-language spreadsheet commands into
// operation descriptors. The LLM is the only parser; this service owns
// the prompt contract, response validation and upstream error mapping.
// It performs no retries: rate limits surface to the caller.
type InterpreterService struct {
	log *zap.Logger
	llm ChatClient
	cfg InterpreterConfig
}

func NewInterpreterService(log *zap.Logger, llm ChatClient, cfg InterpreterConfig) *InterpreterService {
	return &InterpreterService{
		log: log,
		llm: llm,
		cfg: cfg,
	}
}

// Outcome is the discriminated interpretation result: Result for the
// regular command path, Batch for the batch translation sub-case.
type Outcome struct {
	Result *model.InterpretResult
	Batch  *model.BatchTranslateResult
}

// ResolveModel picks the model id for a request: caller override first,
// then the configured premium/default split.
func (s *InterpreterService) ResolveModel(requested string, premium bool) string {
	if requested != "" {
		return requested
	}

	if premium && s.cfg.PremiumModel != "" {
		return s.cfg.PremiumModel
	}

	return s.cfg.DefaultModel
}

// Interpret resolves one command against the sheet snapshot. The command
// must be non-blank even when the sheet context carries the batch
// sentinel, which delegates to the batch translation protocol.
func (s *InterpreterService) Interpret(ctx context.Context, command string, sheetCtx *model.SheetContext, modelID, clientType string) (*Outcome, error) {
	if sheetCtx == nil || strings.TrimSpace(command) == "" {
		return nil, apperrors.ErrInvalidRequest
	}

	if sheetCtx.Operation == model.BatchTranslateSentinel {
		batch, err := s.TranslateBatch(ctx, sheetCtx.Texts, sheetCtx.TargetLanguage, sheetCtx.SourceLanguage, modelID)
		if err != nil {
			return nil, err
		}

		return &Outcome{Batch: batch}, nil
	}

	req := openai.ChatRequest{
		Model: modelID,
		Messages: []openai.Message{
			{Role: "system", Content: buildSystemPrompt(clientType, sheetCtx)},
			{Role: "user", Content: "User command: " + command},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}

	content, err := s.llm.ChatCompletion(ctx, req)
	if err != nil {
		return nil, mapUpstreamErr(err)
	}

	result, err := parseInterpretation(content)
	if err != nil {
		s.log.Debug("Unparseable model output", zap.String("content", content), zap.Error(err))
		return nil, err
	}

	return &Outcome{Result: result}, nil
}

func mapUpstreamErr(err error) error {
	if errors.Is(err, openai.ErrRateLimited) {
		return apperrors.ErrRateLimited
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrUpstream, apiErr.Message)
	}

	return fmt.Errorf("%w: %w", apperrors.ErrUpstream, err)
}

// parseInterpretation validates the two permissible top-level shapes:
// a single descriptor, or {"operations": [...]}, never both at once.
func parseInterpretation(content string) (*model.InterpretResult, error) {
	var raw struct {
		Operation  string                      `json:"operation"`
		Parameters json.RawMessage             `json:"parameters"`
		Operations []model.OperationDescriptor `json:"operations"`
	}

	if err := json.Unmarshal([]byte(stripFences(content)), &raw); err != nil {
		return nil, apperrors.ErrUnparseableResponse
	}

	switch {
	case len(raw.Operations) > 0 && raw.Operation != "":
		return nil, apperrors.ErrUnparseableResponse

	case len(raw.Operations) > 0:
		for _, op := range raw.Operations {
			if !model.IsKnownOperation(op.Operation) {
				return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownOperation, op.Operation)
			}
		}

		return &model.InterpretResult{Operations: raw.Operations}, nil

	case raw.Operation != "":
		if !model.IsKnownOperation(raw.Operation) {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownOperation, raw.Operation)
		}

		return &model.InterpretResult{Single: &model.OperationDescriptor{
			Operation:  raw.Operation,
			Parameters: raw.Parameters,
		}}, nil

	default:
		return nil, apperrors.ErrUnparseableResponse
	}
}

// stripFences removes a markdown code fence the model sometimes wraps
// around its JSON.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")

	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}

	return strings.TrimSpace(trimmed)
}
