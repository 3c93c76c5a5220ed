package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
	"sheetworks-back/internal/service"
)

type fakeInterpreter struct {
	outcome *service.Outcome
	err     error

	gotModel   string
	gotCommand string
}

func (f *fakeInterpreter) ResolveModel(requested string, premium bool) string {
	if requested != "" {
		return requested
	}

	if premium {
		return "gpt-4o"
	}

	return "gpt-4o-mini"
}

func (f *fakeInterpreter) Interpret(_ context.Context, command string, _ *model.SheetContext, modelID, _ string) (*service.Outcome, error) {
	f.gotModel = modelID
	f.gotCommand = command

	return f.outcome, f.err
}

type fakeAuthorizer struct {
	decision service.Decision
	gotInput service.AuthorizeInput
}

func (f *fakeAuthorizer) Authorize(_ context.Context, in service.AuthorizeInput) service.Decision {
	f.gotInput = in

	return f.decision
}

func newCommandRouter(interpreter *fakeInterpreter, authorizer *fakeAuthorizer, apiKeyConfigured bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewCommandHandler(zap.NewNop(), interpreter, authorizer, apiKeyConfigured)

	router := gin.New()
	router.POST("/api/command", h.Interpret)
	router.GET("/api/command", h.Health)

	return router
}

func postCommand(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/command", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}

	return body
}

func TestCommandSuccess(t *testing.T) {
	interpreter := &fakeInterpreter{outcome: &service.Outcome{
		Result: &model.InterpretResult{Single: &model.OperationDescriptor{
			Operation:  model.OpSum,
			Parameters: json.RawMessage(`{"columnLetter":"D"}`),
		}},
	}}
	authorizer := &fakeAuthorizer{decision: service.Decision{Granted: true, Company: model.FreeCompany, IsFree: true}}
	router := newCommandRouter(interpreter, authorizer, true)

	rec := postCommand(t, router, model.CommandRequest{
		Command:      "D열 합계 구해줘",
		SheetContext: &model.SheetContext{SheetName: "Sheet1"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}

	data, ok := body["data"].(map[string]any)
	if !ok || data["operation"] != model.OpSum {
		t.Errorf("data = %v, want sum descriptor", body["data"])
	}

	if interpreter.gotModel != "gpt-4o-mini" {
		t.Errorf("model = %q, want free default", interpreter.gotModel)
	}

	if authorizer.gotInput.Tier != service.TierFree {
		t.Errorf("tier = %q, want free for keyless request", authorizer.gotInput.Tier)
	}
}

func TestCommandPremiumUsesConfiguredModel(t *testing.T) {
	interpreter := &fakeInterpreter{outcome: &service.Outcome{
		Result: &model.InterpretResult{Single: &model.OperationDescriptor{Operation: model.OpSort}},
	}}
	authorizer := &fakeAuthorizer{decision: service.Decision{Granted: true, Company: "Acme"}}
	router := newCommandRouter(interpreter, authorizer, true)

	rec := postCommand(t, router, model.CommandRequest{
		Command:      "정렬해줘",
		AuthKey:      "WORKS-AAAA1111",
		SheetContext: &model.SheetContext{},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if interpreter.gotModel != "gpt-4o" {
		t.Errorf("model = %q, want premium default", interpreter.gotModel)
	}

	if authorizer.gotInput.Tier != service.TierPremium {
		t.Errorf("tier = %q, want premium when a key is supplied", authorizer.gotInput.Tier)
	}
}

func TestCommandInvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "missing sheet context", body: model.CommandRequest{Command: "sum it"}},
		{name: "blank command", body: model.CommandRequest{Command: "   ", SheetContext: &model.SheetContext{}}},
		{name: "blank command in batch mode", body: model.CommandRequest{SheetContext: &model.SheetContext{
			Operation:      model.BatchTranslateSentinel,
			Texts:          []string{"안녕"},
			TargetLanguage: "영어",
		}}},
		{name: "not json", body: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCommandRouter(&fakeInterpreter{}, &fakeAuthorizer{}, true)

			rec := postCommand(t, router, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			body := decodeBody(t, rec)
			if body["error"] != MsgInvalidRequest {
				t.Errorf("error = %v, want %q", body["error"], MsgInvalidRequest)
			}
		})
	}
}

func TestCommandPremiumDenied(t *testing.T) {
	authorizer := &fakeAuthorizer{decision: service.Decision{Reason: apperrors.ErrAuthInvalid}}
	router := newCommandRouter(&fakeInterpreter{}, authorizer, true)

	rec := postCommand(t, router, model.CommandRequest{
		Command:      "sum it",
		AuthKey:      "WORKS-BAD00000",
		SheetContext: &model.SheetContext{},
	})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != false || body["error"] != MsgAuthInvalid {
		t.Errorf("body = %v, want success=false error=%q", body, MsgAuthInvalid)
	}

	if body["debug"] == nil {
		t.Error("deny response carries no debug detail")
	}
}

func TestCommandInterpretErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		batch      bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "rate limited stays 200",
			err:        apperrors.ErrRateLimited,
			wantStatus: http.StatusOK,
			wantError:  MsgRateLimited,
		},
		{
			name:       "upstream detail surfaces",
			err:        fmt.Errorf("%w: model overloaded", apperrors.ErrUpstream),
			wantStatus: http.StatusOK,
			wantError:  MsgUpstreamPrefix + "model overloaded",
		},
		{
			name:       "unparseable response",
			err:        apperrors.ErrUnparseableResponse,
			wantStatus: http.StatusOK,
			wantError:  MsgUnparseable,
		},
		{
			name:       "unknown operation",
			err:        fmt.Errorf("%w: %q", apperrors.ErrUnknownOperation, "pivot"),
			wantStatus: http.StatusOK,
			wantError:  MsgUnparseable,
		},
		{
			name:       "batch upstream failure",
			err:        fmt.Errorf("%w: timeout", apperrors.ErrUpstream),
			batch:      true,
			wantStatus: http.StatusOK,
			wantError:  MsgTranslateFailed,
		},
		{
			name:       "invalid request from service",
			err:        apperrors.ErrInvalidRequest,
			batch:      true,
			wantStatus: http.StatusBadRequest,
			wantError:  MsgInvalidRequest,
		},
		{
			name:       "unexpected error",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantError:  MsgServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interpreter := &fakeInterpreter{err: tt.err}
			authorizer := &fakeAuthorizer{decision: service.Decision{Granted: true, IsFree: true}}
			router := newCommandRouter(interpreter, authorizer, true)

			reqBody := model.CommandRequest{Command: "do it", SheetContext: &model.SheetContext{}}
			if tt.batch {
				reqBody.SheetContext = &model.SheetContext{
					Operation:      model.BatchTranslateSentinel,
					Texts:          []string{"hi"},
					TargetLanguage: "Japanese",
				}
			}

			rec := postCommand(t, router, reqBody)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			body := decodeBody(t, rec)
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}

			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestCommandBatchSuccess(t *testing.T) {
	interpreter := &fakeInterpreter{outcome: &service.Outcome{
		Batch: &model.BatchTranslateResult{
			Operation:    "translate_batch_result",
			Translations: []string{"こんにちは", "", "ありがとう"},
		},
	}}
	authorizer := &fakeAuthorizer{decision: service.Decision{Granted: true, IsFree: true}}
	router := newCommandRouter(interpreter, authorizer, true)

	rec := postCommand(t, router, model.CommandRequest{
		Command: "선택 범위 번역",
		SheetContext: &model.SheetContext{
			Operation:      model.BatchTranslateSentinel,
			Texts:          []string{"안녕", "", "고마워"},
			TargetLanguage: "일본어",
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %v", body["data"])
	}

	translations, ok := data["translations"].([]any)
	if !ok || len(translations) != 3 {
		t.Errorf("translations = %v, want 3 aligned slots", data["translations"])
	}
}

func TestCommandWithoutAPIKey(t *testing.T) {
	router := newCommandRouter(&fakeInterpreter{}, &fakeAuthorizer{}, false)

	rec := postCommand(t, router, model.CommandRequest{Command: "sum it", SheetContext: &model.SheetContext{}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != MsgNoAPIKey {
		t.Errorf("error = %v, want %q", body["error"], MsgNoAPIKey)
	}
}

func TestCommandHealthProbe(t *testing.T) {
	router := newCommandRouter(&fakeInterpreter{}, &fakeAuthorizer{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/command", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["apiKeyConfigured"] != true {
		t.Errorf("health body = %v", body)
	}
}
