package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	mw "github.com/dailycopilot/dailycopilot/internal/api/middleware"
	"github.com/dailycopilot/dailycopilot/internal/summary"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// --- shared helpers ---

func jsonReq(t *testing.T, method, path string, body any, projectID uuid.UUID) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if projectID != uuid.Nil {
		r = r.WithContext(mw.SetProjectID(r.Context(), projectID))
	}
	return r
}

func parseData(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) map[string]any {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("expected %d, got %d: %s", wantStatus, rec.Code, rec.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func parseErr(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, env.Error.Code
}

// --- mock SummaryRegistrar ---

type mockRegistrar struct {
	fn func(params summary.RegisterParams) (*models.Summary, error)
}

func (m *mockRegistrar) RegisterSummary(_ context.Context, params summary.RegisterParams) (*models.Summary, error) {
	return m.fn(params)
}

// --- tests ---

func TestRegisterSummaryHandler_Success(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()
	var got summary.RegisterParams
	svc := &mockRegistrar{fn: func(params summary.RegisterParams) (*models.Summary, error) {
		got = params
		return &models.Summary{
			ID:        uuid.New(),
			Text:      params.Text,
			Date:      time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			UserID:    params.UserID,
			ProjectID: params.ProjectID,
			Tags:      []models.Tag{{ID: uuid.New(), Name: "code"}},
		}, nil
	}}

	h := NewRegisterSummaryHandler(svc)
	rec := httptest.NewRecorder()
	body := map[string]any{
		"text":    "Terminei a feature de login, mas estou bloqueado no deploy",
		"user_id": userID.String(),
	}
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/summaries", body, projectID))

	data := parseData(t, rec, http.StatusCreated)
	if got.ProjectID != projectID || got.UserID != userID {
		t.Errorf("unexpected params: %+v", got)
	}
	if data["text"] != "Terminei a feature de login, mas estou bloqueado no deploy" {
		t.Errorf("unexpected text: %v", data["text"])
	}
	tags, ok := data["tags"].([]any)
	if !ok || len(tags) != 1 {
		t.Errorf("expected one tag, got %v", data["tags"])
	}
}

func TestRegisterSummaryHandler_MissingProject(t *testing.T) {
	h := NewRegisterSummaryHandler(&mockRegistrar{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/summaries", map[string]any{"text": "x"}, uuid.Nil))

	code, errCode := parseErr(t, rec)
	if code != http.StatusUnauthorized || errCode != "INVALID_TOKEN" {
		t.Errorf("expected 401 INVALID_TOKEN, got %d %s", code, errCode)
	}
}

func TestRegisterSummaryHandler_InvalidJSON(t *testing.T) {
	h := NewRegisterSummaryHandler(&mockRegistrar{})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/summaries", bytes.NewReader([]byte("{not json")))
	r = r.WithContext(mw.SetProjectID(r.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	code, errCode := parseErr(t, rec)
	if code != http.StatusBadRequest || errCode != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", code, errCode)
	}
}

func TestRegisterSummaryHandler_MissingUserID(t *testing.T) {
	h := NewRegisterSummaryHandler(&mockRegistrar{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/summaries", map[string]any{"text": "x"}, uuid.New()))

	code, errCode := parseErr(t, rec)
	if code != http.StatusBadRequest || errCode != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", code, errCode)
	}
}

func TestRegisterSummaryHandler_MalformedUserID(t *testing.T) {
	h := NewRegisterSummaryHandler(&mockRegistrar{})
	rec := httptest.NewRecorder()
	body := map[string]any{"text": "x", "user_id": "not-a-uuid"}
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/summaries", body, uuid.New()))

	code, _ := parseErr(t, rec)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestRegisterSummaryHandler_EmptyText(t *testing.T) {
	svc := &mockRegistrar{fn: func(summary.RegisterParams) (*models.Summary, error) {
		return nil, summary.ErrEmptyText
	}}
	h := NewRegisterSummaryHandler(svc)
	rec := httptest.NewRecorder()
	body := map[string]any{"text": "", "user_id": uuid.New().String()}
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/summaries", body, uuid.New()))

	code, errCode := parseErr(t, rec)
	if code != http.StatusBadRequest || errCode != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", code, errCode)
	}
}

func TestRegisterSummaryHandler_InvalidDate(t *testing.T) {
	svc := &mockRegistrar{fn: func(summary.RegisterParams) (*models.Summary, error) {
		return nil, summary.ErrInvalidDate
	}}
	h := NewRegisterSummaryHandler(svc)
	rec := httptest.NewRecorder()
	body := map[string]any{"text": "x", "date": "15/03/2025", "user_id": uuid.New().String()}
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/summaries", body, uuid.New()))

	code, _ := parseErr(t, rec)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestRegisterSummaryHandler_ServiceFailure(t *testing.T) {
	svc := &mockRegistrar{fn: func(summary.RegisterParams) (*models.Summary, error) {
		return nil, errors.New("db down")
	}}
	h := NewRegisterSummaryHandler(svc)
	rec := httptest.NewRecorder()
	body := map[string]any{"text": "x", "user_id": uuid.New().String()}
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/summaries", body, uuid.New()))

	code, errCode := parseErr(t, rec)
	if code != http.StatusInternalServerError || errCode != "INTERNAL_ERROR" {
		t.Errorf("expected 500 INTERNAL_ERROR, got %d %s", code, errCode)
	}
}
