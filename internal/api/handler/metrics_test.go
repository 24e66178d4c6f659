package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/dailycopilot/dailycopilot/internal/metrics"
	"github.com/dailycopilot/dailycopilot/internal/summary"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

type mockMetricsLister struct {
	fn func(params summary.MetricsParams) (*metrics.SummaryMetrics, error)
}

func (m *mockMetricsLister) ListMetrics(_ context.Context, params summary.MetricsParams) (*metrics.SummaryMetrics, error) {
	return m.fn(params)
}

func TestSummaryMetricsHandler_Success(t *testing.T) {
	projectID := uuid.New()
	var got summary.MetricsParams
	svc := &mockMetricsLister{fn: func(params summary.MetricsParams) (*metrics.SummaryMetrics, error) {
		got = params
		return &metrics.SummaryMetrics{
			CountsByBlocker: map[string]int{"deploy": 2},
			TopBlockers:     []string{"deploy"},
			VelocityScore:   60,
			Heatmap:         []int{0, 1, 2, 0, 1, 1, 0},
		}, nil
	}}

	h := NewSummaryMetricsHandler(svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodGet, "/api/v1/metrics?period=week", nil, projectID))

	data := parseData(t, rec, http.StatusOK)
	if got.ProjectID != projectID || got.Period != models.PeriodWeek {
		t.Errorf("unexpected params: %+v", got)
	}
	if data["velocityScore"] != float64(60) {
		t.Errorf("unexpected velocity: %v", data["velocityScore"])
	}
	if top, ok := data["topBlockers"].([]any); !ok || len(top) != 1 || top[0] != "deploy" {
		t.Errorf("unexpected topBlockers: %v", data["topBlockers"])
	}
}

func TestSummaryMetricsHandler_DefaultsToWeek(t *testing.T) {
	var got summary.MetricsParams
	svc := &mockMetricsLister{fn: func(params summary.MetricsParams) (*metrics.SummaryMetrics, error) {
		got = params
		return &metrics.SummaryMetrics{}, nil
	}}

	h := NewSummaryMetricsHandler(svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodGet, "/api/v1/metrics", nil, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Period != models.PeriodWeek {
		t.Errorf("expected default week period, got %q", got.Period)
	}
}

func TestSummaryMetricsHandler_UserFilter(t *testing.T) {
	userID := uuid.New()
	var got summary.MetricsParams
	svc := &mockMetricsLister{fn: func(params summary.MetricsParams) (*metrics.SummaryMetrics, error) {
		got = params
		return &metrics.SummaryMetrics{}, nil
	}}

	h := NewSummaryMetricsHandler(svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodGet, "/api/v1/metrics?period=day&user_id="+userID.String(), nil, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.UserID != userID || got.Period != models.PeriodDay {
		t.Errorf("unexpected params: %+v", got)
	}
}

func TestSummaryMetricsHandler_MalformedUserID(t *testing.T) {
	h := NewSummaryMetricsHandler(&mockMetricsLister{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodGet, "/api/v1/metrics?user_id=nope", nil, uuid.New()))

	code, errCode := parseErr(t, rec)
	if code != http.StatusBadRequest || errCode != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", code, errCode)
	}
}

func TestSummaryMetricsHandler_InvalidPeriod(t *testing.T) {
	svc := &mockMetricsLister{fn: func(summary.MetricsParams) (*metrics.SummaryMetrics, error) {
		return nil, summary.ErrInvalidPeriod
	}}
	h := NewSummaryMetricsHandler(svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodGet, "/api/v1/metrics?period=quarter", nil, uuid.New()))

	code, errCode := parseErr(t, rec)
	if code != http.StatusBadRequest || errCode != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %s", code, errCode)
	}
}

func TestSummaryMetricsHandler_MissingProject(t *testing.T) {
	h := NewSummaryMetricsHandler(&mockMetricsLister{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodGet, "/api/v1/metrics", nil, uuid.Nil))

	code, errCode := parseErr(t, rec)
	if code != http.StatusUnauthorized || errCode != "INVALID_TOKEN" {
		t.Errorf("expected 401 INVALID_TOKEN, got %d %s", code, errCode)
	}
}
