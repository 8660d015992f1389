package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/ablecalc/able-calculator/internal/store"
)

const validBody = `{
	"label": "api test",
	"starting_balance": 1000,
	"recurring_contribution": 100,
	"recurring_cadence": "monthly",
	"annual_return_percent": 0,
	"time_horizon_years": 1,
	"current_year": 2026,
	"filing_status": "single",
	"account_agi": 20000,
	"state": "IL",
	"fsc_eligible": false
}`

func newTestServer(t *testing.T, recorder store.Recorder) http.Handler {
	t.Helper()
	h := NewHandler(calculation.NewCalculationEngine(), recorder)
	h.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return NewRouter(h, nil)
}

func memoryRecorder(t *testing.T) *store.SQLiteRecorder {
	t.Helper()
	r, err := store.NewSQLiteRecorder(store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

type calculateBody struct {
	RunID  string                   `json:"run_id"`
	Label  string                   `json:"label"`
	Result domain.CalculationResult `json:"result"`
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCalculateRecordsRun(t *testing.T) {
	srv := newTestServer(t, memoryRecorder(t))

	rec := do(t, srv, http.MethodPost, "/api/calculate", validBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body calculateBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "api test", body.Label)
	require.NotEmpty(t, body.RunID)
	require.Len(t, body.Result.Schedule, 12)
	assert.Equal(t, "2200", body.Result.Schedule[11].EndingBalance.String())
	require.Len(t, body.Result.TaxAwareSchedule, 12)

	rec = do(t, srv, http.MethodGet, "/api/runs/"+body.RunID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var run store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "api test", run.Label)
	assert.Equal(t, "2200", run.FinalBalance.String())
	assert.Equal(t, "IL", run.Input.StateCode)

	rec = do(t, srv, http.MethodGet, "/api/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, body.RunID, runs[0].ID)
}

func TestCalculateWithoutHistory(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(t, srv, http.MethodPost, "/api/calculate", validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var body calculateBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.RunID)

	rec = do(t, srv, http.MethodGet, "/api/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCalculateRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		body   string
		want   string
	}{
		{"malformed json", "/api/calculate", `{"starting_balance":`, "Invalid request body"},
		{"unknown field", "/api/calculate", `{"bogus": 1}`, "Invalid request body"},
		{"zero horizon", "/api/calculate", `{"time_horizon_years": 0, "filing_status": "single"}`, "Invalid input"},
		{"unknown state", "/api/calculate", `{"time_horizon_years": 1, "filing_status": "single", "state": "ZZ"}`, "Invalid input"},
		{"unknown format", "/api/calculate?format=xlsx", validBody, "Unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.want, resp.Error)
			assert.NotNil(t, resp.Details)
		})
	}
}

func TestCalculateRendersFormat(t *testing.T) {
	srv := newTestServer(t, memoryRecorder(t))

	rec := do(t, srv, http.MethodPost, "/api/calculate?format=csv", validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Run-Id"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 13)

	rec = do(t, srv, http.MethodPost, "/api/calculate?format=html", validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<!DOCTYPE html>"))
}

func TestStates(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/states", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var states []StateSummaryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	var codes []string
	for _, s := range states {
		codes = append(codes, s.Code)
	}
	assert.Contains(t, codes, "OH")
	assert.Contains(t, codes, "IL")

	rec = do(t, srv, http.MethodGet, "/api/states/oh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var oh StateDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &oh))
	assert.Equal(t, "OH", oh.Code)
	require.NotNil(t, oh.Plan.MaxAccountBalance)
	assert.Equal(t, "494000", oh.Plan.MaxAccountBalance.String())
	assert.NotEmpty(t, oh.Brackets)

	rec = do(t, srv, http.MethodGet, "/api/states/ZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "State not found", decodeError(t, rec).Error)
}

func TestRunsErrors(t *testing.T) {
	srv := newTestServer(t, memoryRecorder(t))

	rec := do(t, srv, http.MethodGet, "/api/runs/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/runs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid limit", decodeError(t, rec).Error)
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
