package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ablecalc/able-calculator/internal/calculation"
	"github.com/ablecalc/able-calculator/internal/config"
	"github.com/ablecalc/able-calculator/internal/output"
	"github.com/ablecalc/able-calculator/internal/rates"
	"github.com/ablecalc/able-calculator/internal/store"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *calculation.CalculationEngine
	Parser   *config.InputParser
	Recorder store.Recorder

	now func() time.Time
}

// NewHandler creates a handler around engine. A nil recorder disables
// history.
func NewHandler(engine *calculation.CalculationEngine, recorder store.Recorder) *Handler {
	if recorder == nil {
		recorder = store.NewNoopRecorder()
	}
	return &Handler{
		Engine:   engine,
		Parser:   config.NewInputParser(engine.Tables),
		Recorder: recorder,
		now:      time.Now,
	}
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Calculate validates a projection request, runs it and records it in the
// history store. With ?format= other than json the rendered report is
// returned instead of JSON.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && output.GetFormatterByName(format) == nil {
		writeError(w, http.StatusBadRequest, "Unsupported format", errors.New(format))
		return
	}

	scenario := config.Scenario{Label: req.Label, UsePlanMax: req.UsePlanMax, Input: req.CalculationInput}
	if err := h.Parser.Prepare(&scenario); err != nil {
		if errors.Is(err, config.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Invalid input", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to prepare projection", err)
		return
	}

	result := h.Engine.ComputeProjection(scenario.Input)
	report := output.NewReport(scenario.Label, scenario.Input, result, h.now().UTC())

	var runID string
	if _, noop := h.Recorder.(*store.NoopRecorder); !noop {
		run := store.NewRun(scenario.Label, scenario.Input, &report.Result, report.GeneratedAt)
		if err := h.Recorder.Save(run); err != nil {
			log.Printf("[WARN] failed to record run: %v", err)
		} else {
			runID = run.ID
		}
	}

	if format == "" || output.NormalizeFormatName(format) == "json" {
		writeJSON(w, http.StatusOK, CalculateResponse{RunID: runID, ProjectionReport: report})
		return
	}
	data, err := output.Render(report, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	if runID != "" {
		w.Header().Set("X-Run-Id", runID)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListStates lists every state in the rate tables with its plan details.
func (h *Handler) ListStates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StateSummaries(h.Engine.Tables))
}

// GetState returns one state's brackets, benefits and plan.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	code := rates.NormalizeStateCode(chi.URLParam(r, "code"))
	st := h.Engine.Tables.State(code)
	if st == nil {
		writeError(w, http.StatusNotFound, "State not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(code, st))
}

// ListRuns returns recorded runs, newest first. ?limit= caps the count.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.Recorder.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun returns one recorded run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Recorder.Get(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func contentType(format string) string {
	switch output.NormalizeFormatName(format) {
	case "csv", "annual-csv":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
