// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     handler
// Description: HTTP API for expression evaluation, exercises and history
// Author:      Mike Stoffels
// Created:     2026-10-05
// License:     MIT
// ============================================================================

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
	"github.com/msto63/venn/pkg/core/health"
	"github.com/msto63/venn/pkg/core/logging"
	"github.com/msto63/venn/pkg/core/version"
)

// maxBodyBytes bounds request bodies; expressions are short
const maxBodyBytes = 64 * 1024

// EvaluateRequest is the body of POST /api/v1/evaluate
type EvaluateRequest struct {
	ExerciseID string `json:"exercise_id,omitempty"`
	Expression string `json:"expression"`
}

// ErrorBody describes an API error
type ErrorBody struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Position *int     `json:"position,omitempty"`
	Found    string   `json:"found,omitempty"`
	Expected []string `json:"expected,omitempty"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ExercisesResponse lists the available exercises
type ExercisesResponse struct {
	Default   string                 `json:"default"`
	Exercises []service.ExerciseInfo `json:"exercises"`
	Total     int                    `json:"total"`
}

// HistoryResponse lists recorded evaluations
type HistoryResponse struct {
	Entries []*store.Evaluation `json:"entries"`
	Count   int                 `json:"count"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  health.Status        `json:"status"`
	Version string               `json:"version"`
	Uptime  string               `json:"uptime"`
	Checks  []health.CheckResult `json:"checks,omitempty"`
}

// Handler handles HTTP requests for the venn API
type Handler struct {
	service   *service.Service
	health    *health.Registry
	logger    *logging.Logger
	startTime time.Time
}

// NewHandler creates a new API handler. registry may be nil.
func NewHandler(svc *service.Service, registry *health.Registry) *Handler {
	return &Handler{
		service:   svc,
		health:    registry,
		logger:    logging.New("venn-http"),
		startTime: time.Now(),
	}
}

// Routes returns the router with all API routes and middleware installed
func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.GET("/health", h.handleHealth)
	router.GET("/api/v1/version", h.handleVersion)
	router.POST("/api/v1/evaluate", h.handleEvaluate)
	router.Handler(http.MethodGet, "/api/v1/evaluate/ws", NewWebSocketHandler(h.service))
	router.GET("/api/v1/exercises", h.handleExercises)
	router.GET("/api/v1/exercises/:id", h.handleExercise)
	router.GET("/api/v1/exercises/:id/check", h.handleCheck)
	router.GET("/api/v1/history", h.handleHistory)
	router.GET("/api/v1/stats", h.handleStats)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Endpoint not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		h.logger.Error("Panic in HTTP handler", "panic", v, "path", r.URL.Path, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}

	return Chain(router,
		RequestIDMiddleware,
		CORSMiddleware,
		LoggingMiddleware(h.logger),
	)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := HealthResponse{
		Status:  health.StatusHealthy,
		Version: version.Version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.health != nil {
		report := h.health.Check(r.Context())
		resp.Status = report.Status
		resp.Checks = report.Checks
	}

	code := http.StatusOK
	if resp.Status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, version.Get())
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON: "+err.Error())
		return
	}

	res, err := h.service.Evaluate(r.Context(), service.EvaluateRequest{
		ExerciseID: req.ExerciseID,
		Expression: req.Expression,
		Source:     store.SourceHTTP,
		RequestID:  RequestID(r.Context()),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if res.Failed() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: parseErrorBody(res.Error)})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleExercises(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	infos := service.DescribeAll(h.service.Exercises())
	writeJSON(w, http.StatusOK, ExercisesResponse{
		Default:   h.service.DefaultExercise(),
		Exercises: infos,
		Total:     len(infos),
	})
}

func (h *Handler) handleExercise(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ex, err := h.service.Exercise(ps.ByName("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.Describe(ex))
}

// CheckResult is one example outcome of GET /api/v1/exercises/:id/check
type CheckResult struct {
	Expression string `json:"expression"`
	Expected   string `json:"expected"`
	Got        string `json:"got"`
	Passed     bool   `json:"passed"`
	Reason     string `json:"reason,omitempty"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	results, err := h.service.CheckExamples(ps.ByName("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]CheckResult, 0, len(results))
	for _, res := range results {
		c := CheckResult{
			Expression: res.Expression,
			Expected:   res.Expected.String(),
			Got:        res.Got.String(),
			Passed:     res.Passed,
		}
		if !res.Passed {
			c.Reason = res.Reason()
		}
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	entries, err := h.service.History(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries, Count: len(entries)})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// parseFilter reads exercise, errors, since, limit and offset query parameters
func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	filter := store.Filter{
		ExerciseID: q.Get("exercise"),
		Limit:      100,
	}

	if v := q.Get("errors"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.New("errors must be a boolean")
		}
		filter.OnlyErrors = b
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("since must be an RFC 3339 timestamp")
		}
		filter.Since = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("limit must be a non-negative integer")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exercise.ErrExerciseNotFound):
		writeError(w, http.StatusNotFound, "exercise_not_found", err.Error())
	case errors.Is(err, service.ErrHistoryDisabled):
		writeError(w, http.StatusServiceUnavailable, "history_disabled", err.Error())
	default:
		h.logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func parseErrorBody(e *service.EvalError) ErrorBody {
	pos := e.Position
	return ErrorBody{
		Code:     e.Kind,
		Message:  e.Message,
		Position: &pos,
		Found:    e.Found,
		Expected: e.Expected,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
