package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"matchday-analytics/internal/repository"
	"matchday-analytics/internal/services"
	"matchday-analytics/pkg/logging"
	"matchday-analytics/pkg/metrics"
)

// AnalyticsHandler handles the matchday API endpoints
type AnalyticsHandler struct {
	recordsService  *services.RecordsService
	analysisService *services.AnalysisService
	logger          *logging.StructuredLogger
	metrics         *metrics.Collector
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	recordsService *services.RecordsService,
	analysisService *services.AnalysisService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		recordsService:  recordsService,
		analysisService: analysisService,
		logger:          logger,
		metrics:         metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// GetCalls handles GET /api/calls
func (h *AnalyticsHandler) GetCalls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/calls").Observe(duration.Seconds())
	}()

	page, limit := pagination(r)
	filter := repository.CallFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}

	var ok bool
	if filter.StartDate, filter.EndDate, ok = h.dateRange(w, r); !ok {
		return
	}

	calls, total, err := h.recordsService.GetCalls(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_CALLS_ERROR] Failed to get call records", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/calls")
		h.sendError(w, r, "failed to retrieve call records", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/calls", "GET", "200")
	h.sendJSON(w, paginated(calls, total, page, limit), http.StatusOK)
}

// GetMatches handles GET /api/matches
func (h *AnalyticsHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/matches").Observe(duration.Seconds())
	}()

	page, limit := pagination(r)
	filter := repository.MatchFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if team := r.URL.Query().Get("team"); team != "" {
		filter.Team = &team
	}

	var ok bool
	if filter.StartDate, filter.EndDate, ok = h.dateRange(w, r); !ok {
		return
	}

	matches, total, err := h.recordsService.GetMatches(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_MATCHES_ERROR] Failed to get match records", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/matches")
		h.sendError(w, r, "failed to retrieve match records", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/matches", "GET", "200")
	h.sendJSON(w, paginated(matches, total, page, limit), http.StatusOK)
}

// GetWeekendAnalysis handles GET /api/analysis/weekends
func (h *AnalyticsHandler) GetWeekendAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.analysisService.GetWeekendReport(ctx)
	if err != nil {
		h.logger.Error(ctx, "[API_WEEKENDS_ERROR] Failed to compute weekend report", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/analysis/weekends")
		h.sendError(w, r, "failed to compute weekend report", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/analysis/weekends", "GET", "200")
	h.sendJSON(w, report, http.StatusOK)
}

// GetComparisonAnalysis handles GET /api/analysis/comparison
func (h *AnalyticsHandler) GetComparisonAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.analysisService.GetComparison(ctx)
	if err != nil {
		h.logger.Error(ctx, "[API_COMPARISON_ERROR] Failed to compute comparison", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/analysis/comparison")
		h.sendError(w, r, "failed to compute comparison", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/analysis/comparison", "GET", "200")
	h.sendJSON(w, report, http.StatusOK)
}

// GetResultAnalysis handles GET /api/analysis/results
func (h *AnalyticsHandler) GetResultAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.analysisService.GetResultBreakdown(ctx)
	if err != nil {
		h.logger.Error(ctx, "[API_RESULTS_ERROR] Failed to compute result breakdown", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/analysis/results")
		h.sendError(w, r, "failed to compute result breakdown", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/analysis/results", "GET", "200")
	h.sendJSON(w, report, http.StatusOK)
}

// GetIngestRuns handles GET /api/ingest/runs
func (h *AnalyticsHandler) GetIngestRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	runs, err := h.recordsService.ListIngestRuns(ctx, limit)
	if err != nil {
		h.logger.Error(ctx, "[API_INGEST_RUNS_ERROR] Failed to list ingest runs", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/ingest/runs")
		h.sendError(w, r, "failed to retrieve ingest runs", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/ingest/runs", "GET", "200")
	h.sendJSON(w, runs, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *AnalyticsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.recordsService.HealthCheck(ctx); err != nil {
		h.logger.Error(ctx, "[HEALTH_CHECK_ERROR] Health check failed", logging.Fields{}, err)
		h.sendJSON(w, map[string]string{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}, http.StatusServiceUnavailable)
		return
	}

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// dateRange parses the optional start_date and end_date query parameters. The
// false return means a response was already written.
func (h *AnalyticsHandler) dateRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	var start, end *time.Time

	if s := r.URL.Query().Get("start_date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.sendError(w, r, "invalid start_date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return nil, nil, false
		}
		start = &d
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.sendError(w, r, "invalid end_date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return nil, nil, false
		}
		end = &d
	}

	return start, end, true
}

// pagination parses page and limit query parameters with defaults.
func pagination(r *http.Request) (page, limit int) {
	page = 1
	limit = 100

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	return page, limit
}

func paginated(data interface{}, total, page, limit int) PaginatedResponse {
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}

// sendJSON sends a JSON response
func (h *AnalyticsHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *AnalyticsHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all matchday API routes
func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/calls", h.GetCalls).Methods("GET")
	router.HandleFunc("/api/matches", h.GetMatches).Methods("GET")
	router.HandleFunc("/api/analysis/weekends", h.GetWeekendAnalysis).Methods("GET")
	router.HandleFunc("/api/analysis/comparison", h.GetComparisonAnalysis).Methods("GET")
	router.HandleFunc("/api/analysis/results", h.GetResultAnalysis).Methods("GET")
	router.HandleFunc("/api/ingest/runs", h.GetIngestRuns).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
