package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"AutoPress/internal/config"
	"AutoPress/internal/domain"
	"AutoPress/internal/engine"
	"AutoPress/internal/usecase"
)

// Server exposes the pipeline trigger endpoint.
type Server struct {
	pipeline *usecase.Pipeline
	engines  *engine.Pool
	brands   []config.BrandConfig
	logger   *slog.Logger
	http     *http.Server
}

// New builds the HTTP server around the pipeline.
func New(addr string, pipeline *usecase.Pipeline, engines *engine.Pool, brands []config.BrandConfig, logger *slog.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		engines:  engines,
		brands:   brands,
		logger:   logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/run", s.handleRun).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until the listener fails or closes.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

type runResponse struct {
	Success   bool        `json:"success"`
	Engine    string      `json:"engine"`
	ElapsedMS int64       `json:"elapsed_ms"`
	Results   []runResult `json:"results"`
	Timestamp string      `json:"timestamp"`
}

type runResult struct {
	Brand   string             `json:"brand"`
	Status  string             `json:"status"`
	Query   string             `json:"query,omitempty"`
	Source  string             `json:"source,omitempty"`
	Engine  string             `json:"engine,omitempty"`
	Article *domain.ArticleRef `json:"article,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleRun triggers one pipeline run. An optional engine query parameter
// overrides the selection policy for the whole run.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	override := r.URL.Query().Get("engine")
	if override != "" && !s.engines.Known(override) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown engine: " + override})
		return
	}

	report, err := s.pipeline.Run(r.Context(), s.brands, override)
	if err != nil {
		s.logger.Error("pipeline run aborted", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	results := make([]runResult, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		results = append(results, runResult{
			Brand:   outcome.Brand,
			Status:  string(outcome.Status),
			Query:   outcome.Query,
			Source:  outcome.SourceTitle,
			Engine:  outcome.Engine,
			Article: outcome.Article,
			Error:   outcome.Err,
		})
	}

	writeJSON(w, http.StatusOK, runResponse{
		Success:   true,
		Engine:    report.Engine,
		ElapsedMS: report.Elapsed.Milliseconds(),
		Results:   results,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
