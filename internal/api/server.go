package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/api/middleware"
	"github.com/finsightai/finsight/internal/api/response"
	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/metrics"
)

// Runner executes one full analysis.
type Runner interface {
	Run(ctx context.Context, symbol string, period core.Period) (core.AnalysisContext, error)
}

// Saver persists a completed run and returns its storage path.
type Saver interface {
	Save(ctx context.Context, state core.AnalysisContext) (string, error)
}

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	httpServer *http.Server
	runner     Runner
	saver      Saver
	registry   *metrics.Registry
	logger     *zap.Logger
}

// Config holds server configuration.
type Config struct {
	Host   string
	Port   int
	APIKey string
}

// NewServer creates an HTTP server around the pipeline.
func NewServer(cfg Config, runner Runner, saver Saver, reg *metrics.Registry, logger *zap.Logger) *Server {
	s := &Server{
		runner:   runner,
		saver:    saver,
		registry: reg,
		logger:   logger,
	}

	mux := http.NewServeMux()
	auth := middleware.APIKeyAuth(cfg.APIKey)
	instrument := middleware.Metrics(reg)

	mux.Handle("/api/analyze", instrument(auth(http.HandlerFunc(s.handleAnalyze))))
	mux.Handle("/api/health", instrument(http.HandlerFunc(s.handleHealth)))
	if reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg.Registry, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // analysis runs are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type analyzeRequest struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

type analyzeResponse struct {
	Symbol      string            `json:"symbol"`
	Period      string            `json:"period"`
	Insights    map[string]string `json:"insights"`
	Bull        string            `json:"bull"`
	Bear        string            `json:"bear"`
	Debate      string            `json:"debate"`
	Decision    string            `json:"decision"`
	RiskVerdict string            `json:"risk_verdict"`
	ReportPath  string            `json:"report_path,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrInvalidInput, fmt.Errorf("method %s not allowed", r.Method)))
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, fmt.Errorf("decoding request: %w", err)))
		return
	}

	state, err := s.runner.Run(r.Context(), req.Symbol, core.Period(req.Period))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	resp := analyzeResponse{
		Symbol:      state.Symbol,
		Period:      string(state.Period),
		Insights:    state.Insights,
		Bull:        state.Debate.Bull,
		Bear:        state.Debate.Bear,
		Debate:      state.Debate.Summary,
		Decision:    state.Decision,
		RiskVerdict: state.RiskVerdict,
	}
	if s.saver != nil {
		path, err := s.saver.Save(r.Context(), state)
		if err != nil {
			s.logger.Warn("saving report failed", zap.Error(err))
		} else {
			resp.ReportPath = path
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
