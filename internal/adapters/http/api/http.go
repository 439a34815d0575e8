// Package api exposes the shooting-form engine over HTTP: synchronous
// analysis, async jobs, the reference corpus and the leaderboard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/shotform/internal/app"
	"github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/pkg/logger"
)

const (
	defaultMaxLeaderboardLimit = 100
	maxBodyBytes               = 4 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	AnalyzeDependencies
	AnalysesDependencies
	ShooterDependencies
	LeaderboardDependencies
	RankDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = model.LeaderboardEntry

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps GET /leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxLimit int
	logger   logger.Logger

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	analyzeHandler     *AnalyzeHandler
	analysesHandler    *AnalysesHandler
	shootersHandler    *ShootersHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLeaderboardLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.analyzeHandler = NewAnalyzeHandler(deps, s.logger)
	s.analysesHandler = NewAnalysesHandler(deps, s.logger)
	s.shootersHandler = NewShootersHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	s.rankHandler = NewRankHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/analyses", MetricsMiddleware(s.analysesHandler.HandleSubmit, "analyses"))
	mux.HandleFunc("/analyses/", MetricsMiddleware(s.analysesHandler.HandleGetResult, "analysis"))
	mux.HandleFunc("/shooters", MetricsMiddleware(s.shootersHandler.HandleList, "shooters"))
	mux.HandleFunc("/shooters/", MetricsMiddleware(s.shootersHandler.HandleGet, "shooter"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))

	s.logger.Debug(ctx, "api routes registered")
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	var ke *kindError
	switch {
	case errors.As(err, &ke):
		msg = ke.message()
	case err != nil:
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service sentinels to status codes. Anything
// unrecognised is a 500 and is logged.
func writeServiceError(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrAnalysisUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "analysis_unavailable", newKind(op, ErrAnalysisUnavailable))
	case errors.Is(err, service.ErrInvalidKeypoints), errors.Is(err, service.ErrInvalidJob):
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", newKind(op, ErrNotFound))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", newKind(op, ErrBackpressure))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", newKind(op, ErrUnavailable))
	default:
		l.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", wrapKind(op, ErrInternal, err))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
