// Package server provides the HTTP REST API for the resume screener.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/server/middleware"
	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/usage"
)

// Storage is the persistence surface the handlers need. db.DB satisfies it.
type Storage interface {
	GetCompany(ctx context.Context, companyID string) (*db.Company, error)
	SaveAnalysis(ctx context.Context, companyID, userID string, req *types.JobRequirement, result *types.AnalysisResult, pageCount int) (uuid.UUID, error)
	GetAnalysis(ctx context.Context, companyID string, id uuid.UUID) (*db.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, companyID string, limit int) ([]db.AnalysisSummary, error)
}

// Meter is the quota surface the handlers need. usage.Meter satisfies it.
type Meter interface {
	CheckLimit(ctx context.Context, companyID string, limit, pages int) (bool, error)
	Increment(ctx context.Context, companyID string, pages int) error
	Stats(ctx context.Context, companyID string, limit int) (*usage.Stats, error)
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	store      Storage
	meter      Meter
	jwtService *JWTService
	log        *zap.Logger

	// Factories for per-tenant collaborators, replaceable in tests.
	newExtractor func(apiKey string) extraction.Extractor
	newEngine    func(ctx context.Context, apiKey, model string) (analysis.Engine, func() error, error)
}

// New creates a new server instance over an established database connection.
func New(cfg *config.ServerConfig, database *db.DB, log *zap.Logger) (*Server, error) {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		store:      database,
		meter:      usage.NewMeter(database),
		jwtService: NewJWTService(jwtConfig),
		log:        log,
		newExtractor: func(apiKey string) extraction.Extractor {
			return extraction.NewService(cfg.ParserBaseURL, apiKey, log)
		},
		newEngine: func(ctx context.Context, apiKey, model string) (analysis.Engine, func() error, error) {
			client, err := llm.NewGeminiClient(ctx, apiKey, model)
			if err != nil {
				return nil, nil, err
			}
			return client, client.Close, nil
		},
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Analyses wait on two network calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with authentication on everything except health.
func (s *Server) routes() http.Handler {
	protected := http.NewServeMux()
	protected.HandleFunc("POST /analyze", s.handleAnalyze)
	protected.HandleFunc("GET /history", s.handleHistory)
	protected.HandleFunc("GET /analyses/{id}", s.handleGetAnalysis)
	protected.HandleFunc("GET /usage", s.handleUsage)

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/", auth(protected))

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("took", time.Since(start)))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
