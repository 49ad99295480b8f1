// Package server provides the HTTP REST API for the meal planner.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/baigao417/meal-planner-assistant/internal/db"
	"github.com/baigao417/meal-planner-assistant/internal/ingestion"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
	"github.com/baigao417/meal-planner-assistant/internal/metrics"
	"github.com/baigao417/meal-planner-assistant/internal/recommend"
	"github.com/baigao417/meal-planner-assistant/internal/server/ratelimit"
	"github.com/baigao417/meal-planner-assistant/internal/types"
)

// DefaultRequestTimeout bounds requests that call the language model.
const DefaultRequestTimeout = 60 * time.Second

// Store is the persistence the API needs. *db.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateProfile(ctx context.Context, p types.UserProfile) (*types.UserProfile, error)
	GetProfile(ctx context.Context, id string) (*types.UserProfile, error)
	GetProfiles(ctx context.Context, ids []string) ([]types.UserProfile, error)
	ListProfiles(ctx context.Context) ([]types.UserProfile, error)
	UpdateProfile(ctx context.Context, p types.UserProfile) error
	DeleteProfile(ctx context.Context, id string) error

	CreateDish(ctx context.Context, d types.Dish) (*types.Dish, error)
	CreateDishes(ctx context.Context, dishes []types.Dish) ([]types.Dish, error)
	GetDish(ctx context.Context, id string) (*types.Dish, error)
	ListDishes(ctx context.Context, filters db.DishFilters) ([]types.Dish, error)
	UpdateDish(ctx context.Context, d types.Dish) error
	DeleteDish(ctx context.Context, id string) error

	SaveRecommendation(ctx context.Context, mode string, profileIDs []string, rec types.MealRecommendation) (uuid.UUID, error)
	ListRecommendations(ctx context.Context, profileID string, limit int) ([]db.RecommendationRecord, error)
}

// Recommender picks meals. *recommend.Engine satisfies it.
type Recommender interface {
	FindBestMeal(ctx context.Context, profile types.UserProfile, dishes []types.Dish) (recommend.Result, error)
	FindBestGroupMeal(ctx context.Context, participants []types.GroupParticipant, dishes []types.Dish) (recommend.Result, error)
	Threshold() float64
}

// MacroEstimator guesses the macros of a dish by name.
type MacroEstimator interface {
	EstimateMacros(ctx context.Context, dishName, restaurant string) (types.Macros, error)
}

// Config holds server configuration
type Config struct {
	Port int
	// RequestTimeout bounds recommendation, estimation and import requests. Zero uses DefaultRequestTimeout.
	RequestTimeout time.Duration
	// RateLimit defaults to ratelimit.LoadConfig().
	RateLimit *ratelimit.Config
}

// Deps are the collaborators a Server delegates to. Store and Recommender are required.
type Deps struct {
	Store       Store
	Recommender Recommender
	Estimator   MacroEstimator
	Importer    *ingestion.Importer
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	store          Store
	recommender    Recommender
	estimator      MacroEstimator
	importer       *ingestion.Importer
	rateLimiter    *ratelimit.Limiter
	validate       *validator.Validate
	requestTimeout time.Duration
	handler        http.Handler
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server requires a store")
	}
	if deps.Recommender == nil {
		return nil, errors.New("server requires a recommender")
	}

	rateCfg := cfg.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	s := &Server{
		store:          deps.Store,
		recommender:    deps.Recommender,
		estimator:      deps.Estimator,
		importer:       deps.Importer,
		rateLimiter:    ratelimit.NewLimiter(rateCfg),
		validate:       newValidator(),
		requestTimeout: timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	// Recommendations
	mux.HandleFunc("POST /recommendations", s.handleRecommend)
	mux.HandleFunc("POST /recommendations/group", s.handleRecommendGroup)
	mux.HandleFunc("GET /targets", s.handleTargets)

	// Profiles
	mux.HandleFunc("GET /profiles", s.handleListProfiles)
	mux.HandleFunc("POST /profiles", s.handleCreateProfile)
	mux.HandleFunc("GET /profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("PUT /profiles/{id}", s.handleUpdateProfile)
	mux.HandleFunc("DELETE /profiles/{id}", s.handleDeleteProfile)
	mux.HandleFunc("GET /profiles/{id}/recommendations", s.handleListProfileRecommendations)

	// Dishes
	mux.HandleFunc("GET /dishes", s.handleListDishes)
	mux.HandleFunc("POST /dishes", s.handleCreateDish)
	mux.HandleFunc("POST /dishes/estimate-macros", s.handleEstimateMacros)
	mux.HandleFunc("POST /dishes/import", s.handleImportDishes)
	mux.HandleFunc("GET /dishes/{id}", s.handleGetDish)
	mux.HandleFunc("PUT /dishes/{id}", s.handleUpdateDish)
	mux.HandleFunc("DELETE /dishes/{id}", s.handleDeleteDish)

	// withLogging must wrap the mux directly so it sees the matched pattern.
	s.handler = s.withRateLimit(s.withCORS(s.withRequestID(s.withLogging(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	logging.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	logging.Info().Msg("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestID attaches a request ID to the context and the response.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), requestID)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// withLogging logs each request and records its metrics under the matched route pattern.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start)
		metrics.RecordAPIRequest(r.Method, endpoint, rec.status, duration)

		event := logging.Ctx(r.Context()).Info()
		if rec.status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("endpoint", endpoint).
			Int("status", rec.status).
			Str("remote_addr", r.RemoteAddr).
			Dur("duration", duration).
			Msg("request completed")
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			metrics.RecordRateLimitHit(r.URL.Path)
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth reports whether the store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("health check failed")
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		retryAfter := int(info.RetryAfter.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	}

	logging.Ctx(r.Context()).Warn().
		Str("client", s.extractClientID(r)).
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
