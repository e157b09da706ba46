// Package server provides the HTTP API for keyword analysis, job scraping,
// resume extraction, HTML repair and the model-backed assistant actions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/config"
	"github.com/jonathan/ats-optimizer/internal/fetch"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/logging"
	"github.com/jonathan/ats-optimizer/internal/server/middleware"
	"github.com/jonathan/ats-optimizer/internal/server/ratelimit"
	"github.com/jonathan/ats-optimizer/internal/store"
)

// maxJSONBodyBytes caps JSON request bodies. Uploads use the configured
// MaxUploadMB instead.
const maxJSONBodyBytes = 1 << 20

// ClientFactory builds an LLM client. An empty model keeps the provider's
// tier defaults.
type ClientFactory func(ctx context.Context, provider llm.Provider, apiKey, model string) (llm.Client, error)

// DefaultClientFactory builds real provider clients.
func DefaultClientFactory(ctx context.Context, provider llm.Provider, apiKey, model string) (llm.Client, error) {
	cfg, err := llm.ConfigFor(provider)
	if err != nil {
		return nil, err
	}
	return llm.NewClient(ctx, cfg.WithAllModels(model), apiKey)
}

// Options are the dependencies of a Server.
type Options struct {
	Config *config.Config
	// Store holds settings and history. Nil uses an in-memory store.
	Store store.Store
	// ClientFactory defaults to DefaultClientFactory.
	ClientFactory ClientFactory
	// RateLimit defaults to ratelimit.LoadConfig().
	RateLimit *ratelimit.Config
}

// Server is the HTTP API server.
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	config      *config.Config
	store       store.Store
	fetcher     *fetch.CachedFetcher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	newClient   ClientFactory
	validate    *validator.Validate
	log         *logrus.Logger
}

// New creates a server. Sessions, settings and history are disabled when no
// JWT secret is configured.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	st := opts.Store
	if st == nil {
		st = store.NewMemoryStore()
	}

	s := &Server{
		config:    cfg,
		store:     st,
		newClient: opts.ClientFactory,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       logging.Get(),
	}
	if s.newClient == nil {
		s.newClient = DefaultClientFactory
	}

	rl := opts.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	// Fetched pages are public, so the page cache skips the sealing layer.
	var pageCache fetch.PageCache = st
	if sealed, ok := st.(*store.SealedStore); ok {
		pageCache = sealed.Unwrap()
	}
	fetchOpts := fetch.DefaultOptions()
	if cfg.Fetch.TimeoutSeconds > 0 {
		fetchOpts.Timeout = time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	}
	if cfg.Fetch.UserAgent != "" {
		fetchOpts.UserAgent = cfg.Fetch.UserAgent
	}
	s.fetcher = fetch.NewCachedFetcher(pageCache, &fetch.CachedFetcherConfig{
		CacheTTL: time.Duration(cfg.Fetch.CacheTTLMinutes) * time.Minute,
		Options:  fetchOpts,
	})

	if jwtCfg, err := cfg.JWT(); err == nil {
		s.jwtService = NewJWTService(jwtCfg)
	} else {
		s.log.WithError(err).Warn("sessions disabled")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze-keywords", s.handleAnalyzeKeywords)
	mux.HandleFunc("POST /scrape-job", s.handleScrapeJob)
	mux.HandleFunc("POST /extract-resume", s.handleExtractResume)
	mux.HandleFunc("POST /repair-html", s.handleRepairHTML)
	mux.HandleFunc("POST /ai", s.handleAI)

	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.Handle("GET /settings", s.requireSession(s.handleListSettings))
	mux.Handle("GET /settings/{key}", s.requireSession(s.handleGetSetting))
	mux.Handle("PUT /settings/{key}", s.requireSession(s.handlePutSetting))
	mux.Handle("DELETE /settings/{key}", s.requireSession(s.handleDeleteSetting))
	mux.Handle("GET /history", s.requireSession(s.handleListHistory))
	mux.Handle("POST /history", s.requireSession(s.handleAppendHistory))

	s.handler = middleware.RequestID(s.withRateLimit(s.withLogging(s.withCORS(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.log.Info("server stopped")
	return nil
}

// Close releases the rate limiter and the store.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	if err := s.store.Close(); err != nil {
		s.log.WithError(err).Warn("failed to close store")
	}
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.config.Server.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetRequestID(r.Context()),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request completed")
	})
}

func (s *Server) requireSession(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.writeError(w, r, ErrSessionsDisabled)
		})
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode JSON response")
	}
}

// successResponse writes {"success": true, "data": ...}.
func (s *Server) successResponse(w http.ResponseWriter, status int, data any) {
	s.jsonResponse(w, status, map[string]any{"success": true, "data": data})
}

// errorResponse writes {"success": false, "error": message}.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "error": message})
}

// writeError maps err to a status and writes it. Server-side failures are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestID(r.Context()),
		}).Error("request error")
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// extractClientID identifies the client by remote IP.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"success":   false,
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.WithFields(logrus.Fields{
		"client": extractClientID(r),
		"path":   r.URL.Path,
		"limit":  info.Limit,
	}).Warn("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
