package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/career-assistant/internal/advisor"
	"github.com/jonathan/career-assistant/internal/db"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/requirements"
	"github.com/jonathan/career-assistant/internal/server/ratelimit"
	"github.com/jonathan/career-assistant/internal/validation"
)

// maxBodyBytes caps JSON and upload request bodies.
const maxBodyBytes = 10 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       profile.Store
	interviews  *interview.Manager
	advisor     *advisor.Advisor
	catalog     *requirements.Catalog
	loader      *ingestion.Loader
	history     *db.DB
	rateLimiter *ratelimit.Limiter
	log         logrus.FieldLogger
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config // nil uses ratelimit.DefaultConfig(1000)
}

// Deps are the services the handlers call into. Store and Interviews are required.
// History is optional and enables GET /interviews.
type Deps struct {
	Store      profile.Store
	Interviews *interview.Manager
	Advisor    *advisor.Advisor
	Catalog    *requirements.Catalog
	Loader     *ingestion.Loader
	History    *db.DB
	Log        logrus.FieldLogger
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server: profile store is required")
	}
	if deps.Interviews == nil {
		return nil, errors.New("server: interview manager is required")
	}
	if deps.Catalog == nil {
		deps.Catalog = requirements.Default()
	}
	if deps.Loader == nil {
		deps.Loader = ingestion.NewLoader(nil)
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}

	s := &Server{
		store:       deps.Store,
		interviews:  deps.Interviews,
		advisor:     deps.Advisor,
		catalog:     deps.Catalog,
		loader:      deps.Loader,
		history:     deps.History,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		log:         deps.Log,
		now:         func() time.Time { return time.Now().UTC() },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Profiles
	mux.HandleFunc("GET /profiles", s.handleListProfiles)
	mux.HandleFunc("POST /profiles", s.handleCreateProfile)
	mux.HandleFunc("GET /profiles/export", s.handleBulkExport)
	mux.HandleFunc("POST /profiles/import", s.handleImportProfiles)
	mux.HandleFunc("POST /profiles/extract", s.handleExtractProfile)
	mux.HandleFunc("POST /profiles/merge", s.handleMergeProfiles)
	mux.HandleFunc("GET /profiles/{name}", s.handleGetProfile)
	mux.HandleFunc("PUT /profiles/{name}", s.handleUpdateProfile)
	mux.HandleFunc("DELETE /profiles/{name}", s.handleDeleteProfile)
	mux.HandleFunc("GET /profiles/{name}/export", s.handleExportProfile)
	mux.HandleFunc("GET /profiles/{name}/activity", s.handleGetActivity)
	mux.HandleFunc("POST /profiles/{name}/activity", s.handleLogActivity)
	mux.HandleFunc("POST /profiles/{name}/progress", s.handleLogProgress)
	mux.HandleFunc("GET /profiles/{name}/plan", s.handleAdaptivePlan)
	mux.HandleFunc("GET /stats", s.handleStats)

	// Assessments
	mux.HandleFunc("GET /assessments/topics", s.handleListTopics)
	mux.HandleFunc("GET /assessments/{topic}", s.handleGetAssessment)
	mux.HandleFunc("POST /assessments/score", s.handleScoreAssessment)

	// Roles, gaps and resume readiness
	mux.HandleFunc("GET /roles", s.handleListRoles)
	mux.HandleFunc("POST /gaps", s.handleGaps)
	mux.HandleFunc("POST /readiness", s.handleReadiness)

	// Mock interviews
	mux.HandleFunc("GET /interviews", s.handleListInterviews)
	mux.HandleFunc("POST /interviews", s.handleCreateInterview)
	mux.HandleFunc("GET /interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("DELETE /interviews/{id}", s.handleDeleteInterview)
	mux.HandleFunc("POST /interviews/{id}/question", s.handleNextQuestion)
	mux.HandleFunc("POST /interviews/{id}/answer", s.handleSubmitAnswer)
	mux.HandleFunc("POST /interviews/{id}/skip", s.handleSkipQuestion)
	mux.HandleFunc("POST /interviews/{id}/summary", s.handleInterviewSummary)
	mux.HandleFunc("POST /interviews/{id}/reset", s.handleResetInterview)
	mux.HandleFunc("GET /interviews/{id}/report", s.handleInterviewReport)

	// Advisor
	mux.HandleFunc("POST /advisor/{kind}", s.handleAdvisor)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // advisor generations can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.rateLimiter.Run(ctx, 5*time.Minute)
	go s.interviews.RunSweeper(ctx, time.Minute)

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
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		d := s.rateLimiter.Allow(clientID, r.Method, r.URL.Path)

		s.setRateLimitHeaders(w, d)
		if !d.Allowed {
			s.rateLimitResponse(w, r, clientID, d)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
		} else {
			entry.Info("request completed")
		}
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "interview_sessions": s.interviews.Len()}
	if s.history != nil {
		if err := s.history.Ping(r.Context()); err != nil {
			resp["status"] = "degraded"
			resp["database"] = err.Error()
		} else {
			resp["database"] = "ok"
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": errorCode(status), "message": message})
}

// fail maps err to a status and writes it. Internal errors are logged and hidden.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request error")
		s.errorResponse(w, status, "internal server error")
		return
	}
	if status == http.StatusBadGateway {
		s.log.WithError(err).WithField("path", r.URL.Path).Warn("upstream failure")
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a size-limited JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := decodeStrict(r.Body, dst); err != nil {
		s.fail(w, r, err)
		return false
	}
	return true
}

// decodeStrict decodes one JSON value, reporting syntax errors as validation errors.
func decodeStrict(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return validation.New("", "Invalid JSON: "+err.Error())
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	if d.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, d ratelimit.Decision) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     d.Limit,
		"remaining": d.Remaining,
	}
	if !d.ResetAt.IsZero() {
		response["reset_at"] = d.ResetAt.Format(time.RFC3339)
	}

	if d.RetryAfter > 0 {
		secs := int(d.RetryAfter.Seconds())
		if d.RetryAfter%time.Second != 0 {
			secs++
		}
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.WithFields(logrus.Fields{
		"client": clientID,
		"method": r.Method,
		"path":   r.URL.Path,
		"limit":  d.Limit,
	}).Warn("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
