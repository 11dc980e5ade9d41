// Package mockservice is a scripted stand-in for the adaptive assessment
// and profile services, used for local development and HTTP tests.
package mockservice

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abhisek/coursematch/internal/adaptive"
)

// Options configures the mock service.
type Options struct {
	// MinFraction of max_questions must be answered before finishing
	// early. Default 0.5.
	MinFraction float64

	// IncompleteProfiles lists user IDs whose academic profile is missing.
	IncompleteProfiles []int64
}

type answer struct {
	questionID string
	trait      string
}

type session struct {
	id      string
	userID  int64
	max     int
	min     int
	answers []answer
	done    bool
}

func (s *session) round() int { return len(s.answers) + 1 }

// Service holds the mock's in-memory sessions.
type Service struct {
	mu         sync.Mutex
	sessions   map[string]*session
	incomplete map[int64]bool
	minFrac    float64
}

// New creates an empty mock service.
func New(opts Options) *Service {
	s := &Service{
		sessions:   make(map[string]*session),
		incomplete: make(map[int64]bool),
		minFrac:    opts.MinFraction,
	}
	if s.minFrac <= 0 || s.minFrac > 1 {
		s.minFrac = 0.5
	}
	for _, id := range opts.IncompleteProfiles {
		s.incomplete[id] = true
	}
	return s
}

// NewRouter creates the chi router serving both the assessment and the
// profile endpoints.
func NewRouter(svc *Service, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Route("/api/assessment", func(r chi.Router) {
		r.Post("/start", svc.Start)
		r.Post("/answer", svc.Answer)
		r.Post("/previous", svc.Previous)
		r.Post("/finish", svc.Finish)
	})
	r.Get("/api/profile/{userID}/academic-status", svc.AcademicStatus)

	return r
}

// RequestID tags each response with a short request ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.New().String()[:8])
		next.ServeHTTP(w, r)
	})
}

// Logger logs method, path, status and duration of each request.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// Recovery turns handler panics into 500 responses.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(v)
}

// Wire payloads reuse the client's request types.
type (
	startRequest    = adaptive.StartRequest
	answerRequest   = adaptive.AnswerRequest
	previousRequest = adaptive.PreviousRequest
	finishRequest   = adaptive.FinishRequest
)
