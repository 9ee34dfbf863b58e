package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"clipdeck/internal/logging"
	"clipdeck/internal/stitch"
	"clipdeck/internal/timeline"
)

// SessionView is the read side of the open session the API serves.
type SessionView interface {
	Project() timeline.Project
	StitchSnapshot() (stitch.Snapshot, bool)
}

// Options configures the progress API server.
type Options struct {
	Bind    string
	Token   string
	Logger  *slog.Logger
	Session SessionView
}

// Server wraps the HTTP listener for the progress API.
type Server struct {
	logger *slog.Logger
	server *http.Server
	addr   string
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	UptimeS int64  `json:"uptimeS"`
}

// StitchResponse reports render progress for the open project.
type StitchResponse struct {
	ProjectID    string                `json:"projectId"`
	Status       timeline.StitchStatus `json:"status"`
	VideoURL     string                `json:"stitchedVideoUrl,omitempty"`
	ErrorMessage string                `json:"stitchError,omitempty"`
	SubmittedAt  string                `json:"submittedAt,omitempty"`
	Stalled      bool                  `json:"stalled"`
}

// NewRouter builds the route tree without binding a listener.
func NewRouter(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	start := time.Now()

	r := chi.NewRouter()
	r.Use(recoveryMiddleware(logger))
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			UptimeS: int64(time.Since(start).Seconds()),
		})
	})

	r.Group(func(r chi.Router) {
		if opts.Token != "" {
			r.Use(authMiddleware(opts.Token))
		}

		r.Get("/api/v1/project", func(w http.ResponseWriter, _ *http.Request) {
			WriteJSON(w, http.StatusOK, opts.Session.Project())
		})

		r.Get("/api/v1/stitch", func(w http.ResponseWriter, _ *http.Request) {
			project := opts.Session.Project()
			resp := StitchResponse{
				ProjectID:    project.ID,
				Status:       project.StitchStatus,
				VideoURL:     project.StitchedVideoURL,
				ErrorMessage: project.StitchError,
			}
			if snapshot, ok := opts.Session.StitchSnapshot(); ok {
				resp.Status = snapshot.Status
				resp.Stalled = snapshot.Stalled
				if !snapshot.SubmittedAt.IsZero() {
					resp.SubmittedAt = snapshot.SubmittedAt.Format(time.RFC3339)
				}
				if snapshot.VideoURL != "" {
					resp.VideoURL = snapshot.VideoURL
				}
				if snapshot.ErrorMessage != "" {
					resp.ErrorMessage = snapshot.ErrorMessage
				}
			}
			WriteJSON(w, http.StatusOK, resp)
		})
	})

	return r
}

// NewServer binds the progress API on opts.Bind.
func NewServer(opts Options) (*Server, error) {
	listener, err := net.Listen("tcp", opts.Bind)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		logger: logging.NewComponentLogger(logger, "httpapi"),
		addr:   listener.Addr().String(),
		server: &http.Server{
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	go func() {
		if serveErr := s.server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("progress api server stopped", logging.Error(serveErr))
		}
	}()

	s.logger.Info("progress api listening", logging.String("addr", s.addr))
	return s, nil
}

// Addr returns the bound address, useful when Bind used port 0.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown drains and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func authMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				WriteError(w, http.StatusUnauthorized, "missing authorization header", "UNAUTHORIZED")
				return
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "invalid authorization format", "UNAUTHORIZED")
				return
			}
			if strings.TrimPrefix(auth, "Bearer ") != token {
				WriteError(w, http.StatusUnauthorized, "invalid token", "UNAUTHORIZED")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			logger.Debug("request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", wrapped.status),
				logging.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked",
						logging.String("path", r.URL.Path),
						logging.String("panic", fmt.Sprint(rec)),
					)
					WriteError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes the JSON error envelope.
func WriteError(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Code: code})
}
