package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/truevoice/pkg/usecase"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
)

// Server exposes the voice verification API over HTTP
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases

	maxUploadBytes int64
}

type Options func(*Server)

// WithMaxUploadBytes caps the size of uploaded recordings
func WithMaxUploadBytes(n int64) Options {
	return func(s *Server) {
		s.maxUploadBytes = n
	}
}

const defaultMaxUploadBytes = 16 << 20 // 16 MiB

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:         r,
		uc:             uc,
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/generate-challenge", s.handleGenerateChallenge)
	r.Post("/enroll-voice", s.handleEnroll)
	r.Post("/verify-voice", s.handleVerify)
	r.Post("/secure-verify-voice", s.handleSecureVerify)
	r.Delete("/voiceprint/{user_id}", s.handleDeleteVoiceprint)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
