package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// Server is the HTTP front of the generation service.
type Server struct {
	generation *GenerationFacadeService
	templates  *TemplateFacadeService
	rateLimit  int
	slog       *slog.Logger
}

// NewServer wires the HTTP layer over the facades. rateLimit is requests
// per minute per client IP; 0 disables limiting.
func NewServer(generation *GenerationFacadeService, templates *TemplateFacadeService, rateLimit int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		generation: generation,
		templates:  templates,
		rateLimit:  rateLimit,
		slog:       logger,
	}
}

// Router builds the chi router with the service's routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.rateLimit > 0 {
		r.Use(httprate.LimitByIP(s.rateLimit, 1*time.Minute))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-deck", s.handleGenerateDeck)
		r.Post("/generate-slide", s.handleGenerateSlide)

		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{jobID}", s.handleJobStatus)
		r.Get("/jobs/{jobID}/download", s.handleJobDownload)

		r.Post("/templates", s.handleRegisterTemplate)
		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{templateID}", s.handleGetTemplate)
	})

	return r
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
