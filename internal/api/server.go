// Package api serves algorithms, step histories and learner progress as
// JSON over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/cache"
	"github.com/abhisek/algoquest/internal/dataset"
	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/telemetry"
)

// Server holds the handlers' dependencies.
type Server struct {
	cache    cache.Cache
	learner  *learner.Service
	registry *prometheus.Registry
	metrics  *Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCache serves histories through c.
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLearner enables the progress and achievement routes.
func WithLearner(l *learner.Service) Option {
	return func(s *Server) { s.learner = l }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a Server with its own metrics registry.
func NewServer(opts ...Option) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		registry: reg,
		metrics:  NewMetrics(reg),
		tracer:   telemetry.Tracer("github.com/abhisek/algoquest/internal/api"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/algorithms", s.listAlgorithms)
		r.Post("/algorithms/{name}/steps", s.generateSteps)
		r.Get("/achievements", s.listAchievements)
		r.Get("/progress", s.progress)
	})
	return r
}

// StepsRequest is the body of POST /api/algorithms/{name}/steps. A missing
// data field uses the algorithm's sample, and a missing target its sample
// target.
type StepsRequest struct {
	Data   *[]int `json:"data"`
	Target *int   `json:"target"`
}

// StepsResponse carries a generated history.
type StepsResponse struct {
	Algorithm string         `json:"algorithm"`
	Data      []int          `json:"data"`
	Target    *int           `json:"target,omitempty"`
	Steps     int            `json:"steps"`
	Cached    bool           `json:"cached"`
	History   *steps.History `json:"history"`
}

// ProgressResponse is the learner's derived progress.
type ProgressResponse struct {
	Profile  *learner.Profile      `json:"profile"`
	Progress achievements.Progress `json:"progress"`
}

func (s *Server) listAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, steps.All())
}

func (s *Server) generateSteps(w http.ResponseWriter, r *http.Request) {
	alg, err := steps.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req StepsRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &dataset.InvalidInputError{Reason: "request body is not valid JSON"})
			return
		}
	}
	data := alg.Sample
	if req.Data != nil {
		data = *req.Data
	}
	target := alg.SampleTarget
	if req.Target != nil {
		target = *req.Target
	}
	if err := dataset.Check(data); err != nil {
		writeError(w, err)
		return
	}
	if alg.NeedsTarget {
		if err := dataset.Check([]int{target}); err != nil {
			writeError(w, err)
			return
		}
	}

	ctx, span := s.tracer.Start(r.Context(), "generate steps", trace.WithAttributes(
		attribute.String("algorithm", alg.Name),
		attribute.Int("dataset.len", len(data)),
	))
	defer span.End()

	start := time.Now()
	h, hit, err := cache.Generate(ctx, s.cache, alg, data, target)
	s.metrics.duration.WithLabelValues(alg.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, err)
		return
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Int("steps", h.Len()))

	if hit {
		s.metrics.cacheHits.Inc()
	} else {
		s.metrics.cacheMisses.Inc()
	}
	s.metrics.histories.WithLabelValues(alg.Name).Inc()

	resp := StepsResponse{Algorithm: alg.Name, Data: data, Steps: h.Len(), Cached: hit, History: h}
	if alg.NeedsTarget {
		resp.Target = &target
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listAchievements(w http.ResponseWriter, r *http.Request) {
	if s.learner == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "learner store not configured"})
		return
	}
	statuses, err := s.learner.Statuses(r.Context())
	if err != nil {
		s.logger.Error("load achievements", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	if s.learner == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "learner store not configured"})
		return
	}
	ctx := r.Context()
	profile, err := s.learner.EnsureProfile(ctx, "")
	if err != nil {
		s.logger.Error("load profile", "error", err)
		writeError(w, err)
		return
	}
	p, err := s.learner.Progress(ctx)
	if err != nil {
		s.logger.Error("derive progress", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProgressResponse{Profile: profile, Progress: p})
}

// instrument counts and logs every request by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var invalid *dataset.InvalidInputError
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, steps.ErrUnknownAlgorithm),
		errors.Is(err, steps.ErrUnsorted):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
