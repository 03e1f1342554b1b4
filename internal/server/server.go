// Package server exposes the exercise history over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/history"
	"github.com/scbrown/hiitfit/internal/metrics"
	"github.com/scbrown/hiitfit/internal/model"
	"github.com/scbrown/hiitfit/internal/record"
)

// Server wraps a history.Store and exposes it over HTTP.
type Server struct {
	store    *history.Store
	mux      *http.ServeMux
	srv      *http.Server
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) { s.log = l }
}

// WithMetrics counts requests in m and serves g at /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// New creates a Server that delegates to the given store.
func New(s *history.Store, opts ...Option) *Server {
	srv := &Server{store: s, mux: http.NewServeMux()}
	for _, o := range opts {
		o(srv)
	}
	if srv.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		srv.log = l
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/v1/records", s.handleRecord)
	s.mux.HandleFunc("GET /api/v1/days", s.handleListDays)
	s.mux.HandleFunc("GET /api/v1/days/{id}", s.handleGetDay)
	s.mux.HandleFunc("GET /api/v1/days/{id}/counts", s.handleDayCounts)
	s.mux.HandleFunc("DELETE /api/v1/days/{id}", s.handleDeleteDay)
	s.mux.HandleFunc("GET /api/v1/week", s.handleWeek)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// Handler returns the HTTP handler with logging and metrics middleware applied.
func (s *Server) Handler() http.Handler {
	return s.recoverPanic(s.logRequest(s.countRequest(s.mux)))
}

// Serve accepts connections on the given listener.
func (s *Server) Serve(ln net.Listener) error {
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s.srv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status reports persistence health.
type Status struct {
	Path   string `json:"path"`
	Days   int    `json:"days"`
	Broken bool   `json:"broken"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Status{Path: s.store.Path(), Days: s.store.Len(), Broken: s.store.Broken()})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "reading request body: %v", err)
		return
	}
	entry, err := record.Parse(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if err := record.Apply(s.store, entry); err != nil {
		writeErr(w, statusFor(err), "recording exercise: %v", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r, "limit")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "%v", err)
		return
	}
	days := s.store.AllDays()
	if limit > 0 && limit < len(days) {
		days = days[:limit]
	}
	if days == nil {
		days = []model.ExerciseDay{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := s.store.Day(r.PathValue("id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "no exercise day with id %q", r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// DayCounts is the per-exercise breakdown of one day.
type DayCounts struct {
	ID     string                  `json:"id"`
	Date   time.Time               `json:"date"`
	Counts []history.ExerciseCount `json:"counts"`
}

func (s *Server) handleDayCounts(w http.ResponseWriter, r *http.Request) {
	day, ok := s.store.Day(r.PathValue("id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "no exercise day with id %q", r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, DayCounts{ID: day.ID, Date: day.Date, Counts: history.AggregateDay(day)})
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDay(r.PathValue("id")); err != nil {
		writeErr(w, statusFor(err), "deleting day: %v", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	anchor, err := parseAnchor(r, s.store.WeekAnchor)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.AggregateWeek(anchor))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Exercises())
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, history.ErrDayNotFound):
		return http.StatusNotFound
	case errors.Is(err, history.ErrEmptyExercise), errors.Is(err, history.ErrInvalidExercise):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// writeErr writes a JSON error response.
func writeErr(w http.ResponseWriter, status int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeJSON(w, status, map[string]string{"error": msg})
}
