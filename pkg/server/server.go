// Package server exposes the formation pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                      liveness and build version
//	GET  /v1/formation.{format}?f=...  render notation from the query string
//	POST /v1/render/{format}           render notation from the request body
//
// format is one of svg, png, json or dot. Both render routes accept the
// query parameters engine, width (pixels per dancer), bg (background paint)
// and refresh (skip cache reads). Every response carries an X-Request-ID.
//
// Errors are JSON objects with "error" and "code" fields. A png request for
// notation without dancers is answered with 422 EMPTY_FORMATION.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/formationbot/pkg/buildinfo"
	errs "github.com/matzehuels/formationbot/pkg/errors"
	"github.com/matzehuels/formationbot/pkg/formation"
	"github.com/matzehuels/formationbot/pkg/pipeline"
)

// Content types per output format.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// Server renders formations over HTTP.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the render options used when a request leaves them out.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New returns a server that renders through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/formation.{format}", s.renderQuery)
		r.Post("/render/{format}", s.renderBody)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) renderQuery(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, r.URL.Query().Get("f"))
}

func (s *Server) renderBody(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, errs.MaxNotationLength+1))
	if err != nil {
		s.fail(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body"))
		return
	}
	s.render(w, r, string(body))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, notation string) {
	format := chi.URLParam(r, "format")
	opts, err := s.options(r, notation, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if format == pipeline.FormatPNG && formation.Parse(notation).IsEmpty() {
		s.fail(w, r, errs.New(errs.ErrCodeEmptyFormation, "formation has no dancers"))
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo))
	w.Header().Set("X-Dancers", strconv.Itoa(res.Stats.DancerCount))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// options builds pipeline options from the defaults and query parameters.
func (s *Server) options(r *http.Request, notation, format string) (pipeline.Options, error) {
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	if err := errs.ValidateNotation(notation); err != nil {
		return pipeline.Options{}, err
	}

	q := r.URL.Query()
	opts := s.defaults
	opts.Notation = notation
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("bg"); v != "" {
		opts.Background = v
	}
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || !(width > 0 && width <= 1000) {
			return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "width must be a number in (0, 1000], got %q", v)
		}
		opts.DancerWidth = width
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = refresh
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func cacheHeader(info pipeline.CacheInfo) string {
	if info.RenderHit {
		return "hit"
	}
	return "miss"
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := errs.GetCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "error", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     errs.UserMessage(err),
		Code:      string(code),
		RequestID: RequestIDFrom(r.Context()),
	})
}

// StatusCode maps an error to an HTTP status.
func StatusCode(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidEngine:
		return http.StatusBadRequest
	case errs.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case errs.ErrCodeEmptyFormation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
