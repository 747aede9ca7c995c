// Package server exposes network generation over HTTP.
//
// The service generates topologies on demand:
//
//	GET /healthz
//	GET /network?tips=50&beta=-1.0&reticulations=5&local=0.3&seed=42&format=el
//
// Query parameters mirror the CLI flags; omitted parameters take the same
// defaults. Errors are returned as JSON {"error", "message"} with the
// status mapped from the error code: invalid input and numeric degeneracy
// are 400, selection exhaustion is 503 (retryable), anything else 500.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
	netio "github.com/RemieJanssen/NetworkGenerators/pkg/io"
	"github.com/RemieJanssen/NetworkGenerators/pkg/pipeline"
)

// Server serves generated networks over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around the given runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/network", s.handleNetwork)
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if opts.Format == netio.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Header().Set("X-Run-Id", result.RunID)
	w.Header().Set("X-Seed", strconv.FormatUint(result.Seed, 10))
	_, _ = w.Write(result.Encoded)
}

// optionsFromQuery parses the query string into pipeline options,
// reporting malformed numerics as INVALID_INPUT before any generation work.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		Tips:          pipeline.DefaultTips,
		Beta:          pipeline.DefaultBeta,
		Reticulations: pipeline.DefaultReticulations,
		Format:        pipeline.DefaultFormat,
	}
	q := r.URL.Query()

	if v := q.Get("tips"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "malformed tips: %q", v)
		}
		opts.Tips = n
	}
	if v := q.Get("beta"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "malformed beta: %q", v)
		}
		opts.Beta = f
	}
	if v := q.Get("reticulations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "malformed reticulations: %q", v)
		}
		opts.Reticulations = n
	}
	if v := q.Get("local"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "malformed local stop probability: %q", v)
		}
		opts.StopProb = &f
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "malformed seed: %q", v)
		}
		opts.Seed = n
	}
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	return opts, nil
}

// writeError maps an error code to an HTTP status and writes a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeNumericDegeneracy:
		status = http.StatusBadRequest
	case errors.ErrCodeSelectionExhausted:
		status = http.StatusServiceUnavailable
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(errors.GetCode(err)),
		"message": errors.UserMessage(err),
	})
}

// logRequests logs each request with its ID, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
