// Package server exposes configured export jobs over HTTP and runs the
// scheduled ones.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-data-exporter/excel"
	"github.com/go-data-exporter/excel/codec"
	jsoncodec "github.com/go-data-exporter/excel/codec/json"
	"github.com/go-data-exporter/excel/internal/config"
	"github.com/go-data-exporter/excel/internal/loader"
	"github.com/go-data-exporter/excel/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrJobNotFound = errors.New("server: job not found")

type Server struct {
	cfg      atomic.Pointer[config.Config]
	loader   *loader.Loader
	logger   *slog.Logger
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

// New creates a Server. A nil gatherer serves the default Prometheus registry.
func New(cfg *config.Config, l *loader.Loader, logger *slog.Logger, collector *metrics.Collector, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		loader:   l,
		logger:   logger.With("component", "server"),
		metrics:  collector,
		gatherer: gatherer,
	}
	s.cfg.Store(cfg)
	return s
}

// SetConfig swaps the job definitions served from now on. Listen settings
// only apply on the next Run.
func (s *Server) SetConfig(cfg *config.Config) {
	s.cfg.Store(cfg)
}

func (s *Server) Config() *config.Config {
	return s.cfg.Load()
}

func (s *Server) Handler() http.Handler {
	cfg := s.Config()
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, s.loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/jobs", s.handleJobs).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{name}/export", s.handleExport).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{name}/preview", s.handlePreview).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{name}/run", s.handleRun).Methods(http.MethodPost)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.Config()
	srv := &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", slog.String("address", cfg.Server.ListenAddress))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// RunJob exports the job into the configured output directory.
func (s *Server) RunJob(ctx context.Context, job config.JobConfig) (string, error) {
	cfg := s.Config()
	book, err := s.loader.Build(ctx, job, append(loader.Options(cfg.Export), excel.WithMetrics(s.metrics))...)
	if err != nil {
		return "", err
	}
	_, filename := excel.FormatFromFilename(job.Filename)
	target := cfg.Server.OutputDir + filename
	if !book.Export(job.Filename, cfg.Server.OutputDir) {
		return "", fmt.Errorf("server: job %q: export to %s failed", job.Name, target)
	}
	return target, nil
}

func (s *Server) job(r *http.Request) (config.JobConfig, error) {
	name := mux.Vars(r)["name"]
	job, ok := s.Config().Job(name)
	if !ok {
		return config.JobConfig{}, fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	return job, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type jobSummary struct {
	Name     string   `json:"name"`
	Filename string   `json:"filename"`
	Schedule string   `json:"schedule,omitempty"`
	Sheets   []string `json:"sheets"`
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.Config().Jobs
	out := make([]jobSummary, len(jobs))
	for i, job := range jobs {
		out[i] = jobSummary{Name: job.Name, Filename: job.Filename, Schedule: job.Schedule, Sheets: []string{}}
		for _, sh := range job.Sheets {
			out[i].Sheets = append(out[i].Sheets, sh.Title)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleExport streams the workbook of a job as a download. The format
// query parameter replaces the extension of the configured filename.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	job, err := s.job(r)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	filename := job.Filename
	if f := r.URL.Query().Get("format"); f != "" {
		format, err := excel.ParseFormat(f)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filename = strings.TrimSuffix(filename, path.Ext(filename)) + string(format)
	}

	out := &trackingWriter{ResponseWriter: w}
	cfg := s.Config()
	opts := append(loader.Options(cfg.Export), excel.WithOutput(out), excel.WithMetrics(s.metrics))
	book, err := s.loader.Build(r.Context(), job, opts...)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !book.Export(filename, excel.Output) && !out.wrote {
		for _, h := range []string{"Content-Disposition", "Content-Type", "Cache-Control"} {
			w.Header().Del(h)
		}
		s.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("export of job %q failed", job.Name))
	}
}

// DefaultPreviewRows is the number of data rows per sheet a preview shows
// when the request does not say.
const DefaultPreviewRows = 20

// handlePreview renders the first rows of every sheet of a job as JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	job, err := s.job(r)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	limit := DefaultPreviewRows
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
	}
	book, err := s.loader.Build(r.Context(), job, loader.Options(s.Config().Export)...)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := codec.JSON(jsoncodec.WithLimit(limit)).Write(book.Workbook(), w); err != nil {
		s.logger.Error("preview failed", slog.String("request_id", RequestID(r.Context())), slog.Any("error", err))
	}
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	job, err := s.job(r)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	target, err := s.RunJob(r.Context(), job)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"job": job.Name, "target": target})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("request_id", id), slog.Any("error", err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "request_id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// trackingWriter notes whether any part of the response body was sent.
type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (w *trackingWriter) Write(p []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(p)
}
