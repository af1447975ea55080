// Package server exposes the themer over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chilithemer "github.com/kataras/chili-themer"
	"github.com/kataras/chili-themer/pkg/chili"
	"github.com/kataras/chili-themer/pkg/config"
	"github.com/kataras/chili-themer/pkg/conversion"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxDocumentSize = 32 << 20

// ErrDocumentTooLarge is returned for request bodies over the size limit.
var ErrDocumentTooLarge = errors.New("document exceeds the size limit")

// Server processes documents posted to it with the conversions of a config.
type Server struct {
	cfg     *config.Config
	builder *config.Builder
	logger  *slog.Logger
	metrics *metrics
	maxBody int64
}

type metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	frames    prometheus.Counter
	variables prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chili_themer_documents_total",
				Help: "Documents processed, by outcome",
			},
			[]string{"status"},
		),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chili_themer_frames_converted_total",
			Help: "Frames rewritten by conversions",
		}),
		variables: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chili_themer_variables_declared_total",
			Help: "Variables declared in processed documents",
		}),
	}
	m.registry.MustRegister(m.documents, m.frames, m.variables)
	return m
}

// New creates a server. A nil logger discards log output.
func New(cfg *config.Config, builder *config.Builder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		cfg:     cfg,
		builder: builder,
		logger:  logger,
		metrics: newMetrics(),
		maxBody: maxDocumentSize,
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/process", s.process)
	r.Post("/metadata", s.inspect)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return r
}

// process handles POST /process. The body is the document XML; the
// defaultTheme and themeTag query parameters override the config.
func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	body, err := s.readDocument(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	defaultTheme := s.cfg.DefaultTheme
	if v := r.URL.Query().Get("defaultTheme"); v != "" {
		defaultTheme = v
	}
	themeTags := s.cfg.ThemeTags
	if v := r.URL.Query()["themeTag"]; len(v) > 0 {
		themeTags = v
	}

	convs, err := s.builder.Conversions()
	if err != nil {
		s.fail(w, err)
		return
	}

	result, err := chilithemer.Run(r.Context(), chilithemer.Options{
		Document:     body,
		DefaultTheme: defaultTheme,
		ThemeTags:    themeTags,
		Conversions:  convs,
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	frames := 0
	for _, c := range convs {
		frames += len(c.FrameIDs())
	}
	s.metrics.documents.WithLabelValues("ok").Inc()
	s.metrics.frames.Add(float64(frames))
	s.metrics.variables.Add(float64(len(result.Variables)))
	s.logger.Info("Processed document", "themes", len(result.Themes), "frames", frames, "variables", len(result.Variables))

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("X-Metadata-Id", result.MetadataID)
	if _, err := io.WriteString(w, result.XML); err != nil {
		s.logger.Error("Write process response", "error", err)
	}
}

// inspect handles POST /metadata, returning the theme entries of the posted document.
func (s *Server) inspect(w http.ResponseWriter, r *http.Request) {
	body, err := s.readDocument(r)
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	entries, err := chilithemer.Inspect(body)
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.logger.Error("Encode metadata response", "error", err)
	}
}

// readDocument reads at most maxBody bytes of the request body.
func (s *Server) readDocument(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBody+1))
	if err != nil {
		return "", &readError{err: err}
	}
	if int64(len(body)) > s.maxBody {
		return "", fmt.Errorf("%w: over %d bytes", ErrDocumentTooLarge, s.maxBody)
	}
	return string(body), nil
}

type readError struct{ err error }

func (e *readError) Error() string { return "failed to read request body: " + e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	s.metrics.documents.WithLabelValues("error").Inc()
	if status == http.StatusInternalServerError {
		s.logger.Error("Process failed", "error", err)
	} else {
		s.logger.Warn("Rejected document", "error", err)
	}
	http.Error(w, fmt.Sprintf("Process error: %v", err), status)
}

func statusOf(err error) int {
	var (
		argErr       *chilithemer.ArgumentError
		parseErr     *chili.ParseError
		malformedErr *conversion.MalformedFrameError
		readErr      *readError
	)
	switch {
	case errors.Is(err, ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &readErr), errors.As(err, &argErr), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.As(err, &malformedErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
