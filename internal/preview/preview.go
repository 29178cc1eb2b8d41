// Package preview serves a locally built site and rebuilds it whenever the
// content directory changes.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/lmittmann/w3docs/internal/config"
	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/logfields"
	"github.com/lmittmann/w3docs/internal/metrics"
	"github.com/lmittmann/w3docs/internal/site"
)

// DefaultDebounce is the quiet period after the last change before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Builder builds the site into the configured output directory.
type Builder interface {
	Build(ctx context.Context) (*site.Result, error)
	Config() *config.Config
}

// Server serves the output of the most recent build.
type Server struct {
	builder  Builder
	status   buildStatus
	registry *prom.Registry
	logger   *slog.Logger
	errors   *foundationerrors.HTTPErrorAdapter
	debounce time.Duration
	onReady  func(net.Addr)
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves reg on /metrics instead of the default registry.
func WithMetrics(reg *prom.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithOnReady registers fn to be called once the server listens and the
// content directory is watched.
func WithOnReady(fn func(net.Addr)) Option {
	return func(s *Server) { s.onReady = fn }
}

// NewServer returns a Server for b.
func NewServer(b Builder, opts ...Option) *Server {
	s := &Server{
		builder:  b,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.errors = foundationerrors.NewHTTPErrorAdapter(s.logger)
	return s
}

// Run builds the site, serves it on addr and rebuilds on every content change
// until ctx is done. A failing build does not stop the preview; its error is
// served instead of the pages until the next successful build.
func Run(ctx context.Context, b Builder, addr string, opts ...Option) error {
	return NewServer(b, opts...).Run(ctx, addr)
}

// Run is the method form of the package-level Run.
func (s *Server) Run(ctx context.Context, addr string) error {
	cfg := s.builder.Config()
	absContent, err := filepath.Abs(cfg.Content.Dir)
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "resolve content directory").Build()
	}
	if st, err := os.Stat(absContent); err != nil || !st.IsDir() {
		return foundationerrors.ConfigError("content directory not found or not a directory").
			WithContext("path", absContent).
			Build()
	}

	s.rebuild(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "listen").
			WithContext("addr", addr).
			Build()
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	s.logger.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()), logfields.Path(absContent))

	watcher, err := newWatcher(absContent, s.logger)
	if err != nil {
		_ = srv.Close()
		return foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "watch content directory").Build()
	}
	defer func() { _ = watcher.Close() }()

	workerCtx, stopWorker := context.WithCancel(ctx)
	rebuildReq, trigger := newDebouncer(s.debounce)
	worker := startRebuildWorker(workerCtx, rebuildReq, s.rebuild)
	defer func() {
		stopWorker()
		worker.Wait()
	}()

	if s.onReady != nil {
		s.onReady(ln.Addr())
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down preview server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
			}
			return nil
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "serve preview").Build()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger, s.logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// rebuild runs one build and records its outcome.
func (s *Server) rebuild(ctx context.Context) {
	res, err := s.builder.Build(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("Preview build failed", logfields.Error(err))
		s.status.setError(err)
		return
	}
	s.status.setSuccess(res.BuildID)
}

// Handler returns the HTTP handler of the preview: /healthz, /metrics and the
// site itself.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	mux.HandleFunc("/", s.handleSite)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap, _ := s.status.snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	snap, err := s.status.snapshot()
	if err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	if !snap.HasGoodBuild {
		s.errors.WriteErrorResponse(w, r, foundationerrors.RuntimeError("site has not been built yet").
			WithSeverity(foundationerrors.SeverityWarning).
			Build())
		return
	}

	root := s.builder.Config().Content.Output
	file, ok := resolveFile(root, r.URL.Path)
	if !ok {
		s.errors.WriteErrorResponse(w, r, foundationerrors.NewError(foundationerrors.CategoryNotFound, "page not found").
			WithSeverity(foundationerrors.SeverityInfo).
			WithContext("path", r.URL.Path).
			Build())
		return
	}
	http.ServeFile(w, r, file)
}

// resolveFile maps a site URL to the rendered file below root: /rpc serves
// rpc.html, /examples serves examples/index.html, and files such as
// /nav.json are served as they are.
func resolveFile(root, urlPath string) (string, bool) {
	clean := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	var candidates []string
	if clean == "" {
		candidates = []string{"index.html"}
	} else {
		candidates = []string{clean, clean + ".html", path.Join(clean, "index.html")}
	}
	for _, c := range candidates {
		p := filepath.Join(root, filepath.FromSlash(c))
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}
