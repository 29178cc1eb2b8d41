package preview

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/lmittmann/w3docs/internal/config"
	"github.com/lmittmann/w3docs/internal/metrics"
	"github.com/lmittmann/w3docs/internal/site"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newSite writes a small content directory and returns a builder for it.
func newSite(t *testing.T, reg *prom.Registry) (*site.Builder, string) {
	t.Helper()
	content := t.TempDir()
	writeFile(t, filepath.Join(content, "_meta.yaml"), "index: Introduction\nrpc: RPC\nexamples: Examples\n")
	writeFile(t, filepath.Join(content, "index.md"), "# w3\n\nStart with [w3.Client](ref:).\n")
	writeFile(t, filepath.Join(content, "rpc.md"), "# RPC\n\nCall [eth.Call](ref:).\n")
	writeFile(t, filepath.Join(content, "examples", "_meta.yaml"), "index: Overview\n")
	writeFile(t, filepath.Join(content, "examples", "index.md"), "# Examples\n")

	cfg := config.Default()
	cfg.Content.Dir = content
	cfg.Content.Output = filepath.Join(t.TempDir(), "public")
	cfg.Build.Concurrency = 2

	resolver, err := cfg.NewResolver()
	require.NoError(t, err)

	var opts []site.Option
	if reg != nil {
		opts = append(opts, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	}
	return site.NewBuilder(cfg, resolver, opts...), content
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_ServesBuiltSite(t *testing.T) {
	reg := prom.NewRegistry()
	b, _ := newSite(t, reg)
	s := NewServer(b, WithMetrics(reg))
	s.rebuild(context.Background())

	h := s.Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "https://pkg.go.dev/github.com/lmittmann/w3#Client")

	rec = get(t, h, "/rpc")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "https://pkg.go.dev/github.com/lmittmann/w3/module/eth#Call")

	rec = get(t, h, "/examples")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Examples")

	rec = get(t, h, "/"+site.ManifestFile)
	require.Equal(t, http.StatusOK, rec.Code)
	var m site.Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	require.Len(t, m.Pages, 3)

	rec = get(t, h, "/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, "ok", snap.Status)
	require.Equal(t, 1, snap.Builds)
	require.True(t, snap.HasGoodBuild)
	require.NotEmpty(t, snap.LastBuildID)

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "w3docs_pages_rendered_total 3")
}

func TestHandler_ServesBuildError(t *testing.T) {
	b, content := newSite(t, nil)
	s := NewServer(b)
	s.rebuild(context.Background())

	writeFile(t, filepath.Join(content, "rpc.md"), "# RPC\n\n[thing](ref:nope.Thing)\n")
	s.rebuild(context.Background())

	h := s.Handler()
	rec := get(t, h, "/rpc")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "nope")

	rec = get(t, h, "/healthz")
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, "failing", snap.Status)
	require.Equal(t, 2, snap.Builds)
	require.True(t, snap.HasGoodBuild)
	require.NotEmpty(t, snap.LastError)
}

func TestHandler_BeforeFirstBuild(t *testing.T) {
	b, _ := newSite(t, nil)
	rec := get(t, NewServer(b).Handler(), "/")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResolveFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "home")
	writeFile(t, filepath.Join(root, "rpc.html"), "rpc")
	writeFile(t, filepath.Join(root, "examples", "index.html"), "examples")
	writeFile(t, filepath.Join(root, "nav.json"), "{}")

	cases := map[string]string{
		"/":                "index.html",
		"/rpc":             "rpc.html",
		"/rpc.html":        "rpc.html",
		"/examples":        "examples/index.html",
		"/examples/":       "examples/index.html",
		"/nav.json":        "nav.json",
		"/../rpc":          "rpc.html",
		"/examples/../rpc": "rpc.html",
	}
	for target, want := range cases {
		got, ok := resolveFile(root, target)
		require.True(t, ok, target)
		require.Equal(t, filepath.Join(root, filepath.FromSlash(want)), got, target)
	}

	_, ok := resolveFile(root, "/missing")
	require.False(t, ok)
}

func TestShouldIgnoreEvent(t *testing.T) {
	ignored := []string{".git", ".DS_Store", "rpc.md~", "rpc.md.swp", ".rpc.md.swx", "#rpc.md#", "4913", "Thumbs.db", "x.tmp"}
	for _, name := range ignored {
		require.True(t, shouldIgnoreEvent(filepath.Join("docs", name)), name)
	}
	for _, name := range []string{"rpc.md", "_meta.yaml", "examples"} {
		require.False(t, shouldIgnoreEvent(filepath.Join("docs", name)), name)
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	rebuildReq, trigger := newDebouncer(20 * time.Millisecond)
	for range 10 {
		trigger()
	}

	select {
	case <-rebuildReq:
	case <-time.After(time.Second):
		t.Fatal("no rebuild requested")
	}
	select {
	case <-rebuildReq:
		t.Fatal("burst produced more than one rebuild")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRun_RebuildsOnChange(t *testing.T) {
	b, content := newSite(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, b, "127.0.0.1:0",
			WithDebounce(20*time.Millisecond),
			WithOnReady(func(addr net.Addr) { ready <- addr }))
	}()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("preview stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not start")
	}

	fetch := func(p string) (int, string) {
		resp, err := http.Get("http://" + addr.String() + p)
		if err != nil {
			return 0, ""
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	code, body := fetch("/rpc")
	require.Equal(t, http.StatusOK, code)
	require.NotContains(t, body, "Updated")

	writeFile(t, filepath.Join(content, "rpc.md"), "# Updated\n\nCall [eth.Call](ref:).\n")
	require.Eventually(t, func() bool {
		code, body := fetch("/rpc")
		return code == http.StatusOK && strings.Contains(body, "Updated")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not shut down")
	}
}

func TestRun_MissingContentDir(t *testing.T) {
	b, _ := newSite(t, nil)
	b.Config().Content.Dir = filepath.Join(t.TempDir(), "missing")
	err := Run(context.Background(), b, "127.0.0.1:0")
	require.Error(t, err)
}
