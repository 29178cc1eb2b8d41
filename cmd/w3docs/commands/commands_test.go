package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lmittmann/w3docs/internal/config"
	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/site"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newProject writes a starter configuration and a small content tree.
func newProject(t *testing.T) (*CLI, *Global, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	root := &CLI{Config: filepath.Join(dir, config.DefaultFile)}
	out := &bytes.Buffer{}
	g := &Global{Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), Out: out}

	require.NoError(t, (&InitCmd{}).Run(g, root))
	writeFile(t, filepath.Join(dir, "docs", "_meta.yaml"), "index: Introduction\nrpc: RPC\n")
	writeFile(t, filepath.Join(dir, "docs", "index.md"), "# w3\n\n[w3.Client](ref:)\n")
	writeFile(t, filepath.Join(dir, "docs", "rpc.md"), "# RPC\n\n[eth.Call](ref:)\n")
	out.Reset()
	return root, g, out
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	require.Equal(t, slog.LevelInfo, parseLogLevel(false))
	require.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv(LogLevelEnv, "warn")
	require.Equal(t, slog.LevelWarn, parseLogLevel(true))

	t.Setenv(LogLevelEnv, "loud")
	require.Equal(t, slog.LevelInfo, parseLogLevel(false))
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	root, g, _ := newProject(t)
	err := (&InitCmd{}).Run(g, root)
	require.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
	require.NoError(t, (&InitCmd{Force: true}).Run(g, root))
}

func TestBuildAndCheck(t *testing.T) {
	root, g, out := newProject(t)

	require.NoError(t, (&CheckCmd{}).Run(g, root))
	require.Contains(t, out.String(), "OK: 2 pages in 1 sections")

	public := filepath.Join(filepath.Dir(root.Config), "public")
	require.NoDirExists(t, public)

	out.Reset()
	require.NoError(t, (&BuildCmd{}).Run(g, root))
	require.Contains(t, out.String(), "Built 2 pages into "+public)
	require.FileExists(t, filepath.Join(public, "rpc.html"))
	require.FileExists(t, filepath.Join(public, site.ManifestFile))
}

func TestBuild_BrokenReference(t *testing.T) {
	root, g, _ := newProject(t)
	writeFile(t, filepath.Join(filepath.Dir(root.Config), "docs", "rpc.md"), "[x](ref:nope.X)\n")

	err := (&BuildCmd{}).Run(g, root)
	require.Error(t, err)
	require.Equal(t, 9, foundationerrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestResolve(t *testing.T) {
	root, g, out := newProject(t)

	require.NoError(t, (&ResolveCmd{Refs: []string{"eth.Call", "call=eth.CallFunc"}}).Run(g, root))
	require.Equal(t,
		"eth.Call\thttps://pkg.go.dev/github.com/lmittmann/w3/module/eth#Call\n"+
			"call\thttps://pkg.go.dev/github.com/lmittmann/w3/module/eth#CallFunc\n",
		out.String())

	out.Reset()
	require.NoError(t, (&ResolveCmd{Refs: []string{"w3vm.VM"}, JSON: true}).Run(g, root))
	var got resolvedRef
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, resolvedRef{
		Label:  "w3vm.VM",
		URL:    "https://pkg.go.dev/github.com/lmittmann/w3/w3vm#VM",
		Alias:  "w3vm",
		Member: "VM",
	}, got)

	out.Reset()
	err := (&ResolveCmd{Refs: []string{"nope.X", "eth.Call", "Call"}}).Run(g, root)
	require.Error(t, err)
	require.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryReference))
	require.Contains(t, out.String(), "eth#Call", "resolvable references are still printed")
}

func TestMenu(t *testing.T) {
	root, g, out := newProject(t)

	require.NoError(t, (&MenuCmd{}).Run(g, root))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, []string{"KIND", "KEY", "TITLE", "URL", "HIDDEN"}, strings.Fields(lines[0]))
	require.Equal(t, "page", strings.Fields(lines[2])[0])
	require.Equal(t, "rpc", strings.Fields(lines[2])[1])
	require.Equal(t, "RPC", strings.Fields(lines[2])[2])

	err := (&MenuCmd{Section: "missing"}).Run(g, root)
	require.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryNotFound))
}

func TestMigrate(t *testing.T) {
	root, g, out := newProject(t)
	page := filepath.Join(filepath.Dir(root.Config), "docs", "legacy.md")
	src := "---\ntitle: Legacy\n---\nUse <DocLink title=\"eth.Call\" />.\n"
	writeFile(t, page, src)

	require.NoError(t, (&MigrateCmd{Files: []string{page}}).Run(g, root))
	require.Contains(t, out.String(), "would convert 1 components in 1 files")
	data, err := os.ReadFile(page)
	require.NoError(t, err)
	require.Equal(t, src, string(data))

	out.Reset()
	require.NoError(t, (&MigrateCmd{Write: true, Files: []string{page}}).Run(g, root))
	require.Contains(t, out.String(), "converted 1 components in 1 files")
	data, err = os.ReadFile(page)
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: Legacy\n---\nUse [eth.Call](ref:).\n", string(data))
}

func TestMigrate_ReportsPath(t *testing.T) {
	root, g, _ := newProject(t)
	page := filepath.Join(filepath.Dir(root.Config), "docs", "broken.md")
	writeFile(t, page, "<RefLink />\n")

	err := (&MigrateCmd{Write: true, Files: []string{page}}).Run(g, root)
	require.Error(t, err)
	c, ok := foundationerrors.AsClassified(err)
	require.True(t, ok)
	got, ok := c.Context().Get("path")
	require.True(t, ok)
	require.Equal(t, page, got)
}
