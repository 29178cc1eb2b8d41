package nav

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/lmittmann/w3docs/internal/theme"
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"pages/_meta.yaml": {Data: []byte(`
index:
  title: Introduction
  theme:
    breadcrumb: false
"--- Guides":
  type: separator
  title: Guides
rpc: RPC
examples:
  title: Examples
  theme:
    toc: false
godoc:
  title: GoDoc
  href: https://pkg.go.dev/github.com/lmittmann/w3
  newWindow: true
`)},
		"pages/index.md":            {Data: []byte("# w3\n")},
		"pages/rpc.md":              {Data: []byte("# RPC\n")},
		"pages/vm.md":               {Data: []byte("# VM\n")},
		"pages/_app.md":             {Data: []byte("ignored\n")},
		"pages/notes.txt":           {Data: []byte("ignored\n")},
		"pages/examples/_meta.yaml": {Data: []byte("index:\n  title: Overview\n  theme:\n    pagination: false\nrpc: RPC\nvm: VM\n")},
		"pages/examples/index.md":   {Data: []byte("# Examples\n")},
		"pages/examples/rpc.md":     {Data: []byte("# RPC examples\n")},
		"pages/examples/vm.md":      {Data: []byte("# VM examples\n")},
		"pages/examples/abi.md":     {Data: []byte("# ABI examples\n")},
		"pages/examples/deep/x.md":  {Data: []byte("# X\n")},
	}
}

func loadTestTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := Load(contentFS(), "pages", theme.SiteDefaults())
	require.NoError(t, err)
	return tree
}

func TestLoad_AppendsUndeclaredEntries(t *testing.T) {
	tree := loadTestTree(t)

	require.Equal(t,
		[]string{"index", "--- Guides", "rpc", "examples", "godoc", "vm"},
		itemKeys(tree.Root.Menu.Items()))

	examples, ok := tree.Section("examples")
	require.True(t, ok)
	require.Equal(t,
		[]string{"index", "rpc", "vm", "abi", "deep"},
		itemKeys(examples.Menu.Items()))
}

func TestLoad_ChildInheritsParentEntrySettings(t *testing.T) {
	tree := loadTestTree(t)

	examples, ok := tree.Section("examples")
	require.True(t, ok)
	require.False(t, examples.Menu.Settings().TOC, "section default comes from the parent entry")

	rpc, ok := examples.Menu.Lookup("rpc")
	require.True(t, ok)
	require.False(t, rpc.Settings.TOC)
	require.True(t, rpc.Settings.Breadcrumb)

	index, _ := examples.Menu.Lookup("index")
	require.False(t, index.Settings.Pagination)

	rootRPC, _ := tree.Root.Menu.Lookup("rpc")
	require.True(t, rootRPC.Settings.TOC, "siblings are unaffected")

	deep, ok := tree.Section("examples/deep")
	require.True(t, ok)
	x, ok := deep.Menu.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "/examples/deep/x", x.URL)
	require.False(t, x.Settings.TOC)
}

func TestTree_Breadcrumb(t *testing.T) {
	tree := loadTestTree(t)

	trail, ok := tree.Breadcrumb("examples/rpc")
	require.True(t, ok)
	require.Equal(t, []string{"examples", "rpc"}, itemKeys(trail))
	require.Equal(t, []string{"/examples", "/examples/rpc"}, []string{trail[0].URL, trail[1].URL})

	trail, ok = tree.Breadcrumb("examples/index")
	require.True(t, ok)
	require.Equal(t, []string{"examples"}, itemKeys(trail))

	trail, ok = tree.Breadcrumb("")
	require.True(t, ok)
	require.Equal(t, []string{"index"}, itemKeys(trail))

	trail, ok = tree.Breadcrumb("--- Guides")
	require.True(t, ok)
	require.Empty(t, trail, "separators never appear in a trail")

	_, ok = tree.Breadcrumb("examples/missing")
	require.False(t, ok)
	_, ok = tree.Breadcrumb("rpc/child")
	require.False(t, ok)
}

func TestTree_Resolve(t *testing.T) {
	tree := loadTestTree(t)

	it, ok := tree.Resolve("examples/abi")
	require.True(t, ok)
	require.Equal(t, "/examples/abi", it.URL)
	require.Equal(t, "Abi", it.Title)

	it, ok = tree.Resolve("/")
	require.True(t, ok)
	require.Equal(t, "Introduction", it.Title)

	_, ok = tree.Resolve("nope")
	require.False(t, ok)
}

func TestTree_WalkVisitsSectionsInMenuOrder(t *testing.T) {
	tree := loadTestTree(t)

	var paths []string
	require.NoError(t, tree.Walk(func(n *Node) error {
		paths = append(paths, n.Path)
		return nil
	}))
	require.Equal(t, []string{"", "examples", "examples/deep"}, paths)
}

func TestLoad_PropagatesMetaErrors(t *testing.T) {
	fsys := contentFS()
	fsys["pages/examples/_meta.yaml"] = &fstest.MapFile{Data: []byte("rpc: RPC\nrpc: Dup\n")}

	_, err := Load(fsys, "pages", theme.SiteDefaults())
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := Load(fstest.MapFS{}, "pages", theme.SiteDefaults())
	require.Error(t, err)
}
