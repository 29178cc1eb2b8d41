package markdown

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/registry"
	"github.com/lmittmann/w3docs/internal/symref"
)

type anchor struct {
	Href string
	Code string
}

// anchors returns every <a> of doc whose only child is a <code> element.
func anchors(t *testing.T, doc []byte) []anchor {
	t.Helper()
	root, err := html.Parse(bytes.NewReader(doc))
	require.NoError(t, err)

	var out []anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if c := n.FirstChild; c != nil && c.Type == html.ElementNode && c.Data == "code" && c.NextSibling == nil {
				a := anchor{}
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						a.Href = attr.Val
					}
				}
				if c.FirstChild != nil {
					a.Code = c.FirstChild.Data
				}
				out = append(out, a)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func newTestRenderer() *Renderer {
	return NewRenderer(symref.NewResolver(registry.Default()))
}

func TestRender_ResolvesSymbolLinks(t *testing.T) {
	src := []byte("Call [eth.Call](ref:) through [a w3 client](ref:w3.Client) or [`w3vm.VM.Call`](ref:).\n")

	out, err := newTestRenderer().Render("rpc.md", src)
	require.NoError(t, err)
	require.Equal(t, []anchor{
		{Href: "https://pkg.go.dev/github.com/lmittmann/w3/module/eth#Call", Code: "eth.Call"},
		{Href: "https://pkg.go.dev/github.com/lmittmann/w3#Client", Code: "a w3 client"},
		{Href: "https://pkg.go.dev/github.com/lmittmann/w3/w3vm#VM.Call", Code: "w3vm.VM.Call"},
	}, anchors(t, out))
	require.NotContains(t, string(out), "ref:")
}

func TestRender_LeavesOrdinaryLinks(t *testing.T) {
	out, err := newTestRenderer().Render("index.md", []byte("[GoDoc](https://pkg.go.dev/github.com/lmittmann/w3)\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<a href="https://pkg.go.dev/github.com/lmittmann/w3">GoDoc</a>`)
}

func TestRender_EscapesLabel(t *testing.T) {
	out, err := newTestRenderer().Render("x.md", []byte("[a < b & c](ref:eth.Call)\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<code>a &lt; b &amp; c</code>")
}

func TestRender_FailsOnEveryBrokenReference(t *testing.T) {
	src := []byte("[bogus.Foo](ref:) and [x](ref:noseparator) and [eth.Call](ref:)\n")

	out, err := newTestRenderer().Render("examples/rpc.md", src)
	require.Error(t, err)
	require.Nil(t, out, "nothing may be published for a broken page")
	require.True(t, errors.Is(err, registry.ErrUnknownPackage))
	require.True(t, errors.Is(err, symref.ErrMalformedReference))
	require.Equal(t, 2, strings.Count(err.Error(), "page=examples/rpc.md"))
	require.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryReference))
}

func TestRender_ReferencesInCodeAreNotLinks(t *testing.T) {
	src := []byte("```md\n[bogus.Foo](ref:)\n```\n\n`[bogus.Bar](ref:)`\n")
	_, err := newTestRenderer().Render("code.md", src)
	require.NoError(t, err)
}

func TestRender_Concurrent(t *testing.T) {
	r := newTestRenderer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := r.Render("ok.md", []byte("[eth.Call](ref:)\n"))
				assert.NoError(t, err)
				return
			}
			_, err := r.Render("bad.md", []byte("[bogus.X](ref:)\n"))
			assert.ErrorIs(t, err, registry.ErrUnknownPackage)
		}(i)
	}
	wg.Wait()
}

func TestExtractRefs(t *testing.T) {
	src := []byte("# Title\n\n[eth.Call](ref:) [label](ref:w3.Client) [plain](./x.md)\n")
	require.Equal(t, []symref.Ref{
		{Title: "eth.Call", ID: ""},
		{Title: "label", ID: "w3.Client"},
	}, ExtractRefs(src))
}

func TestRender_MigratedComponentWithBrackets(t *testing.T) {
	body, n, err := MigrateComponents([]byte("<DocLink title=\"w3types.RPCCallerFactory[T]\" />\n"))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []symref.Ref{{Title: "w3types.RPCCallerFactory[T]"}}, ExtractRefs(body))

	out, err := newTestRenderer().Render("types.md", body)
	require.NoError(t, err)
	require.Equal(t, []anchor{{
		Href: "https://pkg.go.dev/github.com/lmittmann/w3/w3types#RPCCallerFactory[T]",
		Code: "w3types.RPCCallerFactory[T]",
	}}, anchors(t, out))
	require.Contains(t, string(out), `href="https://pkg.go.dev/github.com/lmittmann/w3/w3types#RPCCallerFactory[T]"`)
}

func TestRender_ResolvesEscapesInReferences(t *testing.T) {
	src := []byte(`[Tx &amp; \*receipt](ref:eth.Tx) [call](ref:eth\.Call)` + "\n")
	require.Equal(t, []symref.Ref{
		{Title: "Tx & *receipt", ID: "eth.Tx"},
		{Title: "call", ID: "eth.Call"},
	}, ExtractRefs(src))

	out, err := newTestRenderer().Render("x.md", src)
	require.NoError(t, err)
	require.Equal(t, []anchor{
		{Href: "https://pkg.go.dev/github.com/lmittmann/w3/module/eth#Tx", Code: "Tx & *receipt"},
		{Href: "https://pkg.go.dev/github.com/lmittmann/w3/module/eth#Call", Code: "call"},
	}, anchors(t, out))
}
