package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/lmittmann/w3docs/internal/symref"
)

// SymbolScheme prefixes link destinations that name a package symbol.
//
//	[eth.Call](ref:)               id taken from the link text
//	[call a contract](ref:eth.Call) explicit id, text is the label
const SymbolScheme = "ref:"

func isSymbolDestination(dest string) bool {
	return strings.HasPrefix(dest, SymbolScheme)
}

// symbolRef builds the reference written as a ref: link with the given text.
// dest is the destination as written, escapes included.
func symbolRef(dest []byte, label string) symref.Ref {
	id := strings.TrimPrefix(string(unescape(dest)), SymbolScheme)
	return symref.Ref{Title: label, ID: strings.TrimSpace(id)}
}

// KindSymbolLink is the node kind of a resolved symbol reference.
var KindSymbolLink = gmast.NewNodeKind("SymbolLink")

// SymbolLink is an inline node holding a resolved reference.
type SymbolLink struct {
	gmast.BaseInline
	Link symref.Link
}

// Kind implements ast.Node.
func (n *SymbolLink) Kind() gmast.NodeKind { return KindSymbolLink }

// Dump implements ast.Node.
func (n *SymbolLink) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"URL":   n.Link.URL,
		"Label": n.Link.Label,
	}, nil)
}

// resolveErrorsKey collects resolution failures of one conversion.
var resolveErrorsKey = parser.NewContextKey()

func resolveErrors(pc parser.Context) []error {
	if v, ok := pc.Get(resolveErrorsKey).([]error); ok {
		return v
	}
	return nil
}

type symbolTransformer struct {
	resolver *symref.Resolver
}

// Transform replaces every ref: link with a SymbolLink. Failures are recorded in
// the parser context and the link is left untouched.
func (t *symbolTransformer) Transform(doc *gmast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var links []*gmast.Link
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			if l, ok := n.(*gmast.Link); ok && isSymbolDestination(string(l.Destination)) {
				links = append(links, l)
			}
		}
		return gmast.WalkContinue, nil
	})

	errs := resolveErrors(pc)
	for _, l := range links {
		link, err := t.resolver.Resolve(symbolRef(l.Destination, plainText(l, source)))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		node := &SymbolLink{Link: link}
		l.Parent().ReplaceChild(l.Parent(), l, node)
	}
	pc.Set(resolveErrorsKey, errs)
}

type symbolRenderer struct{}

func (symbolRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSymbolLink, renderSymbolLink)
}

func renderSymbolLink(w util.BufWriter, _ []byte, n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	link := n.(*SymbolLink).Link
	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML([]byte(link.URL)))
	_, _ = w.WriteString(`"><code>`)
	_, _ = w.Write(util.EscapeHTML([]byte(link.Label)))
	_, _ = w.WriteString(`</code></a>`)
	return gmast.WalkSkipChildren, nil
}

type symbolLinks struct {
	resolver *symref.Resolver
}

// SymbolLinks returns a goldmark extension resolving ref: links with resolver
// and rendering them as inline code links.
func SymbolLinks(resolver *symref.Resolver) goldmark.Extender {
	return &symbolLinks{resolver: resolver}
}

func (e *symbolLinks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&symbolTransformer{resolver: e.resolver}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(symbolRenderer{}, 500),
	))
}
