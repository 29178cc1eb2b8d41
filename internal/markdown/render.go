package markdown

import (
	"bytes"
	"errors"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/symref"
)

// Renderer converts page bodies to HTML, resolving symbol references on the way.
// A single Renderer may be used from multiple goroutines.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer resolving references through resolver.
func NewRenderer(resolver *symref.Resolver) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				SymbolLinks(resolver),
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts body to HTML. Every reference that fails to resolve is
// reported; the output is discarded in that case so a broken link can never
// be published.
func (r *Renderer) Render(page string, body []byte) ([]byte, error) {
	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return nil, foundationerrors.RenderError("render markdown").
			WithCause(err).
			WithContext("page", page).
			Build()
	}

	if errs := resolveErrors(pc); len(errs) > 0 {
		for i, err := range errs {
			if c, ok := foundationerrors.AsClassified(err); ok {
				errs[i] = c.WithContext("page", page)
			}
		}
		return nil, errors.Join(errs...)
	}
	return buf.Bytes(), nil
}

// ExtractRefs lists the symbol references of body in document order without
// resolving them.
func ExtractRefs(body []byte) []symref.Ref {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var refs []symref.Ref
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if l, ok := n.(*gmast.Link); ok && isSymbolDestination(string(l.Destination)) {
			refs = append(refs, symbolRef(l.Destination, plainText(l, body)))
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return refs
}
