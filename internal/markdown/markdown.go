package markdown

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ExtractLinks parses a Markdown body and extracts link-like constructs.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			dest := string(node.Destination)
			kind := LinkKindInline
			if isSymbolDestination(dest) {
				if opts.SkipSymbolRefs {
					return gmast.WalkSkipChildren, nil
				}
				kind = LinkKindSymbol
			}
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{Kind: kind, Destination: dest, Text: plainText(node, body)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links, nil
}

// plainText concatenates the text content below n, code spans included.
// Backslash escapes and character references are resolved outside code spans,
// so the result is the text a reader sees.
func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(textValue(t, source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func textValue(t *gmast.Text, source []byte) []byte {
	v := t.Segment.Value(source)
	if t.IsRaw() {
		return v
	}
	if p := t.Parent(); p != nil && p.Kind() == gmast.KindCodeSpan {
		return v
	}
	return unescape(v)
}

// unescape resolves backslash escapes and character references the way the
// HTML renderer does when it writes text.
func unescape(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}
