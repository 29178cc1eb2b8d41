package markdown

// Options controls how Markdown is parsed for link analysis.
type Options struct {
	// SkipSymbolRefs drops ref: links from ExtractLinks results.
	SkipSymbolRefs bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	// LinkKindSymbol is a ref: link naming a package symbol.
	LinkKindSymbol LinkKind = "symbol"
)

type Link struct {
	Kind        LinkKind
	Destination string
	// Text is the plain text of the link label; set for inline and symbol links.
	Text string
}
