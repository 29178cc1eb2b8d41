// Package symref resolves qualified symbol references such as "eth.Call" to
// their canonical documentation URL.
//
// A reference is split at its first dot only: the left side is a package alias
// looked up in a registry.Registry, the right side is the member anchor and is
// passed through verbatim, so "w3vm.VM.Call" links to the "VM.Call" anchor of the
// w3vm package.
package symref

import (
	"errors"
	"strings"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/registry"
)

// DefaultHost is the documentation host references link to.
const DefaultHost = "pkg.go.dev"

// ErrMalformedReference is the cause of every id that lacks an alias/member separator.
var ErrMalformedReference = errors.New("malformed reference")

// Ref is a symbol reference as written by a content author.
//
// Title is the display text. ID is the qualified reference; when empty it
// defaults to Title, which is the form older pages use.
type Ref struct {
	Title string
	ID    string
}

// Normalize returns r with ID defaulted to Title.
func (r Ref) Normalize() Ref {
	if r.ID == "" {
		r.ID = r.Title
	}
	return r
}

// Link is a resolved reference, ready to be rendered as an inline code link.
type Link struct {
	URL    string
	Label  string
	Alias  string
	Member string
}

// Split separates id at its first '.' into package alias and member.
func Split(id string) (alias, member string, err error) {
	i := strings.IndexByte(id, '.')
	if i <= 0 {
		return "", "", foundationerrors.ReferenceError("reference must have the form alias.Member").
			WithCause(ErrMalformedReference).
			WithContext("id", id).
			Build()
	}
	return id[:i], id[i+1:], nil
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHost overrides the documentation host.
func WithHost(host string) Option {
	return func(r *Resolver) {
		if host = strings.Trim(host, "/"); host != "" {
			r.host = host
		}
	}
}

// Resolver turns references into links. It holds no mutable state and may be
// shared between goroutines.
type Resolver struct {
	registry *registry.Registry
	host     string
}

// NewResolver returns a Resolver backed by reg.
func NewResolver(reg *registry.Registry, opts ...Option) *Resolver {
	r := &Resolver{registry: reg, host: DefaultHost}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Host returns the documentation host links point to.
func (r *Resolver) Host() string { return r.host }

// Resolve maps ref to its documentation URL. The label is always the
// reference title, independent of the id used for lookup.
func (r *Resolver) Resolve(ref Ref) (Link, error) {
	ref = ref.Normalize()

	alias, member, err := Split(ref.ID)
	if err != nil {
		return Link{}, err
	}
	path, err := r.registry.ResolvePath(alias)
	if err != nil {
		return Link{}, err
	}

	return Link{
		URL:    "https://" + r.host + "/" + path + "#" + member,
		Label:  ref.Title,
		Alias:  alias,
		Member: member,
	}, nil
}
