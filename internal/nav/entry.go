// Package nav composes the navigation of the documentation site.
//
// Each content directory declares an ordered set of entries. An entry is a
// page, a separator (a non-clickable group title) or a link to an external
// target. The declared order is the on-screen order, so sections keep their
// entries as a slice and reject repeated keys instead of silently overwriting.
// Compose turns a Section into a Menu that answers the questions the site
// chrome asks: what to list, where each entry points, which settings apply,
// and which pages come before and after a given page.
package nav

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/theme"
)

var (
	// ErrDuplicateKey is the cause of a key declared twice within one section.
	ErrDuplicateKey = errors.New("duplicate navigation key")
	// ErrInvalidSeparatorUsage is the cause of a separator that carries a link target.
	ErrInvalidSeparatorUsage = errors.New("separator must not have an href")
)

// Reserved keys.
const (
	KeyIndex     = "index"
	KeyErrorPage = "404"
)

// Kind discriminates navigation entries.
type Kind int

const (
	KindPage Kind = iota
	KindSeparator
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindSeparator:
		return "separator"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name written by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{KindPage, KindSeparator, KindLink} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown navigation kind %q", b)
}

// Display controls whether an entry is listed in rendered menus.
type Display string

const (
	DisplayNormal Display = "normal"
	DisplayHidden Display = "hidden"
)

// Entry is one declared navigation node.
type Entry struct {
	Key       string
	Kind      Kind
	Title     string
	Href      string
	NewWindow bool
	Display   Display
	Theme     theme.Overrides
}

// Hidden reports whether the entry is excluded from menu listings.
func (e Entry) Hidden() bool { return e.Display == DisplayHidden }

// Navigable reports whether the entry can be visited.
func (e Entry) Navigable() bool { return e.Kind != KindSeparator }

// DisplayTitle returns the title, derived from the key when none was declared.
func (e Entry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return TitleFromKey(e.Key)
}

// Validate checks the entry on its own; duplicate detection is the section's job.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Key) == "" {
		return foundationerrors.NavigationError("navigation key must not be empty").Build()
	}
	switch e.Kind {
	case KindSeparator:
		if e.Href != "" {
			return foundationerrors.WrapError(ErrInvalidSeparatorUsage, foundationerrors.CategoryNavigation, "separator entry has a navigable target").
				Fatal().
				UserAction().
				WithContext("entry", e.Key).
				WithContext("href", e.Href).
				Build()
		}
	case KindLink:
		if e.Href == "" {
			return foundationerrors.NavigationError("link entry requires an href").
				WithContext("entry", e.Key).
				Build()
		}
	case KindPage:
	default:
		return foundationerrors.NavigationError("unknown entry kind").
			WithContext("entry", e.Key).
			Build()
	}
	switch e.Display {
	case "", DisplayNormal, DisplayHidden:
	default:
		return foundationerrors.NavigationError("unknown display value").
			WithContext("entry", e.Key).
			WithContext("display", string(e.Display)).
			Build()
	}
	if err := e.Theme.Validate(); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryNavigation, "invalid theme override").
			Fatal().
			UserAction().
			WithContext("entry", e.Key).
			Build()
	}
	return nil
}

// TitleFromKey turns a slug like "rpc-overview" into "Rpc Overview".
func TitleFromKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Section is the ordered set of entries declared for one directory.
type Section struct {
	// Path is the slash-separated directory path relative to the content root;
	// empty for the root section.
	Path    string
	entries []Entry
	keys    map[string]int
}

// NewSection returns an empty section for path.
func NewSection(path string) *Section {
	return &Section{Path: strings.Trim(path, "/"), keys: map[string]int{}}
}

// Add appends e, rejecting keys already present.
func (s *Section) Add(e Entry) error {
	if s.keys == nil {
		s.keys = map[string]int{}
	}
	if _, dup := s.keys[e.Key]; dup {
		return duplicateKeyError(s.Path, e.Key)
	}
	s.keys[e.Key] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

func duplicateKeyError(section, key string) error {
	return foundationerrors.WrapError(ErrDuplicateKey, foundationerrors.CategoryNavigation, "navigation key declared twice").
		Fatal().
		UserAction().
		WithContext("section", section).
		WithContext("entry", key).
		Build()
}

// Has reports whether key is declared.
func (s *Section) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Entries returns the entries in declared order.
func (s *Section) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Section) Len() int { return len(s.entries) }
