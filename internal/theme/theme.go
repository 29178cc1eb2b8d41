// Package theme models the per-page chrome toggles (table of contents,
// breadcrumb, sidebar, pagination, layout) as layered configuration.
//
// A page's settings are resolved by applying sparse Overrides on top of the
// settings inherited from its parent: site defaults, then the section default,
// then the entry's own overrides. A field left unset in a layer keeps the value
// of the layer below it.
package theme

import (
	"fmt"
	"slices"
)

// Layout selects the page layout the site chrome uses.
type Layout string

const (
	LayoutDefault Layout = "default"
	LayoutFull    Layout = "full"
	LayoutRaw     Layout = "raw"
)

var layouts = []Layout{LayoutDefault, LayoutFull, LayoutRaw}

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool { return slices.Contains(layouts, l) }

// Settings is a fully resolved set of chrome toggles.
type Settings struct {
	TOC        bool   `json:"toc"`
	Breadcrumb bool   `json:"breadcrumb"`
	Sidebar    bool   `json:"sidebar"`
	Pagination bool   `json:"pagination"`
	Layout     Layout `json:"layout"`
}

// SiteDefaults returns the settings every layer starts from.
func SiteDefaults() Settings {
	return Settings{
		TOC:        true,
		Breadcrumb: true,
		Sidebar:    true,
		Pagination: true,
		Layout:     LayoutDefault,
	}
}

// Overrides is a sparse settings layer; nil fields inherit.
type Overrides struct {
	TOC        *bool   `yaml:"toc,omitempty" json:"toc,omitempty"`
	Breadcrumb *bool   `yaml:"breadcrumb,omitempty" json:"breadcrumb,omitempty"`
	Sidebar    *bool   `yaml:"sidebar,omitempty" json:"sidebar,omitempty"`
	Pagination *bool   `yaml:"pagination,omitempty" json:"pagination,omitempty"`
	Layout     *Layout `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// IsZero reports whether o sets no field.
func (o Overrides) IsZero() bool {
	return o.TOC == nil && o.Breadcrumb == nil && o.Sidebar == nil && o.Pagination == nil && o.Layout == nil
}

// Validate checks the layout value, the only field with a closed set.
func (o Overrides) Validate() error {
	if o.Layout != nil && !o.Layout.Valid() {
		return fmt.Errorf("unknown layout %q (want one of %v)", *o.Layout, layouts)
	}
	return nil
}

// Merge returns a layer equal to o with every field set in other taking precedence.
func (o Overrides) Merge(other Overrides) Overrides {
	if other.TOC != nil {
		o.TOC = other.TOC
	}
	if other.Breadcrumb != nil {
		o.Breadcrumb = other.Breadcrumb
	}
	if other.Sidebar != nil {
		o.Sidebar = other.Sidebar
	}
	if other.Pagination != nil {
		o.Pagination = other.Pagination
	}
	if other.Layout != nil {
		o.Layout = other.Layout
	}
	return o
}

// Apply resolves layers on top of s, in order.
func (s Settings) Apply(layers ...Overrides) Settings {
	for _, l := range layers {
		if l.TOC != nil {
			s.TOC = *l.TOC
		}
		if l.Breadcrumb != nil {
			s.Breadcrumb = *l.Breadcrumb
		}
		if l.Sidebar != nil {
			s.Sidebar = *l.Sidebar
		}
		if l.Pagination != nil {
			s.Pagination = *l.Pagination
		}
		if l.Layout != nil {
			s.Layout = *l.Layout
		}
	}
	return s
}

// ErrorPage returns the overrides forced onto the error page: it never shows
// pagination, breadcrumb, or a table of contents.
func ErrorPage() Overrides {
	return Overrides{
		TOC:        Bool(false),
		Breadcrumb: Bool(false),
		Pagination: Bool(false),
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// LayoutOf returns a pointer to l.
func LayoutOf(l Layout) *Layout { return &l }
