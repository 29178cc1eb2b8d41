package site

import (
	"github.com/lmittmann/w3docs/internal/config"
	"github.com/lmittmann/w3docs/internal/nav"
	"github.com/lmittmann/w3docs/internal/theme"
)

// ManifestFile is the name of the navigation manifest in the output directory.
const ManifestFile = "nav.json"

// Manifest is everything the site chrome needs besides the page bodies.
type Manifest struct {
	BuildID  string            `json:"build_id"`
	Site     SiteInfo          `json:"site"`
	Sections []SectionManifest `json:"sections"`
	Pages    []PageManifest    `json:"pages"`
}

type SiteInfo struct {
	Title   string `json:"title"`
	BaseURL string `json:"base_url,omitempty"`
	DocHost string `json:"doc_host"`
}

// SectionManifest is the composed menu of one directory.
type SectionManifest struct {
	Path     string         `json:"path"`
	Settings theme.Settings `json:"settings"`
	Items    []ItemManifest `json:"items"`
	// Listing holds the keys of the listed items, in order.
	Listing []string `json:"listing"`
}

type ItemManifest struct {
	Key       string         `json:"key"`
	Kind      nav.Kind       `json:"kind"`
	Title     string         `json:"title"`
	URL       string         `json:"url,omitempty"`
	NewWindow bool           `json:"new_window,omitempty"`
	Hidden    bool           `json:"hidden,omitempty"`
	Section   bool           `json:"section,omitempty"`
	Settings  theme.Settings `json:"settings"`
}

type PageManifest struct {
	Path        string         `json:"path"`
	URL         string         `json:"url"`
	File        string         `json:"file"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Settings    theme.Settings `json:"settings"`
	Breadcrumb  []LinkManifest `json:"breadcrumb,omitempty"`
	Prev        *LinkManifest  `json:"prev,omitempty"`
	Next        *LinkManifest  `json:"next,omitempty"`
}

type LinkManifest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func linkOf(it nav.Item) LinkManifest {
	return LinkManifest{Title: it.Title, URL: it.URL}
}

func buildManifest(id string, cfg *config.Config, tree *nav.Tree, pages []*Page) *Manifest {
	m := &Manifest{
		BuildID: id,
		Site: SiteInfo{
			Title:   cfg.Site.Title,
			BaseURL: cfg.Site.BaseURL,
			DocHost: cfg.Site.DocHost,
		},
	}

	_ = tree.Walk(func(n *nav.Node) error {
		sm := SectionManifest{Path: n.Path, Settings: n.Menu.Settings(), Listing: []string{}}
		for _, it := range n.Menu.Items() {
			_, isSection := n.Child(it.Key)
			sm.Items = append(sm.Items, ItemManifest{
				Key:       it.Key,
				Kind:      it.Kind,
				Title:     it.Title,
				URL:       it.URL,
				NewWindow: it.NewWindow,
				Hidden:    it.Hidden(),
				Section:   isSection,
				Settings:  it.Settings,
			})
		}
		for _, it := range n.Menu.Listing() {
			sm.Listing = append(sm.Listing, it.Key)
		}
		m.Sections = append(m.Sections, sm)
		return nil
	})

	for _, p := range pages {
		pm := PageManifest{
			Path:        p.Path,
			URL:         p.Item.URL,
			File:        p.File,
			Title:       p.Title,
			Description: p.Description,
			Settings:    p.Item.Settings,
		}
		if p.Item.Settings.Breadcrumb {
			if trail, ok := tree.Breadcrumb(p.Path); ok {
				for _, it := range trail {
					pm.Breadcrumb = append(pm.Breadcrumb, linkOf(it))
				}
			}
		}
		if node, ok := tree.Section(p.Item.Section); ok {
			prev, next := node.Menu.Pagination(p.Item.Key)
			if prev != nil {
				l := linkOf(*prev)
				pm.Prev = &l
			}
			if next != nil {
				l := linkOf(*next)
				pm.Next = &l
			}
		}
		m.Pages = append(m.Pages, pm)
	}
	return m
}
