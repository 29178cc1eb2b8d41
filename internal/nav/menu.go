package nav

import (
	"path"

	"github.com/lmittmann/w3docs/internal/theme"
)

// Item is a composed entry: the declared entry plus its resolved target and settings.
type Item struct {
	Entry
	// Section is the path of the section the item belongs to.
	Section string
	// URL is where the item points; empty for separators.
	URL string
	// Settings are the resolved chrome toggles for the item's page and subtree.
	Settings theme.Settings
}

// External reports whether the item leaves the site's own page set.
func (it Item) External() bool { return it.Kind == KindLink }

// Menu is the composed navigation of one section.
type Menu struct {
	section  string
	items    []Item
	index    map[string]int
	settings theme.Settings
}

// Compose builds the menu for section. parent holds the settings the section
// inherits (site defaults for the root, the parent entry's settings otherwise).
func Compose(section *Section, parent theme.Settings) (*Menu, error) {
	m := &Menu{
		section:  section.Path,
		index:    make(map[string]int, section.Len()),
		settings: parent,
	}

	for _, e := range section.Entries() {
		if err := e.Validate(); err != nil {
			return nil, withSection(err, section.Path)
		}
		if _, dup := m.index[e.Key]; dup {
			return nil, duplicateKeyError(section.Path, e.Key)
		}

		it := Item{Entry: e, Section: section.Path}
		if it.Title == "" {
			it.Title = e.DisplayTitle()
		}
		if it.Display == "" {
			it.Display = DisplayNormal
		}

		switch e.Kind {
		case KindPage:
			it.URL = pageURL(section.Path, e.Key)
		case KindLink:
			it.URL = e.Href
		}

		layers := []theme.Overrides{e.Theme}
		if e.Key == KeyErrorPage {
			layers = append(layers, theme.ErrorPage())
		}
		it.Settings = parent.Apply(layers...)

		m.index[e.Key] = len(m.items)
		m.items = append(m.items, it)
	}
	return m, nil
}

func pageURL(section, key string) string {
	if key == KeyIndex {
		return path.Join("/", section)
	}
	return path.Join("/", section, key)
}

// Section returns the path of the composed section.
func (m *Menu) Section() string { return m.section }

// Settings returns the settings the section inherited.
func (m *Menu) Settings() theme.Settings { return m.settings }

// Items returns every item in declared order, hidden ones and separators included.
func (m *Menu) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Visible returns the items a sidebar renders: everything not hidden,
// separators included as group titles.
func (m *Menu) Visible() []Item {
	out := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		if !it.Hidden() {
			out = append(out, it)
		}
	}
	return out
}

// Listing returns the navigable, non-hidden items in declared order.
func (m *Menu) Listing() []Item {
	out := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		if it.Navigable() && !it.Hidden() {
			out = append(out, it)
		}
	}
	return out
}

// Lookup returns the item declared under key, hidden or not.
func (m *Menu) Lookup(key string) (Item, bool) {
	i, ok := m.index[key]
	if !ok {
		return Item{}, false
	}
	return m.items[i], true
}

// Pagination returns the previous and next page around key. Only listed
// internal pages take part in the sequence; separators, links, hidden entries
// and the error page are skipped. A page whose settings disable pagination, or
// that is not part of the sequence itself, has neither.
func (m *Menu) Pagination(key string) (prev, next *Item) {
	cur, ok := m.Lookup(key)
	if !ok || !inSequence(cur) || !cur.Settings.Pagination {
		return nil, nil
	}

	var seq []int
	pos := -1
	for i, it := range m.items {
		if !inSequence(it) {
			continue
		}
		if it.Key == key {
			pos = len(seq)
		}
		seq = append(seq, i)
	}
	if pos > 0 {
		p := m.items[seq[pos-1]]
		prev = &p
	}
	if pos >= 0 && pos+1 < len(seq) {
		n := m.items[seq[pos+1]]
		next = &n
	}
	return prev, next
}

func inSequence(it Item) bool {
	return it.Kind == KindPage && !it.Hidden() && it.Key != KeyErrorPage
}
