package nav

import (
	"errors"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/theme"
)

// PageExt is the extension of content pages.
const PageExt = ".md"

// Node is one composed section and its child sections.
type Node struct {
	Path     string
	Menu     *Menu
	children map[string]*Node
	order    []string
}

// Child returns the child section declared under key.
func (n *Node) Child(key string) (*Node, bool) {
	c, ok := n.children[key]
	return c, ok
}

// Children returns the child sections in menu order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.order))
	for _, k := range n.order {
		out = append(out, n.children[k])
	}
	return out
}

// Tree nests the per-directory menus following the directory structure.
type Tree struct {
	Root *Node
}

// Load composes the tree rooted at dir in fsys. Each directory's meta file
// declares its entries; pages and directories it does not mention are appended
// after the declared ones (index first, then by name) so nothing on disk is
// unreachable. site seeds the settings of the root section.
func Load(fsys fs.FS, dir string, site theme.Settings) (*Tree, error) {
	root, err := loadNode(fsys, dir, "", site)
	if err != nil {
		return nil, err
	}
	return &Tree{Root: root}, nil
}

func loadNode(fsys fs.FS, dir, rel string, inherited theme.Settings) (*Node, error) {
	dirEntries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "read content directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}

	section := NewSection(rel)
	data, err := fs.ReadFile(fsys, path.Join(dir, MetaFile))
	switch {
	case err == nil:
		if section, err = ParseMeta(rel, data); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "read meta file").
			Fatal().
			WithContext("path", path.Join(dir, MetaFile)).
			Build()
	}

	dirs := map[string]bool{}
	var undeclared []string
	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		key := name
		if de.IsDir() {
			dirs[key] = true
		} else if k, ok := strings.CutSuffix(name, PageExt); ok {
			key = k
		} else {
			continue
		}
		if !section.Has(key) && !slices.Contains(undeclared, key) {
			undeclared = append(undeclared, key)
		}
	}
	sort.Slice(undeclared, func(i, j int) bool {
		if undeclared[i] == KeyIndex || undeclared[j] == KeyIndex {
			return undeclared[i] == KeyIndex
		}
		return undeclared[i] < undeclared[j]
	})
	for _, key := range undeclared {
		if err := section.Add(Entry{Key: key, Kind: KindPage, Display: DisplayNormal}); err != nil {
			return nil, err
		}
	}

	menu, err := Compose(section, inherited)
	if err != nil {
		return nil, err
	}

	node := &Node{Path: rel, Menu: menu, children: map[string]*Node{}}
	for _, it := range menu.Items() {
		if !dirs[it.Key] {
			continue
		}
		child, err := loadNode(fsys, path.Join(dir, it.Key), path.Join(rel, it.Key), it.Settings)
		if err != nil {
			return nil, err
		}
		node.children[it.Key] = child
		node.order = append(node.order, it.Key)
	}
	return node, nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return []string{KeyIndex}
	}
	return strings.Split(p, "/")
}

// Resolve returns the item addressed by the slash-separated key path p,
// hidden items included. The empty path addresses the root index.
func (t *Tree) Resolve(p string) (Item, bool) {
	node := t.Root
	segs := splitPath(p)
	for i, seg := range segs {
		it, ok := node.Menu.Lookup(seg)
		if !ok {
			return Item{}, false
		}
		if i == len(segs)-1 {
			return it, true
		}
		if node, ok = node.Child(seg); !ok {
			return Item{}, false
		}
	}
	return Item{}, false
}

// Breadcrumb returns the ancestor chain of p, outermost first, ending with the
// item itself. Separators never appear in the trail, and a trailing index is
// represented by its directory entry. It reports false when p does not resolve.
func (t *Tree) Breadcrumb(p string) ([]Item, bool) {
	node := t.Root
	segs := splitPath(p)
	trail := make([]Item, 0, len(segs))
	for i, seg := range segs {
		it, ok := node.Menu.Lookup(seg)
		if !ok {
			return nil, false
		}
		if it.Navigable() && !(seg == KeyIndex && i > 0) {
			trail = append(trail, it)
		}
		if i == len(segs)-1 {
			break
		}
		if node, ok = node.Child(seg); !ok {
			return nil, false
		}
	}
	return trail, true
}

// Section returns the node for the slash-separated directory path p.
func (t *Tree) Section(p string) (*Node, bool) {
	node := t.Root
	p = strings.Trim(p, "/")
	if p == "" {
		return node, true
	}
	for _, seg := range strings.Split(p, "/") {
		var ok bool
		if node, ok = node.Child(seg); !ok {
			return nil, false
		}
	}
	return node, true
}

// Walk visits every section depth-first in menu order.
func (t *Tree) Walk(fn func(*Node) error) error {
	var walk func(*Node) error
	walk = func(n *Node) error {
		if err := fn(n); err != nil {
			return err
		}
		for _, c := range n.Children() {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(t.Root)
}
