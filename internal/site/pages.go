package site

import (
	"errors"
	"io/fs"
	"path"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/nav"
)

// Page is one content page of the site.
type Page struct {
	// Path is the slash-separated key path, e.g. "examples/index".
	Path string
	// Source is the Markdown file relative to the content directory.
	Source string
	// File is the rendered body relative to the output directory.
	File string
	Item nav.Item

	Title       string
	Description string
	HTML        []byte
}

// collectPages lists every internal page of tree in menu order. Directories
// are sections, not pages; every other page entry needs its Markdown file.
func collectPages(fsys fs.FS, tree *nav.Tree) ([]*Page, error) {
	var (
		pages []*Page
		errs  []error
	)
	err := tree.Walk(func(n *nav.Node) error {
		for _, it := range n.Menu.Items() {
			if it.Kind != nav.KindPage {
				continue
			}
			if _, isSection := n.Child(it.Key); isSection {
				continue
			}
			p := &Page{
				Path:   path.Join(n.Path, it.Key),
				Source: path.Join(n.Path, it.Key+nav.PageExt),
				File:   path.Join(n.Path, it.Key+".html"),
				Item:   it,
				Title:  it.Title,
			}
			if _, err := fs.Stat(fsys, p.Source); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					errs = append(errs, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "navigation entry has no page file").
						UserAction().
						WithContext("section", n.Path).
						WithContext("entry", it.Key).
						WithContext("page", p.Source).
						Build())
					continue
				}
				return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "stat page file").
					WithContext("page", p.Source).
					Build()
			}
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return pages, nil
}
