package commands

import (
	"errors"
	"fmt"
	"os"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/frontmatter"
	"github.com/lmittmann/w3docs/internal/markdown"
)

// MigrateCmd rewrites DocLink and RefLink components in pages into ref: links.
type MigrateCmd struct {
	Write bool     `short:"w" help:"Rewrite the files in place instead of only reporting."`
	Files []string `arg:"" name:"file" type:"existingfile" help:"Markdown pages to migrate."`
}

func (m *MigrateCmd) Run(g *Global, _ *CLI) error {
	out := g.out()
	var errs []error
	total := 0
	for _, path := range m.Files {
		n, err := m.migrateFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += n
		if n > 0 {
			_, _ = fmt.Fprintf(out, "%s: %d components\n", path, n)
		}
	}

	verb := "would convert"
	if m.Write {
		verb = "converted"
	}
	_, _ = fmt.Fprintf(out, "%s %d components in %d files\n", verb, total, len(m.Files))
	return errors.Join(errs...)
}

// migrateFile converts the body of the page at path, leaving its frontmatter
// untouched, and returns the number of converted components.
func (m *MigrateCmd) migrateFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "read page").
			WithContext("path", path).
			Build()
	}
	fm, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return 0, foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid frontmatter").
			WithContext("path", path).
			Build()
	}

	migrated, n, err := markdown.MigrateComponents(body)
	if err != nil {
		if c, ok := foundationerrors.AsClassified(err); ok {
			return 0, c.WithContext("path", path)
		}
		return 0, err
	}
	if n == 0 || !m.Write {
		return n, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "stat page").
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, frontmatter.Join(fm, migrated, had, style), info.Mode().Perm()); err != nil {
		return 0, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "write page").
			WithContext("path", path).
			Build()
	}
	return n, nil
}
