package commands

import (
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/lmittmann/w3docs/internal/config"
	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/nav"
)

// MenuCmd implements the 'menu' command.
type MenuCmd struct {
	Section string `arg:"" optional:"" help:"Section path relative to the content directory (default: root)."`
}

func (m *MenuCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	tree, err := nav.Load(os.DirFS(cfg.Content.Dir), ".", cfg.ThemeSettings())
	if err != nil {
		return err
	}
	node, ok := tree.Section(m.Section)
	if !ok {
		return foundationerrors.NewError(foundationerrors.CategoryNotFound, "section not found").
			WithContext("section", m.Section).
			UserAction().
			Build()
	}
	return writeMenu(g.out(), node.Menu)
}

func writeMenu(w io.Writer, menu *nav.Menu) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = io.WriteString(tw, "KIND\tKEY\tTITLE\tURL\tHIDDEN\n")
	for _, it := range menu.Items() {
		_, _ = io.WriteString(tw, it.Kind.String()+"\t"+it.Key+"\t"+it.DisplayTitle()+"\t"+it.URL+"\t"+strconv.FormatBool(it.Hidden())+"\n")
	}
	return tw.Flush()
}
