package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lmittmann/w3docs/internal/config"
	"github.com/lmittmann/w3docs/internal/symref"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Refs []string `arg:"" name:"ref" help:"Reference to resolve: an id such as eth.Call, or label=id."`
	JSON bool     `name:"json" help:"Print one JSON object per reference."`
}

type resolvedRef struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Alias  string `json:"alias"`
	Member string `json:"member"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	resolver, err := cfg.NewResolver()
	if err != nil {
		return err
	}
	return r.resolve(g, resolver)
}

func (r *ResolveCmd) resolve(g *Global, resolver *symref.Resolver) error {
	out := g.out()
	enc := json.NewEncoder(out)

	var errs []error
	for _, arg := range r.Refs {
		link, err := resolver.Resolve(parseRefArg(arg))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if r.JSON {
			if err := enc.Encode(resolvedRef{Label: link.Label, URL: link.URL, Alias: link.Alias, Member: link.Member}); err != nil {
				return err
			}
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", link.Label, link.URL)
	}
	return errors.Join(errs...)
}

// parseRefArg splits "label=id"; a plain argument is both label and id.
func parseRefArg(arg string) symref.Ref {
	if label, id, ok := strings.Cut(arg, "="); ok {
		return symref.Ref{Title: label, ID: id}
	}
	return symref.Ref{Title: arg}
}
