package commands

import (
	"fmt"
	"time"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	builder, err := loadBuilder(root.Config, g.logger())
	if err != nil {
		return err
	}
	res, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "Built %d pages into %s in %s\n",
		len(res.Pages), builder.Config().Content.Output, res.Duration.Round(time.Millisecond))
	return nil
}

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	builder, err := loadBuilder(root.Config, g.logger())
	if err != nil {
		return err
	}
	res, err := builder.Check(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "OK: %d pages in %d sections\n", len(res.Pages), len(res.Manifest.Sections))
	return nil
}
