package commands

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lmittmann/w3docs/internal/metrics"
	"github.com/lmittmann/w3docs/internal/preview"
	"github.com/lmittmann/w3docs/internal/site"
)

// PreviewCmd serves the site locally and rebuilds it when content changes.
type PreviewCmd struct {
	Addr string `name:"addr" help:"Listen address (default: preview.addr from the configuration)."`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	builder, err := loadBuilder(root.Config, g.logger(), site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	if err != nil {
		return err
	}
	addr := p.Addr
	if addr == "" {
		addr = builder.Config().Preview.Addr
	}
	_, _ = fmt.Fprintf(g.out(), "Previewing %s on http://%s\n", builder.Config().Content.Dir, addr)
	return preview.Run(ctx, builder, addr, preview.WithMetrics(reg), preview.WithLogger(g.logger()))
}
