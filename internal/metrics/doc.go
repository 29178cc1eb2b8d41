// Package metrics provides build metrics behind the Recorder interface.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks:
//
//	builder := site.NewBuilder(cfg, resolver) // NoopRecorder
//
//	reg := prometheus.NewRegistry()
//	builder = site.NewBuilder(cfg, resolver, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
