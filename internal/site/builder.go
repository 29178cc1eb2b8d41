// Package site builds the documentation site: it composes the navigation tree
// of the content directory, renders every page with symbol references
// resolved, and publishes the page bodies together with the nav.json manifest.
//
// A build either publishes everything or nothing. A single unresolved
// reference, broken relative link, missing page or invalid meta file fails
// the whole build and leaves the previous output untouched.
package site

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/lmittmann/w3docs/internal/config"
	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/frontmatter"
	"github.com/lmittmann/w3docs/internal/logfields"
	"github.com/lmittmann/w3docs/internal/markdown"
	"github.com/lmittmann/w3docs/internal/metrics"
	"github.com/lmittmann/w3docs/internal/nav"
	"github.com/lmittmann/w3docs/internal/symref"
)

// Build stages reported to the metrics recorder.
const (
	StageLoad    = "load"
	StageRender  = "render"
	StagePublish = "publish"
)

// Builder runs builds for one configuration. It is safe to call Build and
// Check sequentially; concurrent builds into the same output are the caller's
// responsibility.
type Builder struct {
	cfg      *config.Config
	content  fs.FS
	renderer *markdown.Renderer
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithContentFS reads content from fsys instead of the configured directory.
func WithContentFS(fsys fs.FS) Option {
	return func(b *Builder) { b.content = fsys }
}

// NewBuilder returns a Builder for cfg resolving references with resolver.
func NewBuilder(cfg *config.Config, resolver *symref.Resolver, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		content:  os.DirFS(cfg.Content.Dir),
		renderer: markdown.NewRenderer(resolver),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

// Result describes a successful build or check.
type Result struct {
	BuildID  string
	Tree     *nav.Tree
	Pages    []*Page
	Manifest *Manifest
	Duration time.Duration
}

// Check loads and renders the site without writing anything. The returned
// error joins every defect found.
func (b *Builder) Check(ctx context.Context) (*Result, error) {
	id := uuid.NewString()
	logger := b.logger.With(logfields.BuildID(id))
	start := time.Now()

	res, err := b.render(ctx, id, logger)
	if err != nil {
		logger.Error("Check failed", logfields.Error(err))
		return nil, err
	}
	res.Duration = time.Since(start)
	logger.Info("Check passed", logfields.Count(len(res.Pages)), logfields.DurationMS(ms(res.Duration)))
	return res, nil
}

// Build renders the site and publishes it into the output directory.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	id := uuid.NewString()
	logger := b.logger.With(logfields.BuildID(id))
	start := time.Now()
	logger.Info("Starting build", "content", b.cfg.Content.Dir, "output", b.cfg.Content.Output)

	res, err := b.build(ctx, id, logger)
	elapsed := time.Since(start)
	b.recorder.ObserveBuildDuration(elapsed)
	if err != nil {
		b.recorder.IncBuildOutcome(outcomeOf(err))
		logger.Error("Build failed", logfields.Error(err), logfields.DurationMS(ms(elapsed)))
		return nil, err
	}
	res.Duration = elapsed
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	b.recorder.AddPagesRendered(len(res.Pages))
	logger.Info("Build completed",
		logfields.Count(len(res.Pages)),
		logfields.Path(b.cfg.Content.Output),
		logfields.DurationMS(ms(elapsed)))
	return res, nil
}

func (b *Builder) build(ctx context.Context, id string, logger *slog.Logger) (*Result, error) {
	res, err := b.render(ctx, id, logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = b.publish(ctx, res, logger)
	b.recorder.ObserveStageDuration(StagePublish, time.Since(start))
	b.recorder.IncStageResult(StagePublish, resultOf(err))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// render covers everything up to publishing: load the tree, collect the
// pages, render them and assemble the manifest.
func (b *Builder) render(ctx context.Context, id string, logger *slog.Logger) (*Result, error) {
	start := time.Now()
	tree, pages, err := b.load()
	b.recorder.ObserveStageDuration(StageLoad, time.Since(start))
	b.recorder.IncStageResult(StageLoad, resultOf(err))
	if err != nil {
		return nil, err
	}

	sections := 0
	_ = tree.Walk(func(*nav.Node) error { sections++; return nil })
	b.recorder.SetSectionsComposed(sections)
	logger.Debug("Navigation loaded", logfields.Count(sections), "pages", len(pages))

	start = time.Now()
	err = b.renderPages(ctx, tree, pages, logger)
	b.recorder.ObserveStageDuration(StageRender, time.Since(start))
	b.recorder.IncStageResult(StageRender, resultOf(err))
	if err != nil {
		return nil, err
	}

	return &Result{
		BuildID:  id,
		Tree:     tree,
		Pages:    pages,
		Manifest: buildManifest(id, b.cfg, tree, pages),
	}, nil
}

func (b *Builder) load() (*nav.Tree, []*Page, error) {
	tree, err := nav.Load(b.content, ".", b.cfg.ThemeSettings())
	if err != nil {
		return nil, nil, err
	}
	pages, err := collectPages(b.content, tree)
	if err != nil {
		return nil, nil, err
	}
	return tree, pages, nil
}

// renderPages renders every page concurrently and fills in its HTML and
// metadata. All failures are collected; any failure fails the call.
func (b *Builder) renderPages(ctx context.Context, tree *nav.Tree, pages []*Page, logger *slog.Logger) error {
	results := runOrdered(ctx, pages, b.cfg.Build.Concurrency, func(p *Page) (int, error) {
		return b.renderPage(tree, p, logger)
	})

	var (
		errs     []error
		resolved int
		failed   int
	)
	for i, r := range results {
		refs := r.Value
		if r.Err != nil {
			if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
				return r.Err
			}
			n := countReferenceErrors(r.Err)
			failed += n
			resolved += max(refs-n, 0)
			logger.Warn("Page failed", logfields.Page(pages[i].Source), logfields.Error(r.Err))
			errs = append(errs, r.Err)
			continue
		}
		resolved += refs
	}
	b.recorder.ObserveReferences(resolved, failed)
	return errors.Join(errs...)
}

// renderPage renders p and returns the number of references it contains.
// Links into the site that match no navigation item fail the page as well.
func (b *Builder) renderPage(tree *nav.Tree, p *Page, logger *slog.Logger) (int, error) {
	src, err := fs.ReadFile(b.content, p.Source)
	if err != nil {
		return 0, fsError(err, "read page", p.Source)
	}
	meta, body, err := frontmatter.Parse(src)
	if err != nil {
		return 0, foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid frontmatter").
			Fatal().
			WithContext("page", p.Source).
			Build()
	}
	if meta.Title != "" {
		p.Title = meta.Title
	}
	p.Description = meta.Description

	refs := len(markdown.ExtractRefs(body))
	linkErr := checkLinks(tree, p.Source, body)
	html, err := b.renderer.Render(p.Source, body)
	if err != nil || linkErr != nil {
		return refs, errors.Join(err, linkErr)
	}
	p.HTML = html
	logger.Debug("Rendered page", logfields.Page(p.Source), "references", refs)
	return refs, nil
}

func (b *Builder) publish(ctx context.Context, res *Result, logger *slog.Logger) (err error) {
	st, err := beginStaging(b.cfg.Content.Output, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			st.abort()
		}
	}()

	for _, p := range res.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.writeFile(p.File, p.HTML); err != nil {
			return err
		}
	}
	if err := st.writeJSON(ManifestFile, res.Manifest); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return st.promote()
}

// countReferenceErrors counts the reference failures joined into err.
func countReferenceErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, e := range joined.Unwrap() {
			n += countReferenceErrors(e)
		}
		return n
	}
	if foundationerrors.HasCategory(err, foundationerrors.CategoryReference) {
		return 1
	}
	return 0
}

func resultOf(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}

func outcomeOf(err error) metrics.BuildOutcomeLabel {
	if resultOf(err) == metrics.ResultCanceled {
		return metrics.BuildOutcomeCanceled
	}
	return metrics.BuildOutcomeFailed
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
