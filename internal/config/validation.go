package config

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/registry"
)

// Validate checks cfg after defaults were applied. Every problem is reported.
func Validate(cfg *Config) error {
	var errs []error

	if strings.Contains(cfg.Site.DocHost, "://") {
		errs = append(errs, foundationerrors.ConfigError("site.doc_host must be a bare host without scheme").
			WithContext("doc_host", cfg.Site.DocHost).
			Build())
	}
	if cfg.Site.BaseURL != "" {
		if u, err := url.Parse(cfg.Site.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, foundationerrors.ConfigError("site.base_url must be an absolute URL").
				WithContext("base_url", cfg.Site.BaseURL).
				Build())
		}
	}

	switch {
	case filepath.Clean(cfg.Content.Dir) == filepath.Clean(cfg.Content.Output):
		errs = append(errs, foundationerrors.ConfigError("content.output must differ from content.dir").
			WithContext("dir", cfg.Content.Dir).
			Build())
	case within(cfg.Content.Dir, cfg.Content.Output), within(cfg.Content.Output, cfg.Content.Dir):
		errs = append(errs, foundationerrors.ConfigError("content.output and content.dir must not contain each other").
			WithContext("dir", cfg.Content.Dir).
			WithContext("output", cfg.Content.Output).
			Build())
	}

	if _, err := registry.New(cfg.Registry.Paths()); err != nil {
		errs = append(errs, err)
	}

	if err := cfg.Theme.Validate(); err != nil {
		errs = append(errs, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "invalid theme").
			UserAction().
			Build())
	}

	return errors.Join(errs...)
}

// within reports whether path lies below dir. Relative paths are taken
// relative to the working directory.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
