// Package config loads the w3docs.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/registry"
	"github.com/lmittmann/w3docs/internal/symref"
	"github.com/lmittmann/w3docs/internal/theme"
)

// DefaultFile is the configuration file name looked up by the CLI.
const DefaultFile = "w3docs.yaml"

// Config is the complete project configuration.
type Config struct {
	Site     SiteConfig      `yaml:"site"`
	Content  ContentConfig   `yaml:"content"`
	Registry Registry        `yaml:"registry,omitempty"`
	Theme    theme.Overrides `yaml:"theme,omitempty"`
	Build    BuildConfig     `yaml:"build"`
	Preview  PreviewConfig   `yaml:"preview"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url,omitempty"`
	// DocHost is the host symbol references link to.
	DocHost string `yaml:"doc_host"`
}

// ContentConfig locates the page sources and the published output.
type ContentConfig struct {
	Dir    string `yaml:"dir"`
	Output string `yaml:"output"`
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	// Concurrency bounds the number of pages rendered at once.
	Concurrency int `yaml:"concurrency"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads the configuration file at path. Environment files next to it are
// loaded first, then ${VAR} references in the file are expanded. Relative
// content paths are resolved against the directory of path.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)
	if loaded, err := loadEnvFiles(dir); err != nil {
		return nil, err
	} else if len(loaded) > 0 {
		slog.Debug("Loaded environment files", "files", loaded)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).
				UserAction().
				Build()
		}
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "read configuration file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Content.Dir = resolveRelative(dir, cfg.Content.Dir)
	cfg.Content.Output = resolveRelative(dir, cfg.Content.Output)
	return cfg, nil
}

// Parse decodes configuration data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "decode configuration").
			UserAction().
			Build()
	}
	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	// The appliers only fail on invalid input, which an empty Config is not.
	_ = NewDefaultApplier().ApplyDefaults(&cfg)
	return &cfg
}

// ThemeSettings returns the site-wide theme settings pages inherit.
func (c *Config) ThemeSettings() theme.Settings {
	return theme.SiteDefaults().Apply(c.Theme)
}

// NewResolver builds the symbol resolver for the configured registry and host.
func (c *Config) NewResolver() (*symref.Resolver, error) {
	reg, err := registry.New(c.Registry.Paths())
	if err != nil {
		return nil, err
	}
	return symref.NewResolver(reg, symref.WithHost(c.Site.DocHost)), nil
}

// Init writes a starter configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return foundationerrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return foundationerrors.InternalError("encode configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}

func resolveRelative(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// String renders c as YAML, for diagnostics.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(data)
}
