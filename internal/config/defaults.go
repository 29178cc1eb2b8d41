package config

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/lmittmann/w3docs/internal/registry"
	"github.com/lmittmann/w3docs/internal/symref"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&ContentDefaultApplier{},
			&RegistryDefaultApplier{},
			&BuildDefaultApplier{},
			&PreviewDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// GetApplierByDomain returns a specific domain applier (useful for testing).
func (c *CompositeDefaultApplier) GetApplierByDomain(domain string) DefaultApplier {
	for _, applier := range c.appliers {
		if applier.Domain() == domain {
			return applier
		}
	}
	return nil
}

// SiteDefaultApplier handles Site configuration defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "w3"
	}
	cfg.Site.DocHost = strings.Trim(strings.TrimSpace(cfg.Site.DocHost), "/")
	if cfg.Site.DocHost == "" {
		cfg.Site.DocHost = symref.DefaultHost
	}
	cfg.Site.BaseURL = strings.TrimSuffix(cfg.Site.BaseURL, "/")
	return nil
}

// ContentDefaultApplier handles Content configuration defaults.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "docs"
	}
	if cfg.Content.Output == "" {
		cfg.Content.Output = "public"
	}
	return nil
}

// RegistryDefaultApplier fills an absent registry with the w3 packages.
type RegistryDefaultApplier struct{}

func (r *RegistryDefaultApplier) Domain() string { return "registry" }

func (r *RegistryDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Registry) > 0 {
		return nil
	}
	paths := registry.DefaultPaths()
	aliases := make([]string, 0, len(paths))
	for alias := range paths {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		cfg.Registry = append(cfg.Registry, Alias{Name: alias, Path: paths[alias]})
	}
	return nil
}

// BuildDefaultApplier handles Build configuration defaults.
type BuildDefaultApplier struct{}

func (b *BuildDefaultApplier) Domain() string { return "build" }

func (b *BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Concurrency <= 0 {
		cfg.Build.Concurrency = runtime.NumCPU()
	}
	return nil
}

// PreviewDefaultApplier handles Preview configuration defaults.
type PreviewDefaultApplier struct{}

func (p *PreviewDefaultApplier) Domain() string { return "preview" }

func (p *PreviewDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Preview.Addr == "" {
		cfg.Preview.Addr = "127.0.0.1:3000"
	}
	return nil
}
