// Package registry maps the short package aliases used in symbol references to
// the fully-qualified import paths of the documented library.
package registry

import (
	"errors"
	"maps"
	"slices"
	"strings"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
)

// ErrUnknownPackage is the cause of every lookup for an alias outside the registry.
var ErrUnknownPackage = errors.New("unknown package")

// Registry is an immutable alias → package path table. It is safe for
// concurrent use without locking since nothing can mutate it after New.
type Registry struct {
	paths map[string]string
}

// New builds a Registry from the alias → path mapping. The input map is copied.
func New(paths map[string]string) (*Registry, error) {
	for alias, path := range paths {
		if strings.TrimSpace(alias) == "" {
			return nil, foundationerrors.ConfigError("registry alias must not be empty").
				WithContext("path", path).
				Build()
		}
		if strings.Contains(alias, ".") {
			return nil, foundationerrors.ConfigError("registry alias must not contain '.'").
				WithContext("alias", alias).
				Build()
		}
		if strings.TrimSpace(path) == "" {
			return nil, foundationerrors.ConfigError("registry path must not be empty").
				WithContext("alias", alias).
				Build()
		}
	}
	return &Registry{paths: maps.Clone(paths)}, nil
}

// ResolvePath returns the fully-qualified package path registered for alias.
func (r *Registry) ResolvePath(alias string) (string, error) {
	if r != nil {
		if path, ok := r.paths[alias]; ok {
			return path, nil
		}
	}
	return "", foundationerrors.ReferenceError("unknown package alias").
		WithCause(ErrUnknownPackage).
		WithContext("alias", alias).
		Build()
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry) Aliases() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.paths))
}

// Len returns the number of registered aliases.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.paths)
}

// Paths returns a copy of the alias → path table.
func (r *Registry) Paths() map[string]string {
	if r == nil {
		return map[string]string{}
	}
	return maps.Clone(r.paths)
}
