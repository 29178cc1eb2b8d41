package config

import (
	"errors"

	"gopkg.in/yaml.v3"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
)

// ErrDuplicateAlias is returned when the registry mapping repeats an alias.
var ErrDuplicateAlias = errors.New("duplicate registry alias")

// Alias is one registry row.
type Alias struct {
	Name string
	Path string
}

// Registry is the alias → package path table in declaration order.
type Registry []Alias

// UnmarshalYAML decodes an ordered alias mapping, rejecting repeated aliases.
func (r *Registry) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return foundationerrors.ConfigError("registry must be a mapping of alias to package path").
			WithContext("line", n.Line).
			Build()
	}

	seen := make(map[string]int, len(n.Content)/2)
	out := make(Registry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return foundationerrors.ConfigError("registry path must be a string").
				WithContext("alias", key.Value).
				WithContext("line", value.Line).
				Build()
		}
		if first, ok := seen[key.Value]; ok {
			return foundationerrors.WrapError(ErrDuplicateAlias, foundationerrors.CategoryConfig, "registry alias declared twice").
				UserAction().
				WithContext("alias", key.Value).
				WithContext("line", key.Line).
				WithContext("first_line", first).
				Build()
		}
		seen[key.Value] = key.Line
		out = append(out, Alias{Name: key.Value, Path: value.Value})
	}
	*r = out
	return nil
}

// MarshalYAML encodes r as an ordered mapping.
func (r Registry) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range r {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.Path},
		)
	}
	return n, nil
}

// Paths returns r as an alias → path map.
func (r Registry) Paths() map[string]string {
	m := make(map[string]string, len(r))
	for _, a := range r {
		m[a.Name] = a.Path
	}
	return m
}
