package nav

import (
	"strings"

	"gopkg.in/yaml.v3"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/theme"
)

// MetaFile is the per-directory navigation file name.
const MetaFile = "_meta.yaml"

// separatorPrefixes are the key prefixes older meta files use to declare a
// separator without a type. They are only honored while decoding.
var separatorPrefixes = []string{"---", "+++"}

type metaValue struct {
	Title     string          `yaml:"title"`
	Type      string          `yaml:"type"`
	Href      string          `yaml:"href"`
	NewWindow bool            `yaml:"newWindow"`
	Display   string          `yaml:"display"`
	Theme     theme.Overrides `yaml:"theme"`
}

// ParseMeta decodes a meta file into a section at path.
//
// The document is an ordered YAML mapping from key to either a title string or
// a mapping with title, type, href, newWindow, display and theme fields.
func ParseMeta(path string, data []byte) (*Section, error) {
	section := NewSection(path)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, metaError(path, "meta file is not valid YAML", err).Build()
	}
	if len(doc.Content) == 0 {
		return section, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return section, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, metaError(path, "meta file must be a mapping", nil).
			WithContext("line", root.Line).
			Build()
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		entry, err := decodeEntry(path, keyNode, valueNode)
		if err != nil {
			return nil, err
		}
		if err := entry.Validate(); err != nil {
			return nil, withSection(err, path)
		}
		if err := section.Add(entry); err != nil {
			return nil, withLine(err, keyNode.Line)
		}
	}
	return section, nil
}

func decodeEntry(path string, keyNode, valueNode *yaml.Node) (Entry, error) {
	entry := Entry{Key: keyNode.Value, Kind: KindPage, Display: DisplayNormal}
	if keyNode.Kind != yaml.ScalarNode {
		return entry, metaError(path, "navigation key must be a string", nil).
			WithContext("line", keyNode.Line).
			Build()
	}

	var v metaValue
	switch valueNode.Kind {
	case yaml.ScalarNode:
		v.Title = valueNode.Value
	case yaml.MappingNode:
		if err := valueNode.Decode(&v); err != nil {
			return entry, metaError(path, "invalid navigation entry", err).
				WithContext("entry", entry.Key).
				WithContext("line", valueNode.Line).
				Build()
		}
	default:
		return entry, metaError(path, "navigation entry must be a title or a mapping", nil).
			WithContext("entry", entry.Key).
			WithContext("line", valueNode.Line).
			Build()
	}

	entry.Title = v.Title
	entry.Href = v.Href
	entry.NewWindow = v.NewWindow
	entry.Theme = v.Theme
	if v.Display != "" {
		entry.Display = Display(v.Display)
	}

	switch v.Type {
	case "", "page":
		if v.Href != "" {
			entry.Kind = KindLink
		}
	case "separator":
		entry.Kind = KindSeparator
	case "link":
		entry.Kind = KindLink
	default:
		return entry, metaError(path, "unknown navigation entry type", nil).
			WithContext("entry", entry.Key).
			WithContext("type", v.Type).
			WithContext("line", valueNode.Line).
			Build()
	}

	for _, prefix := range separatorPrefixes {
		if rest, ok := strings.CutPrefix(entry.Key, prefix); ok {
			entry.Kind = KindSeparator
			if entry.Title == "" {
				entry.Title = strings.TrimSpace(rest)
			}
			break
		}
	}
	return entry, nil
}

func metaError(path, msg string, cause error) *foundationerrors.ErrorBuilder {
	return foundationerrors.WrapError(cause, foundationerrors.CategoryNavigation, msg).
		Fatal().
		UserAction().
		WithContext("section", path)
}

func withSection(err error, path string) error {
	if c, ok := foundationerrors.AsClassified(err); ok {
		return c.WithContext("section", path)
	}
	return err
}

func withLine(err error, line int) error {
	if c, ok := foundationerrors.AsClassified(err); ok {
		return c.WithContext("line", line)
	}
	return err
}
