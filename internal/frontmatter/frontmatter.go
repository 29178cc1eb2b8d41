// Package frontmatter separates YAML frontmatter from Markdown page bodies.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Style captures the newline shape of a document so it can be rewritten in place.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Meta is the page metadata a content page may declare in its frontmatter.
type Meta struct {
	// Title overrides the navigation title as the page heading.
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	frontmatterStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[frontmatterStart:], closeLine) {
		bodyStart := frontmatterStart + len(closeLine)
		return []byte{}, content[bodyStart:], true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, style, nil
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(frontmatter)+len(body))
	out = append(out, delim...)
	out = append(out, frontmatter...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// Parse splits content and decodes its frontmatter into Meta. Unknown keys are
// ignored; pages without frontmatter yield the zero Meta.
func Parse(content []byte) (Meta, []byte, error) {
	fm, body, had, _, err := Split(content)
	if err != nil {
		return Meta{}, nil, err
	}
	var meta Meta
	if !had || len(bytes.TrimSpace(fm)) == 0 {
		return meta, body, nil
	}
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("%w: %w", ErrInvalidFrontmatter, err)
	}
	return meta, body, nil
}

var (
	// ErrMissingClosingDelimiter indicates the document started with a YAML
	// frontmatter delimiter but did not contain a closing delimiter.
	ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

	// ErrInvalidFrontmatter indicates the frontmatter block is not valid YAML for Meta.
	ErrInvalidFrontmatter = errors.New("invalid yaml frontmatter")
)

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
