package markdown

import (
	"bytes"
	"regexp"
	"strings"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
)

// componentPattern matches the self-closing DocLink and RefLink components
// that MDX pages used for symbol references.
var componentPattern = regexp.MustCompile(`<(DocLink|RefLink)\b([^<>]*?)/>`)

// attrPattern matches name="v", name='v' and name={"v"} attributes.
var attrPattern = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|'([^']*)'|\{\s*["']([^"']*)["']\s*\})`)

// MigrateComponents rewrites DocLink/RefLink components into ref: links and
// reports how many were replaced. Components inside code blocks and code
// spans are left alone.
func MigrateComponents(body []byte) ([]byte, int, error) {
	var edits []Edit

	inFence := false
	fence := ""
	offset := 0
	for lineNo, line := range bytes.SplitAfter(body, []byte("\n")) {
		start := offset
		offset += len(line)

		trimmed := strings.TrimSpace(string(line))
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case !inFence:
				inFence, fence = true, marker
			case marker == fence:
				inFence, fence = false, ""
			}
			continue
		}
		if inFence || bytes.HasPrefix(line, []byte("    ")) || bytes.HasPrefix(line, []byte("\t")) {
			continue
		}

		spans := codeSpanRanges(line)
		for _, m := range componentPattern.FindAllSubmatchIndex(line, -1) {
			if insideAny(spans, m[0]) {
				continue
			}
			repl, err := componentLink(line[m[4]:m[5]])
			if err != nil {
				return nil, 0, foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "cannot migrate component").
					WithContext("line", lineNo+1).
					WithContext("component", string(line[m[0]:m[1]])).
					Build()
			}
			edits = append(edits, Edit{Start: start + m[0], End: start + m[1], Replacement: []byte(repl)})
		}
	}

	out, err := ApplyEdits(body, edits)
	if err != nil {
		return nil, 0, err
	}
	return out, len(edits), nil
}

func componentLink(attrs []byte) (string, error) {
	values := map[string]string{}
	for _, m := range attrPattern.FindAllSubmatch(attrs, -1) {
		for _, v := range m[2:] {
			if v != nil {
				values[string(m[1])] = string(v)
				break
			}
		}
	}

	title, id := values["title"], values["id"]
	if title == "" {
		title = id
	}
	if title == "" {
		return "", errMissingTitle
	}
	label := strings.NewReplacer(`[`, `\[`, `]`, `\]`).Replace(title)
	if id == "" || id == title {
		return "[" + label + "](" + SymbolScheme + ")", nil
	}
	return "[" + label + "](" + SymbolScheme + id + ")", nil
}

var errMissingTitle = foundationerrors.ValidationError("component has neither title nor id").Build()

func fenceMarker(trimmed string) string {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			return m
		}
	}
	return ""
}

// codeSpanRanges returns the [start, end) byte ranges of inline code spans.
func codeSpanRanges(line []byte) [][2]int {
	var out [][2]int
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		n := 0
		for i+n < len(line) && line[i+n] == '`' {
			n++
		}
		closing := findBacktickRun(line, i+n, n)
		if closing < 0 {
			i += n
			continue
		}
		out = append(out, [2]int{i, closing + n})
		i = closing + n
	}
	return out
}

func findBacktickRun(line []byte, from, n int) int {
	for j := from; j < len(line); {
		if line[j] != '`' {
			j++
			continue
		}
		k := 0
		for j+k < len(line) && line[j+k] == '`' {
			k++
		}
		if k == n {
			return j
		}
		j += k
	}
	return -1
}

func insideAny(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}
