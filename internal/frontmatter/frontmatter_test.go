package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nkey: value\n---\n# Title\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	fm, body, had, style, err := Split(input)
	_ = fm
	_ = body
	_ = style
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\nkey: value\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"),
	}

	for _, input := range cases {
		fm, body, had, style, err := Split(input)
		require.NoError(t, err)

		out := Join(fm, body, had, style)
		require.Equal(t, input, out)
	}
}

func TestParse_DecodesMeta(t *testing.T) {
	meta, body, err := Parse([]byte("---\ntitle: Contract Calls\ndescription: Call contracts\nsidebar: ignored\n---\n# Body\n"))
	require.NoError(t, err)
	require.Equal(t, Meta{Title: "Contract Calls", Description: "Call contracts"}, meta)
	require.Equal(t, []byte("# Body\n"), body)
}

func TestParse_WithoutFrontmatter(t *testing.T) {
	input := []byte("# Body\n")
	meta, body, err := Parse(input)
	require.NoError(t, err)
	require.Zero(t, meta)
	require.Equal(t, input, body)

	meta, body, err = Parse([]byte("---\n---\nrest\n"))
	require.NoError(t, err)
	require.Zero(t, meta)
	require.Equal(t, []byte("rest\n"), body)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, _, err := Parse([]byte("---\ntitle: [unterminated\n---\nbody\n"))
	require.ErrorIs(t, err, ErrInvalidFrontmatter)

	_, _, err = Parse([]byte("---\ntitle: x\nbody\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestDetectStyle(t *testing.T) {
	require.Equal(t, Style{Newline: "\r\n", HasTrailingNewline: true}, detectStyle([]byte("a\r\nb\r\n")))
	require.Equal(t, Style{Newline: "\n", HasTrailingNewline: false}, detectStyle([]byte("a\nb")))
	require.Equal(t, Style{Newline: "\n"}, detectStyle(nil))
}
