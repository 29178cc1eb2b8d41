package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	require.NotEmpty(t, Version)
	require.NotEmpty(t, BuildTime)
	require.NotEmpty(t, GitCommit)
	require.Equal(t, "w3docs "+Version+" (commit "+GitCommit+", built "+BuildTime+")", String())
}
