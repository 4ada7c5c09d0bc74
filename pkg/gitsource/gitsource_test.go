package gitsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	testCases := []struct {
		input string
		want  bool
	}{
		{"https://github.com/user/repo.git", true},
		{"git@github.com:user/repo.git", true},
		{"git@internal.host:team/tool", true},
		{"ssh://host/repo.git", true},
		{"/home/user/project", false},
		{".", false},
		{"relative/path", false},
		{"https://example.com/page", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, IsURL(tc.input))
		})
	}
}

func TestCloneFailureLeavesNothingBehind(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-repo.git")

	dir, cleanup, err := Clone(context.Background(), missing, nil)
	require.Error(t, err)
	assert.Empty(t, dir)
	assert.Nil(t, cleanup)
	assert.Contains(t, err.Error(), "clone")
}
