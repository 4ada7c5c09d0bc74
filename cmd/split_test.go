package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctxgen/pkg/consolidate"
)

func TestSplitCommandRestoresFiles(t *testing.T) {
	useNopLogger(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("a = 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "b.py"), []byte("b = 2\n"), 0644))

	artifact := filepath.Join(t.TempDir(), "ctx.txt")
	cfg := &consolidate.Config{
		Root:        root,
		Output:      artifact,
		IncludeExts: []string{".py"},
	}
	_, err := consolidate.Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	dest := t.TempDir()
	RootCmd.SetArgs([]string{"split", artifact, "-d", dest})
	require.NoError(t, RootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(dest, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "lib", "b.py"))
	require.NoError(t, err)
	assert.Equal(t, "b = 2\n", string(data))
}

func TestSplitCommandMissingArtifact(t *testing.T) {
	useNopLogger(t)

	RootCmd.SetArgs([]string{"split", filepath.Join(t.TempDir(), "absent.txt")})
	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open artifact")
}
