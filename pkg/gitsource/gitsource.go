// Package gitsource materializes remote git repositories in temporary
// directories so they can be consolidated like local project trees.
package gitsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// IsURL reports whether input names a git repository rather than a local
// path. SSH-style addresses and anything ending in .git qualify; plain
// http(s) URLs stay ambiguous and are left to the filesystem.
func IsURL(input string) bool {
	return strings.HasSuffix(input, ".git") || strings.HasPrefix(input, "git@")
}

// Clone fetches the default branch of url, shallow, into a fresh
// temporary directory. The returned cleanup removes the clone; callers
// must invoke it once the tree is no longer needed.
func Clone(ctx context.Context, url string, logger *zap.Logger) (string, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tempDir, err := os.MkdirTemp("", "ctxgen-git-")
	if err != nil {
		return "", nil, fmt.Errorf("create temporary clone directory: %w", err)
	}

	logger.Info("cloning repository",
		zap.String("url", url),
		zap.String("dir", tempDir))
	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           url,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("clone %s: %w", url, err)
	}

	cleanup := func() {
		logger.Debug("removing clone", zap.String("dir", tempDir))
		_ = os.RemoveAll(tempDir)
	}
	return tempDir, cleanup, nil
}
