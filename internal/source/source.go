package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/darwinia-network/runtime-overrider/internal/chain"
)

// Acquirer materializes checked-out source trees under a build directory.
// Clones are reused across runs; the two chains that share a repository
// share a clone.
type Acquirer struct {
	client   Client
	buildDir string
	gitBase  string
}

// NewAcquirer returns an Acquirer that clones below buildDir from the
// given git base URL.
func NewAcquirer(client Client, buildDir, gitBase string) *Acquirer {
	return &Acquirer{client: client, buildDir: buildDir, gitBase: gitBase}
}

// Acquire ensures a clone of c's repository exists under the build
// directory, refreshes its remotes, and checks out target. It returns the
// clone directory.
//
// Presence of the directory is the only reuse check, so a partial clone
// left behind by an interrupted run is picked up as-is; deleting the
// directory forces a fresh clone.
func (a *Acquirer) Acquire(ctx context.Context, c chain.Chain, target string) (string, error) {
	dir := filepath.Join(a.buildDir, c.Repository())

	if _, err := os.Stat(dir); err == nil {
		slog.Debug("reusing existing clone", "repository", c.Repository(), "path", dir)
	} else {
		url := c.GitURL(a.gitBase)
		slog.Info("cloning repository", "url", url, "path", dir)
		if err := a.client.Clone(ctx, url, dir); err != nil {
			return "", fmt.Errorf("cloning %s: %w", c.Repository(), err)
		}
	}

	slog.Debug("fetching remotes", "path", dir)
	if err := a.client.FetchAll(ctx, dir); err != nil {
		return "", fmt.Errorf("fetching %s: %w", c.Repository(), err)
	}

	slog.Debug("checking out target", "path", dir, "target", target)
	if err := a.client.Checkout(ctx, dir, target); err != nil {
		return "", fmt.Errorf("checking out %s: %w", target, err)
	}

	return dir, nil
}
