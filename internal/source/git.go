// Package source acquires a variant's runtime sources, keeping one local
// clone per repository and checking out the requested target ref.
package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Client is the version-control surface the acquirer needs. Every operation
// blocks until the underlying command exits and reports a non-zero exit
// status as an error.
type Client interface {
	Clone(ctx context.Context, url, dir string) error
	FetchAll(ctx context.Context, dir string) error
	Checkout(ctx context.Context, dir, ref string) error
}

// ExecClient implements Client by invoking a git binary.
type ExecClient struct {
	bin string
}

// NewExecClient returns an ExecClient for the given git binary, verifying
// that it can be found on PATH.
func NewExecClient(bin string) (*ExecClient, error) {
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("git not found: %w", err)
	}
	return &ExecClient{bin: bin}, nil
}

// Clone clones url into dir, creating missing parent directories.
func (g *ExecClient) Clone(ctx context.Context, url, dir string) error {
	cmd := exec.CommandContext(ctx, g.bin, "clone", url, dir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone: %w", err)
	}
	return nil
}

// FetchAll fetches every remote of the clone at dir.
func (g *ExecClient) FetchAll(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, g.bin, "fetch", "--all")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git fetch --all: %w", err)
	}
	return nil
}

// Checkout checks out ref inside the clone at dir.
func (g *ExecClient) Checkout(ctx context.Context, dir, ref string) error {
	cmd := exec.CommandContext(ctx, g.bin, "checkout", ref)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git checkout %s: %w", ref, err)
	}
	return nil
}
