// Package toolchain drives cargo builds of runtime crates and locates the
// wasm artifacts they produce.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/darwinia-network/runtime-overrider/internal/chain"
)

// TracingFeature is the cargo feature that compiles EVM tracing hooks into
// a runtime.
const TracingFeature = "evm-tracing"

// Builder abstracts the cargo invocations needed to produce a runtime.
// All paths in manifest are relative to dir, the root of the source tree.
type Builder interface {
	// Clean removes prior release artifacts of the runtime crate so the
	// following build starts from scratch.
	Clean(ctx context.Context, dir, manifest, pkg string) error
	// Build compiles the runtime crate in release mode with tracing
	// enabled.
	Build(ctx context.Context, dir, manifest string) error
}

// Cargo implements Builder by invoking a cargo binary inside the source
// tree.
type Cargo struct {
	bin string
}

// NewCargo returns a Cargo for the given binary, verifying that it can be
// found on PATH.
func NewCargo(bin string) (*Cargo, error) {
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("cargo not found (install via https://rustup.rs): %w", err)
	}
	return &Cargo{bin: bin}, nil
}

func (c *Cargo) Clean(ctx context.Context, dir, manifest, pkg string) error {
	if err := c.run(ctx, dir, cleanArgs(manifest, pkg)); err != nil {
		return fmt.Errorf("cargo clean: %w", err)
	}
	return nil
}

func (c *Cargo) Build(ctx context.Context, dir, manifest string) error {
	if err := c.run(ctx, dir, buildArgs(manifest)); err != nil {
		return fmt.Errorf("cargo build: %w", err)
	}
	return nil
}

func (c *Cargo) run(ctx context.Context, dir string, args []string) error {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cleanArgs(manifest, pkg string) []string {
	return []string{"clean", "--release", "--manifest-path", manifest, "-p", pkg}
}

func buildArgs(manifest string) []string {
	return []string{"build", "--release", "--manifest-path", manifest, "--features", TracingFeature}
}

// WasmOutput returns the path of the compact compressed wasm blob that a
// release build of c's runtime crate leaves under dir.
func WasmOutput(dir string, c chain.Chain) string {
	return filepath.Join(dir, "target", "release", "wbuild", c.CratePackage(),
		c.LowerName()+"_runtime.compact.compressed.wasm")
}
