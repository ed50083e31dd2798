// Package overrider wires source acquisition, cargo builds, artifact
// relocation, and digest extraction into the end-to-end run for one chain.
package overrider

import (
	"context"
	"log/slog"

	"github.com/darwinia-network/runtime-overrider/internal/artifact"
	"github.com/darwinia-network/runtime-overrider/internal/chain"
	"github.com/darwinia-network/runtime-overrider/internal/config"
	"github.com/darwinia-network/runtime-overrider/internal/digest"
	"github.com/darwinia-network/runtime-overrider/internal/source"
	"github.com/darwinia-network/runtime-overrider/internal/toolchain"
)

// Result reports where a run left its artifacts.
type Result struct {
	WasmPath   string
	DigestPath string
}

// Overrider runs the build pipeline for one chain at a time.
type Overrider struct {
	cfg       config.Config
	acquirer  *source.Acquirer
	builder   toolchain.Builder
	inspector digest.Inspector
}

// New wires an Overrider over the git, cargo, and subwasm binaries named
// by cfg. A missing binary is reported here, before any work starts.
func New(cfg config.Config) (*Overrider, error) {
	git, err := source.NewExecClient(cfg.GitBin)
	if err != nil {
		return nil, err
	}
	cargo, err := toolchain.NewCargo(cfg.CargoBin)
	if err != nil {
		return nil, err
	}
	subwasm, err := digest.NewSubwasm(cfg.SubwasmBin)
	if err != nil {
		return nil, err
	}
	return newWith(cfg, git, cargo, subwasm), nil
}

func newWith(cfg config.Config, client source.Client, builder toolchain.Builder, inspector digest.Inspector) *Overrider {
	return &Overrider{
		cfg:       cfg,
		acquirer:  source.NewAcquirer(client, cfg.BuildDir, cfg.GitBase),
		builder:   builder,
		inspector: inspector,
	}
}

// Run executes the pipeline for one chain and target: acquire sources,
// rebuild the runtime crate with tracing enabled, move the wasm into the
// output tree, and store its digest next to it. The first failing phase
// aborts the run; nothing is retried or rolled back.
func (o *Overrider) Run(ctx context.Context, c chain.Chain, target string) (*Result, error) {
	slog.Info("acquiring sources", "chain", c.LowerName(), "target", target)
	dir, err := o.acquirer.Acquire(ctx, c, target)
	if err != nil {
		return nil, err
	}

	if err := toolchain.VerifyManifest(dir, c.ManifestPath(), c.CratePackage()); err != nil {
		return nil, err
	}

	slog.Info("cleaning previous runtime build", "package", c.CratePackage())
	if err := o.builder.Clean(ctx, dir, c.ManifestPath(), c.CratePackage()); err != nil {
		return nil, err
	}

	slog.Info("building runtime", "package", c.CratePackage(), "feature", toolchain.TracingFeature)
	if err := o.builder.Build(ctx, dir, c.ManifestPath()); err != nil {
		return nil, err
	}

	layout := artifact.NewLayout(o.cfg.OutputDir, c, target)
	slog.Info("relocating wasm", "path", layout.WasmPath)
	if err := layout.Relocate(toolchain.WasmOutput(dir, c)); err != nil {
		return nil, err
	}

	slog.Info("extracting runtime digest", "path", layout.DigestPath)
	info, err := o.inspector.RuntimeInfo(ctx, layout.WasmPath)
	if err != nil {
		return nil, err
	}
	if err := digest.Write(layout.DigestPath, info); err != nil {
		return nil, err
	}

	slog.Info("runtime override complete", "chain", c.LowerName(), "target", target,
		"wasm", layout.WasmPath, "digest", layout.DigestPath)
	return &Result{WasmPath: layout.WasmPath, DigestPath: layout.DigestPath}, nil
}
