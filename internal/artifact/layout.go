// Package artifact computes the deterministic output tree for overridden
// runtimes and moves build products into it.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/darwinia-network/runtime-overrider/internal/chain"
)

// Layout is where one build's artifacts land under the output directory.
// Wasm blobs and digests for the same chain live in sibling directories
// and share a name stem, so a digest can always be matched back to its
// wasm.
type Layout struct {
	// Name stems both artifact filenames, e.g.
	// "pangolin-v1.2.3-tracing-runtime".
	Name string

	WasmDir   string
	DigestDir string

	WasmPath   string
	DigestPath string
}

// NewLayout computes the layout for one chain and target under outputDir.
func NewLayout(outputDir string, c chain.Chain, target string) Layout {
	name := fmt.Sprintf("%s-%s-tracing-runtime", c.LowerName(), target)
	wasmDir := filepath.Join(outputDir, c.LowerName(), "wasms")
	digestDir := filepath.Join(outputDir, c.LowerName(), "digests")
	return Layout{
		Name:       name,
		WasmDir:    wasmDir,
		DigestDir:  digestDir,
		WasmPath:   filepath.Join(wasmDir, name+".compact.compressed.wasm"),
		DigestPath: filepath.Join(digestDir, name+".json"),
	}
}

// Relocate creates the layout's directories and moves the built wasm into
// WasmPath. Directories left over from earlier runs are reused, and an
// existing wasm for the same target is overwritten.
func (l Layout) Relocate(builtWasm string) error {
	for _, dir := range []string{l.WasmDir, l.DigestDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if _, err := os.Stat(builtWasm); err != nil {
		return fmt.Errorf("build output not found: %w", err)
	}
	if err := os.Rename(builtWasm, l.WasmPath); err != nil {
		return fmt.Errorf("moving wasm into place: %w", err)
	}
	return nil
}
