package overrider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/darwinia-network/runtime-overrider/internal/chain"
	"github.com/darwinia-network/runtime-overrider/internal/config"
	"github.com/darwinia-network/runtime-overrider/internal/toolchain"
)

// stubPipeline fakes all three external tools behind one type, recording
// the order of their calls.
type stubPipeline struct {
	calls []string

	// Clone materializes this manifest inside the clone directory.
	manifestRel string
	manifestPkg string

	// Build writes a fake wasm here; empty means build nothing.
	builtWasm string
	buildErr  error

	info       json.RawMessage
	inspectErr error
	inspected  string
}

func (s *stubPipeline) Clone(_ context.Context, _, dir string) error {
	s.calls = append(s.calls, "clone")
	if s.manifestRel == "" {
		return nil
	}
	path := filepath.Join(dir, s.manifestRel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("[package]\nname = %q\n", s.manifestPkg)), 0o644)
}

func (s *stubPipeline) FetchAll(_ context.Context, _ string) error {
	s.calls = append(s.calls, "fetch")
	return nil
}

func (s *stubPipeline) Checkout(_ context.Context, _, _ string) error {
	s.calls = append(s.calls, "checkout")
	return nil
}

func (s *stubPipeline) Clean(_ context.Context, _, _, _ string) error {
	s.calls = append(s.calls, "clean")
	return nil
}

func (s *stubPipeline) Build(_ context.Context, _, _ string) error {
	s.calls = append(s.calls, "build")
	if s.buildErr != nil {
		return s.buildErr
	}
	if s.builtWasm == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.builtWasm), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.builtWasm, []byte("\x00asm"), 0o644)
}

func (s *stubPipeline) RuntimeInfo(_ context.Context, wasmPath string) (json.RawMessage, error) {
	s.calls = append(s.calls, "inspect")
	s.inspected = wasmPath
	if s.inspectErr != nil {
		return nil, s.inspectErr
	}
	return s.info, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	tmp := t.TempDir()
	cfg := config.Default()
	cfg.BuildDir = filepath.Join(tmp, "build")
	cfg.OutputDir = filepath.Join(tmp, "overridden-runtimes")
	return cfg
}

func TestRunProducesWasmAndDigest(t *testing.T) {
	cfg := testConfig(t)
	c := chain.Pangolin
	srcDir := filepath.Join(cfg.BuildDir, "darwinia-common")

	s := &stubPipeline{
		manifestRel: c.ManifestPath(),
		manifestPkg: c.CratePackage(),
		builtWasm:   toolchain.WasmOutput(srcDir, c),
		info:        json.RawMessage(`{"size":4,"core_version":{"spec_name":"pangolin","spec_version":28140}}`),
	}
	o := newWith(cfg, s, s, s)

	res, err := o.Run(context.Background(), c, "v1.2.3")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantCalls := []string{"clone", "fetch", "checkout", "clean", "build", "inspect"}
	if !reflect.DeepEqual(s.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", s.calls, wantCalls)
	}

	wantWasm := filepath.Join(cfg.OutputDir, "pangolin", "wasms", "pangolin-v1.2.3-tracing-runtime.compact.compressed.wasm")
	if res.WasmPath != wantWasm {
		t.Errorf("WasmPath = %q, want %q", res.WasmPath, wantWasm)
	}
	wantDigest := filepath.Join(cfg.OutputDir, "pangolin", "digests", "pangolin-v1.2.3-tracing-runtime.json")
	if res.DigestPath != wantDigest {
		t.Errorf("DigestPath = %q, want %q", res.DigestPath, wantDigest)
	}

	wasm, err := os.ReadFile(res.WasmPath)
	if err != nil {
		t.Fatalf("reading relocated wasm: %v", err)
	}
	if string(wasm) != "\x00asm" {
		t.Errorf("wasm content = %q", wasm)
	}
	if _, err := os.Stat(s.builtWasm); !os.IsNotExist(err) {
		t.Errorf("built wasm should have been moved out of %s", s.builtWasm)
	}

	// The digest must describe the relocated wasm, not the wbuild copy.
	if s.inspected != res.WasmPath {
		t.Errorf("inspected %q, want %q", s.inspected, res.WasmPath)
	}
	data, err := os.ReadFile(res.DigestPath)
	if err != nil {
		t.Fatalf("reading digest: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("digest is not valid JSON: %q", data)
	}
	if !strings.Contains(string(data), `"spec_name": "pangolin"`) {
		t.Errorf("digest content = %q", data)
	}
}

func TestRunBuildFailure(t *testing.T) {
	cfg := testConfig(t)
	c := chain.Crab

	buildErr := errors.New("rustc exited with status 101")
	s := &stubPipeline{
		manifestRel: c.ManifestPath(),
		manifestPkg: c.CratePackage(),
		buildErr:    buildErr,
	}
	o := newWith(cfg, s, s, s)

	_, err := o.Run(context.Background(), c, "main")
	if !errors.Is(err, buildErr) {
		t.Fatalf("Run error = %v, want %v", err, buildErr)
	}
	wantCalls := []string{"clone", "fetch", "checkout", "clean", "build"}
	if !reflect.DeepEqual(s.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", s.calls, wantCalls)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Errorf("output tree should not exist after a failed build")
	}
}

func TestRunMissingBuildOutput(t *testing.T) {
	cfg := testConfig(t)
	c := chain.Darwinia

	// Build reports success but leaves no wasm behind.
	s := &stubPipeline{
		manifestRel: c.ManifestPath(),
		manifestPkg: c.CratePackage(),
		info:        json.RawMessage(`{}`),
	}
	o := newWith(cfg, s, s, s)

	_, err := o.Run(context.Background(), c, "main")
	if err == nil {
		t.Fatal("expected error for missing build output")
	}
	if !strings.Contains(err.Error(), "build output not found") {
		t.Errorf("error = %v", err)
	}
	if s.inspected != "" {
		t.Errorf("inspector ran on %q despite missing wasm", s.inspected)
	}
	digestPath := filepath.Join(cfg.OutputDir, "darwinia", "digests", "darwinia-main-tracing-runtime.json")
	if _, err := os.Stat(digestPath); !os.IsNotExist(err) {
		t.Errorf("no digest should exist at %s", digestPath)
	}
}

func TestRunManifestMismatch(t *testing.T) {
	cfg := testConfig(t)
	c := chain.Pangoro

	s := &stubPipeline{
		manifestRel: c.ManifestPath(),
		manifestPkg: "pangoro-node",
	}
	o := newWith(cfg, s, s, s)

	_, err := o.Run(context.Background(), c, "main")
	if err == nil {
		t.Fatal("expected error for mismatched manifest")
	}
	wantCalls := []string{"clone", "fetch", "checkout"}
	if !reflect.DeepEqual(s.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", s.calls, wantCalls)
	}
}

func TestRunInspectFailure(t *testing.T) {
	cfg := testConfig(t)
	c := chain.Crab
	srcDir := filepath.Join(cfg.BuildDir, "darwinia")

	s := &stubPipeline{
		manifestRel: c.ManifestPath(),
		manifestPkg: c.CratePackage(),
		builtWasm:   toolchain.WasmOutput(srcDir, c),
		inspectErr:  errors.New("wasm too small"),
	}
	o := newWith(cfg, s, s, s)

	_, err := o.Run(context.Background(), c, "main")
	if !errors.Is(err, s.inspectErr) {
		t.Fatalf("Run error = %v, want %v", err, s.inspectErr)
	}

	// The wasm was already relocated; only the digest must be absent.
	digestPath := filepath.Join(cfg.OutputDir, "crab", "digests", "crab-main-tracing-runtime.json")
	if _, err := os.Stat(digestPath); !os.IsNotExist(err) {
		t.Errorf("no digest should exist at %s", digestPath)
	}
}

func TestNewReportsMissingBinary(t *testing.T) {
	cfg := config.Default()
	cfg.GitBin = "git-binary-that-does-not-exist"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for missing git binary")
	}
}
