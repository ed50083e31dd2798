package digest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Subwasm implements Inspector by invoking the subwasm CLI.
type Subwasm struct {
	bin string
}

// NewSubwasm returns a Subwasm for the given binary, verifying that it can
// be found on PATH.
func NewSubwasm(bin string) (*Subwasm, error) {
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("subwasm not found (install with `cargo install subwasm`): %w", err)
	}
	return &Subwasm{bin: bin}, nil
}

// RuntimeInfo runs `subwasm info --json` against the blob and returns the
// digest it prints.
func (s *Subwasm) RuntimeInfo(ctx context.Context, wasmPath string) (json.RawMessage, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.bin, "info", "--json", wasmPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("subwasm info: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("subwasm info: %w", err)
	}
	return parseInfo(stdout.Bytes())
}

// parseInfo validates CLI output as JSON without binding to its schema.
func parseInfo(out []byte) (json.RawMessage, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("subwasm info produced no output")
	}
	if !json.Valid(out) {
		return nil, fmt.Errorf("subwasm info produced invalid JSON")
	}
	return json.RawMessage(out), nil
}
