// Package digest extracts runtime digests from wasm blobs and stores them
// alongside the blobs they describe.
package digest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Inspector produces the runtime digest of a wasm blob as raw JSON. The
// digest schema belongs to the inspecting tool and is carried opaquely, so
// fields added by newer tool versions survive untouched.
type Inspector interface {
	RuntimeInfo(ctx context.Context, wasmPath string) (json.RawMessage, error)
}

// Write stores a digest at path as indented JSON with a trailing newline.
func Write(path string, info json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, info, "", "  "); err != nil {
		return fmt.Errorf("formatting digest: %w", err)
	}
	buf.WriteByte('\n')

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing digest: %w", err)
	}
	return nil
}
