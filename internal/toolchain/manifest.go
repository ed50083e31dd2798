package toolchain

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// cargoManifest is the slice of a Cargo.toml this tool cares about.
type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// VerifyManifest checks that the crate manifest at dir/manifest names the
// expected package. A checked-out target whose source layout predates or
// postdates the known runtime paths fails here, before any cargo run.
func VerifyManifest(dir, manifest, pkg string) error {
	path := filepath.Join(dir, manifest)

	var m cargoManifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return fmt.Errorf("reading manifest %s: %w", manifest, err)
	}
	if m.Package.Name != pkg {
		return fmt.Errorf("manifest %s declares package %q, want %q", manifest, m.Package.Name, pkg)
	}
	return nil
}
