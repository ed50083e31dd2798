// Package chain defines the closed set of Darwinia chain variants this tool
// can build and the per-variant source layout derived from them.
package chain

import (
	"fmt"
	"path"
	"strings"
)

// Chain identifies one of the supported chain variants.
type Chain string

const (
	Darwinia Chain = "Darwinia"
	Crab     Chain = "Crab"
	Pangoro  Chain = "Pangoro"
	Pangolin Chain = "Pangolin"
)

// DefaultGitBase is the base URL the variant repositories are cloned from.
const DefaultGitBase = "https://github.com/darwinia-network"

// All returns every supported chain.
func All() []Chain {
	return []Chain{Darwinia, Crab, Pangoro, Pangolin}
}

// Parse resolves a case-insensitive selector to a Chain.
func Parse(s string) (Chain, error) {
	for _, c := range All() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown runtime %q (valid: %s)", s, validNames())
}

func validNames() string {
	names := make([]string, 0, len(All()))
	for _, c := range All() {
		names = append(names, c.LowerName())
	}
	return strings.Join(names, ", ")
}

// Name returns the canonical variant name.
func (c Chain) Name() string {
	return string(c)
}

// LowerName returns the lowercase variant name used in filesystem paths.
func (c Chain) LowerName() string {
	return strings.ToLower(string(c))
}

// Repository returns the name of the GitHub repository that hosts the
// variant's runtime sources. Darwinia and Crab live in the main node repo,
// Pangoro and Pangolin in the common testnet repo.
func (c Chain) Repository() string {
	switch c {
	case Darwinia, Crab:
		return "darwinia"
	default:
		return "darwinia-common"
	}
}

// GitURL returns the clone URL for the variant's repository under base.
// An empty base selects DefaultGitBase.
func (c Chain) GitURL(base string) string {
	if base == "" {
		base = DefaultGitBase
	}
	return strings.TrimSuffix(base, "/") + "/" + c.Repository()
}

// RuntimePath returns the runtime package directory relative to the
// repository root.
func (c Chain) RuntimePath() string {
	switch c {
	case Darwinia, Crab:
		return path.Join("runtime", c.LowerName())
	default:
		return path.Join("node", "runtime", c.LowerName())
	}
}

// ManifestPath returns the runtime package's Cargo.toml relative to the
// repository root.
func (c Chain) ManifestPath() string {
	return path.Join(c.RuntimePath(), "Cargo.toml")
}

// CratePackage returns the cargo package name of the variant's runtime crate.
func (c Chain) CratePackage() string {
	return c.LowerName() + "-runtime"
}
