// Package manifest loads and rewrites Scarb package manifests. The loader
// reads just the metadata the reducer needs (package identity, license and
// readme declarations, dependency names, and the [tool.voyager] contract
// list); the rewriter produces the self-contained manifest written into a
// reduced project.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// Errors surfaced by manifest handling.
var (
	// ErrMissingToolSection means the manifest declares no contracts to
	// verify under [tool.voyager].
	ErrMissingToolSection = errors.New("manifest has no [tool.voyager] section")
	// ErrRewrite wraps any failure to parse or rewrite a manifest.
	ErrRewrite = errors.New("manifest rewrite failed")
)

// toolSection is the manifest table naming the contracts to verify.
const toolSection = "voyager"

// Package describes one Scarb package in scope of a reduction.
type Package struct {
	Name         string
	Root         string
	ManifestPath string
	Dependencies []string
	License      string
	LicenseFile  string
	Readme       string

	targets []Target
}

// Target is one contract declared for verification.
type Target struct {
	Name string
	Path string
}

type rawManifest struct {
	Package struct {
		Name        string `toml:"name"`
		License     string `toml:"license"`
		LicenseFile string `toml:"license_file"`
		Readme      string `toml:"readme"`
	} `toml:"package"`
	Dependencies map[string]toml.Primitive            `toml:"dependencies"`
	Tool         map[string]map[string]toml.Primitive `toml:"tool"`
}

// Load reads a Scarb.toml file.
func Load(manifestPath string) (*Package, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(manifestPath, data)
}

// Parse decodes manifest bytes. The manifest path is retained so later
// stages can locate the package root.
func Parse(manifestPath string, data []byte) (*Package, error) {
	var raw rawManifest
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", manifestPath, err)
	}

	pkg := &Package{
		Name:         raw.Package.Name,
		Root:         filepath.Dir(manifestPath),
		ManifestPath: manifestPath,
		License:      raw.Package.License,
		LicenseFile:  raw.Package.LicenseFile,
		Readme:       raw.Package.Readme,
	}
	if pkg.Name == "" {
		return nil, fmt.Errorf("manifest %s: package name missing", manifestPath)
	}

	for name := range raw.Dependencies {
		pkg.Dependencies = append(pkg.Dependencies, name)
	}
	sort.Strings(pkg.Dependencies)

	if entries, ok := raw.Tool[toolSection]; ok {
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			var spec struct {
				Path string `toml:"path"`
			}
			if err := md.PrimitiveDecode(entries[name], &spec); err != nil {
				return nil, fmt.Errorf("parsing [tool.%s] entry %s: %w", toolSection, name, err)
			}
			if spec.Path == "" {
				return nil, fmt.Errorf("[tool.%s] entry %s has no path", toolSection, name)
			}
			pkg.targets = append(pkg.targets, Target{Name: name, Path: spec.Path})
		}
	}

	return pkg, nil
}

// VerifyTargets returns the contracts declared for verification, in
// stable order. A manifest without a tool section fails: the reducer has
// nothing to aim at.
func (p *Package) VerifyTargets() ([]Target, error) {
	if len(p.targets) == 0 {
		return nil, fmt.Errorf("%s: %w", p.ManifestPath, ErrMissingToolSection)
	}
	return p.targets, nil
}
