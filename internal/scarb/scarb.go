// Package scarb invokes the Scarb build tool as an external collaborator.
// The reducer uses it twice: once to read workspace metadata, and once as
// the post-materialization self-check that the reduced project still
// compiles standalone.
package scarb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBin is the scarb executable name used when none is configured.
const DefaultBin = "scarb"

// Builder runs a build against a project directory.
type Builder interface {
	Build(ctx context.Context, dir string) error
}

// BuildError carries the build tool's diagnostics verbatim so the user
// can fix the original project rather than the reduction.
type BuildError struct {
	Dir    string
	Output string
}

func (e *BuildError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("scarb build failed in %s", e.Dir)
	}
	return fmt.Sprintf("scarb build failed in %s:\n%s", e.Dir, out)
}

// CLI is the exec-based Builder and metadata reader.
type CLI struct {
	Bin string
}

// NewCLI creates a scarb invoker. An empty bin falls back to DefaultBin.
func NewCLI(bin string) *CLI {
	if bin == "" {
		bin = DefaultBin
	}
	return &CLI{Bin: bin}
}

// Build runs `scarb build` in the given directory. Compiler diagnostics
// are returned inside a BuildError.
func (c *CLI) Build(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, c.Bin, "build")
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return &BuildError{Dir: dir, Output: string(out)}
	}
	return nil
}

// Metadata is the subset of `scarb metadata` output the reducer needs.
type Metadata struct {
	AppVersionInfo VersionInfo       `json:"app_version_info"`
	Packages       []PackageMetadata `json:"packages"`
}

// VersionInfo reports the scarb and cairo compiler versions.
type VersionInfo struct {
	Version string `json:"version"`
	Cairo   struct {
		Version string `json:"version"`
	} `json:"cairo"`
}

// ScarbVersion returns the scarb version string.
func (m *Metadata) ScarbVersion() string {
	return m.AppVersionInfo.Version
}

// CairoVersion returns the cairo compiler version string.
func (m *Metadata) CairoVersion() string {
	return m.AppVersionInfo.Cairo.Version
}

// PackageMetadata identifies one workspace package.
type PackageMetadata struct {
	Name         string `json:"name"`
	Root         string `json:"root"`
	ManifestPath string `json:"manifest_path"`
}

// ReadMetadata runs `scarb metadata` against a manifest and decodes the
// package list.
func (c *CLI) ReadMetadata(ctx context.Context, manifestPath string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, c.Bin,
		"--manifest-path", manifestPath,
		"metadata", "--format-version", "1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running scarb metadata: %w\n%s", err, stderr.String())
	}

	var md Metadata
	if err := json.Unmarshal(stdout.Bytes(), &md); err != nil {
		return nil, fmt.Errorf("decoding scarb metadata: %w", err)
	}
	return &md, nil
}
