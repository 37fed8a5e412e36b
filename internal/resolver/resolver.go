// Package resolver consumes the external semantic resolver that turns raw
// Cairo `use` statements into canonical fully-qualified paths. The resolver
// runs outside this process and reports one facts entry per on-disk module
// file; this package only defines the facts schema and the ways to obtain a
// facts document. No parsing or type-checking happens here.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Import kinds reported by the resolver.
const (
	KindModule = "module"
	KindItem   = "item"
)

// Facts is the resolver's report for a whole workspace.
type Facts struct {
	Modules []ModuleFacts `json:"modules"`
}

// ModuleFacts describes one module of a crate. File is empty when the
// module has no on-disk backing (virtual modules, which the reducer
// rejects).
type ModuleFacts struct {
	Path         string        `json:"path"`
	Dir          string        `json:"dir"`
	File         string        `json:"file"`
	RelativePath string        `json:"relativePath"`
	Imports      []ImportFacts `json:"imports"`
}

// ImportFacts is one flattened `use` leaf, or a synthetic module entry for
// a `mod x;` declaration. Resolved is empty when the resolver could not
// resolve the declared path.
type ImportFacts struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Resolved string `json:"resolved,omitempty"`
	Kind     string `json:"kind"`
}

// Resolver yields resolved module facts for all crates of a workspace.
type Resolver interface {
	ResolveModules(ctx context.Context, manifestPath string) (*Facts, error)
}

// Exec invokes the resolver executable and decodes the facts document it
// prints on stdout. The executable is pointed at the workspace manifest,
// the same way Scarb itself is invoked for metadata.
type Exec struct {
	Bin  string
	Args []string
}

// NewExec creates an exec-based resolver. An empty bin falls back to the
// default executable name.
func NewExec(bin string, args ...string) *Exec {
	if bin == "" {
		bin = "voyager-resolver"
	}
	return &Exec{Bin: bin, Args: args}
}

// ResolveModules runs the resolver against the given manifest.
func (e *Exec) ResolveModules(ctx context.Context, manifestPath string) (*Facts, error) {
	args := append([]string{"--manifest-path", manifestPath}, e.Args...)
	cmd := exec.CommandContext(ctx, e.Bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running resolver %s: %w\n%s", e.Bin, err, stderr.String())
	}

	var facts Facts
	if err := json.Unmarshal(stdout.Bytes(), &facts); err != nil {
		return nil, fmt.Errorf("decoding resolver output: %w", err)
	}
	return &facts, nil
}

// Load reads a pre-generated facts document from disk. Used for offline
// runs and tests.
func Load(path string) (*Facts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facts file: %w", err)
	}

	var facts Facts
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("decoding facts file %s: %w", path, err)
	}
	return &facts, nil
}
