package scarb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBin writes an executable shell script standing in for scarb.
func fakeBin(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake not portable to windows")
	}
	path := filepath.Join(t.TempDir(), "scarb")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestNewCLIDefaultBin(t *testing.T) {
	assert.Equal(t, DefaultBin, NewCLI("").Bin)
	assert.Equal(t, "/opt/scarb", NewCLI("/opt/scarb").Bin)
}

func TestBuildSuccess(t *testing.T) {
	cli := NewCLI(fakeBin(t, `echo "Compiling t v0.1.0"`))
	assert.NoError(t, cli.Build(context.Background(), t.TempDir()))
}

func TestBuildFailureCarriesDiagnostics(t *testing.T) {
	cli := NewCLI(fakeBin(t, `echo "error: module not found"; exit 1`))
	dir := t.TempDir()

	err := cli.Build(context.Background(), dir)
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, dir, buildErr.Dir)
	assert.Contains(t, buildErr.Output, "module not found")
	assert.Contains(t, buildErr.Error(), dir)
}

func TestBuildErrorEmptyOutput(t *testing.T) {
	e := &BuildError{Dir: "/proj"}
	assert.Equal(t, "scarb build failed in /proj", e.Error())
}

func TestReadMetadata(t *testing.T) {
	cli := NewCLI(fakeBin(t, `cat <<'JSON'
{
  "app_version_info": {"version": "2.6.5", "cairo": {"version": "2.6.3"}},
  "packages": [
    {"name": "token", "root": "/proj/token", "manifest_path": "/proj/token/Scarb.toml"}
  ]
}
JSON`))

	md, err := cli.ReadMetadata(context.Background(), "/proj/token/Scarb.toml")
	require.NoError(t, err)

	assert.Equal(t, "2.6.5", md.ScarbVersion())
	assert.Equal(t, "2.6.3", md.CairoVersion())
	require.Len(t, md.Packages, 1)
	assert.Equal(t, "token", md.Packages[0].Name)
	assert.Equal(t, "/proj/token/Scarb.toml", md.Packages[0].ManifestPath)
}

func TestReadMetadataCommandFailure(t *testing.T) {
	cli := NewCLI(fakeBin(t, `echo "no manifest found" >&2; exit 1`))

	_, err := cli.ReadMetadata(context.Background(), "/nowhere/Scarb.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no manifest found")
}

func TestReadMetadataBadJSON(t *testing.T) {
	cli := NewCLI(fakeBin(t, `echo "not json"`))

	_, err := cli.ReadMetadata(context.Background(), "/proj/Scarb.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding scarb metadata")
}
