package license

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renwickholm/starkverify/internal/manifest"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"MIT", "MIT", false},
		{"mit", "MIT", false},
		{" Apache-2.0 ", "Apache-2.0", false},
		{"gpl-3.0-only", "GPL-3.0-only", false},
		{"bsd-3-clause", "BSD-3-Clause", false},
		{"WTFPL-ish", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseID(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolveFlagWins(t *testing.T) {
	pkg := &manifest.Package{Name: "t", License: "Apache-2.0"}

	info, err := Resolve("mit", pkg)
	require.NoError(t, err)
	assert.Equal(t, "MIT", info.ID)
	assert.Equal(t, SourceFlag, info.Source)
	assert.Equal(t, "MIT", info.String())
}

func TestResolveBadFlag(t *testing.T) {
	_, err := Resolve("not-a-license", &manifest.Package{Name: "t"})
	require.Error(t, err)
}

func TestResolveManifest(t *testing.T) {
	pkg := &manifest.Package{Name: "t", License: "Apache-2.0"}

	info, err := Resolve("", pkg)
	require.NoError(t, err)
	assert.Equal(t, "Apache-2.0", info.ID)
	assert.Equal(t, SourceManifest, info.Source)
}

func TestResolveLicenseFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "LICENSE"), []byte("MIT License\n\nCopyright (c) 2026\n"), 0o644))

	pkg := &manifest.Package{Name: "t", Root: root, LicenseFile: "LICENSE"}

	info, err := Resolve("", pkg)
	require.NoError(t, err)
	assert.Equal(t, "MIT", info.ID)
	assert.Equal(t, SourceFile, info.Source)
}

func TestResolveNone(t *testing.T) {
	info, err := Resolve("", &manifest.Package{Name: "t"})
	require.NoError(t, err)
	assert.True(t, info.IsNone())
	assert.Equal(t, "NONE", info.String())
}

func TestResolveUnreadableLicenseFile(t *testing.T) {
	pkg := &manifest.Package{Name: "t", Root: t.TempDir(), LicenseFile: "LICENSE"}

	info, err := Resolve("", pkg)
	require.NoError(t, err)
	assert.True(t, info.IsNone())
}
