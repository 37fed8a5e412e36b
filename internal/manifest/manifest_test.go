package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Scarb.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	path := writeManifest(t, `[package]
name = "token"
version = "0.1.0"
license = "MIT"
readme = "README.md"

[dependencies]
starknet = "2.6.0"
utils = { path = "../utils" }

[tool.voyager]
erc20 = { path = "src/erc20.cairo" }
erc721 = { path = "src/erc721.cairo" }
`)

	pkg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "token", pkg.Name)
	assert.Equal(t, filepath.Dir(path), pkg.Root)
	assert.Equal(t, "MIT", pkg.License)
	assert.Equal(t, "README.md", pkg.Readme)
	assert.Equal(t, []string{"starknet", "utils"}, pkg.Dependencies)

	targets, err := pkg.VerifyTargets()
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, Target{Name: "erc20", Path: "src/erc20.cairo"}, targets[0])
	assert.Equal(t, Target{Name: "erc721", Path: "src/erc721.cairo"}, targets[1])
}

func TestParseMissingName(t *testing.T) {
	path := writeManifest(t, `[package]
version = "0.1.0"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package name missing")
}

func TestVerifyTargetsMissingSection(t *testing.T) {
	path := writeManifest(t, `[package]
name = "token"
version = "0.1.0"
`)

	pkg, err := Load(path)
	require.NoError(t, err)

	_, err = pkg.VerifyTargets()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingToolSection)
}

func TestParseTargetWithoutPath(t *testing.T) {
	path := writeManifest(t, `[package]
name = "token"
version = "0.1.0"

[tool.voyager]
erc20 = { name = "wrong-key" }
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no path")
}

func TestRewrite(t *testing.T) {
	path := writeManifest(t, `[package]
name = "token"
version = "0.1.0"

[dependencies]
starknet = "2.6.0"
utils = { path = "/abs/elsewhere/utils" }
unused = { git = "https://example.com/unused.git" }
`)

	pkg, err := Load(path)
	require.NoError(t, err)

	out, err := Rewrite(pkg, map[string]bool{"token": true, "utils": true})
	require.NoError(t, err)

	reparsed, err := Parse(path, out)
	require.NoError(t, err)
	assert.Equal(t, "token", reparsed.Name)
	assert.Equal(t, []string{"starknet", "utils"}, reparsed.Dependencies)

	text := string(out)
	// The builtin keeps its version requirement, the retained dep is
	// repointed at a sibling directory, the rest is gone.
	assert.Contains(t, text, `starknet = "2.6.0"`)
	assert.Contains(t, text, `path = "../utils"`)
	assert.NotContains(t, text, "git")
}

func TestRewriteDeterministic(t *testing.T) {
	path := writeManifest(t, `[package]
name = "token"
version = "0.1.0"

[dependencies]
b = { path = "../b" }
a = { path = "../a" }
c = { path = "../c" }
`)

	pkg, err := Load(path)
	require.NoError(t, err)

	required := map[string]bool{"token": true, "a": true, "b": true, "c": true}
	first, err := Rewrite(pkg, required)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Rewrite(pkg, required)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRewriteNoDependencies(t *testing.T) {
	path := writeManifest(t, `[package]
name = "token"
version = "0.1.0"
`)

	pkg, err := Load(path)
	require.NoError(t, err)

	out, err := Rewrite(pkg, map[string]bool{"token": true})
	require.NoError(t, err)
	assert.Contains(t, string(out), `name = "token"`)
}
