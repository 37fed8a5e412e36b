package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renwickholm/starkverify/internal/manifest"
)

func TestPickTarget(t *testing.T) {
	targets := []manifest.Target{
		{Name: "Counter", Path: "src/counter.cairo"},
		{Name: "Token", Path: "src/token.cairo"},
	}

	got, err := pickTarget(targets, "Token")
	require.NoError(t, err)
	assert.Equal(t, "src/token.cairo", got.Path)

	_, err = pickTarget(targets, "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing")

	// Ambiguous without a name.
	_, err = pickTarget(targets, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--contract")

	// Unambiguous with a single target.
	got, err = pickTarget(targets[:1], "")
	require.NoError(t, err)
	assert.Equal(t, "Counter", got.Name)
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "t", "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "t", "Scarb.toml"), []byte("[package]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "t", "src", "lib.cairo"), []byte("mod x;\n"), 0o644))

	files, err := collectFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	byName := make(map[string]string)
	for _, f := range files {
		byName[f.Name] = string(f.Content)
	}
	assert.Equal(t, "[package]\n", byName["t/Scarb.toml"])
	assert.Equal(t, "mod x;\n", byName["t/src/lib.cairo"])
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0x01", shortHash("0x01"))

	long := "0x044dc2b3239382230d8b1e943df23b96f52eebcac93efe6e8bde92f9a2f1da18"
	short := shortHash(long)
	assert.Contains(t, short, "...")
	assert.Less(t, len(short), len(long))
}

func TestLoadConfigRejectsBadNetworkFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	flagNetwork = "goerli"
	defer func() { flagNetwork = "" }()

	_, err := loadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goerli")
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	flagNetwork = "mainnet"
	flagURL = "http://localhost:9000"
	flagVerbose = true
	defer func() { flagNetwork, flagURL, flagVerbose = "", "", false }()

	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)

	u, err := cfg.Network.APIURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", u)
}
