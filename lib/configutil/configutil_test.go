package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{name: "base", count: 3}`), 0666))

	config, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "base", config.Name)
	require.Equal(t, 3, config.Count)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "app.json5"),
		[]byte(`{name: "base", count: 3}`), 0666,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "app.local.json5"),
		[]byte(`{name: "override"}`), 0666,
	))

	config, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.Equal(t, "override", config.Name)
	// fields absent from the local file keep their base value
	require.Equal(t, 3, config.Count)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "app.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
