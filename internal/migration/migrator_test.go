package migration

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/weathr/internal/fsys"
)

func writeLegacy(t *testing.T, files map[string]string) string {
	t.Helper()
	legacy := LegacyDir(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(legacy, "cache", "x"), 0o750))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(legacy, name), []byte(content), 0o600))
	}
	return legacy
}

func TestLegacyDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u", ".config", "weathr"), LegacyDir("/home/u"))
}

func TestDetectLegacy(t *testing.T) {
	legacy := writeLegacy(t, nil)
	target := filepath.Join(t.TempDir(), "weathr")

	assert.True(t, DetectLegacy(legacy, target))
	assert.False(t, DetectLegacy(legacy, legacy), "same directory")
	assert.False(t, DetectLegacy(legacy, ""), "no target")
	assert.False(t, DetectLegacy(filepath.Join(t.TempDir(), "absent"), target), "no legacy directory")

	require.NoError(t, os.MkdirAll(target, 0o750))
	assert.False(t, DetectLegacy(legacy, target), "target already in use")
}

func TestRunMigration(t *testing.T) {
	legacy := writeLegacy(t, map[string]string{
		"properties.json": `{"gridId":"TOP"}`,
		"config.yaml":     "output:\n  unit: C\n",
	})
	target := filepath.Join(t.TempDir(), "Application Support", "weathr")

	var out bytes.Buffer
	require.NoError(t, RunMigration(&out, fsys.OS{}, legacy, target))
	assert.Contains(t, out.String(), "properties.json")

	data, err := os.ReadFile(filepath.Join(target, "properties.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"gridId":"TOP"}`, string(data))

	_, err = os.Stat(filepath.Join(target, "cache"))
	assert.True(t, os.IsNotExist(err), "cached responses are not copied")

	_, err = os.Stat(filepath.Join(legacy, "properties.json"))
	assert.NoError(t, err, "the legacy copy is preserved")

	out.Reset()
	require.NoError(t, RunMigration(&out, fsys.OS{}, legacy, target))
	assert.Empty(t, out.String(), "runs once")
}

func TestRunMigrationNothingToCopy(t *testing.T) {
	legacy := writeLegacy(t, nil)
	target := filepath.Join(t.TempDir(), "weathr")

	var out bytes.Buffer
	require.NoError(t, RunMigration(&out, fsys.OS{}, legacy, target))
	assert.Empty(t, out.String())

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}
