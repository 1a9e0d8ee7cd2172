package names

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	n, err := Load(strings.NewReader(`
thermostats:
  1: Main Floor
zones:
  10: Living Room
  11: Kitchen
`))
	require.NoError(t, err)

	assert.Equal(t, "Main Floor", n.Thermostat(1, "Downstairs"))
	assert.Equal(t, "Upstairs", n.Thermostat(2, "Upstairs"))
	assert.Equal(t, "Living Room", n.Zone(10, "Zone 1"))
	assert.Equal(t, "Bedroom", n.Zone(20, "Bedroom"))
}

func TestLoad_Empty(t *testing.T) {
	n, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "fallback", n.Zone(1, "fallback"))
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(strings.NewReader("zones: [not, a, map]"))
	assert.Error(t, err)
}

func TestMaybeLoadFile(t *testing.T) {
	dir := t.TempDir()

	// missing file is fine
	n, err := MaybeLoadFile(filepath.Join(dir, "names.yaml"))
	require.NoError(t, err)
	assert.Empty(t, n.Zones)

	path := filepath.Join(dir, "names.yaml")
	require.NoError(t, os.WriteFile(path, []byte("zones:\n  10: Living Room\n"), 0o644))
	n, err = MaybeLoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Living Room", n.Zone(10, ""))
}
