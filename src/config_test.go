package mt63

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	var path = filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_DefaultConfig(t *testing.T) {
	var c = DefaultConfig()

	require.NoError(t, c.Validate())
	assert.Equal(t, 1000, c.Bandwidth)
	assert.Equal(t, 16, c.Integration)
	assert.Equal(t, shortInterleave, c.Depth())
	assert.Equal(t, 64, c.MaxCode())
}

func Test_LoadConfig(t *testing.T) {
	var path = writeFile(t, "mt63.yaml", `
bandwidth: 2000
long_interleave: true
integration: 8
tx_level: -6
ptt:
  device: /dev/ttyUSB0
  line: DTR
  invert: true
`)

	var c, err = LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2000, c.Bandwidth)
	assert.True(t, c.LongInterleave)
	assert.Equal(t, 8, c.Integration)
	assert.InDelta(t, -6, c.TxLevel, 0)
	assert.Equal(t, 128, c.MaxCode())
	assert.Equal(t, PTTConfig{Device: "/dev/ttyUSB0", Line: "DTR", Invert: true}, c.PTT)

	// Left out, so still the default.
	assert.InDelta(t, 8.0, c.Squelch, 0)
	assert.InDelta(t, 0.95, c.SigLimit, 0)
}

func Test_LoadConfig_Invalid(t *testing.T) {
	var path = writeFile(t, "bad.yaml", "bandwidth: 1500\nintegration: 7\nsig_limit: 2\n")

	var _, err = LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBandwidth)
	assert.ErrorIs(t, err, ErrInvalidIntegration)
	assert.Contains(t, err.Error(), "sig_limit")
}

func Test_LoadConfig_Missing(t *testing.T) {
	var _, err = LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func Test_LoadConfig_NotYAML(t *testing.T) {
	var path = writeFile(t, "junk.yaml", "bandwidth: [1, 2\n")

	var _, err = LoadConfig(path)
	assert.Error(t, err)
}
