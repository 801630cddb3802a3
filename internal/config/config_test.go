package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attitude_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
# render loop
TICK_INTERVAL=33
SMOOTHING_ALPHA=0.5
EULER_ORDER=xyz

SERIAL_PORT=/dev/ttyUSB0
TRAIL_LENGTH=20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 33, cfg.TickInterval)
	assert.Equal(t, 0.5, cfg.SmoothingAlpha)
	assert.Equal(t, "xyz", cfg.EulerOrder)
	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	assert.Equal(t, 20, cfg.TrailLength)

	// Untouched keys keep their defaults.
	assert.Equal(t, uint(115200), cfg.SerialBaudRate)
	assert.Equal(t, "attitude/frame", cfg.TopicFrame)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "NOT_A_KEY=1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	path := writeConfig(t, "TICK_INTERVAL\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTrailLengthMustFitCapacity(t *testing.T) {
	path := writeConfig(t, "TRAIL_CAPACITY=10\nTRAIL_LENGTH=11\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRAIL_LENGTH")
}

func TestInvalidEulerOrderRejected(t *testing.T) {
	path := writeConfig(t, "EULER_ORDER=zxz\n")

	_, err := Load(path)
	assert.Error(t, err)
}
