package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:8080", cfg.API.Address)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, 10*time.Second, cfg.Serial.HandshakeTimeout.Duration())
	assert.Equal(t, 10*time.Second, cfg.MagicHome.ScanTimeout.Duration())
	assert.Equal(t, 250*time.Millisecond, cfg.MagicHome.FastScanTimeout.Duration())
	assert.Equal(t, 5577, cfg.MagicHome.Port)
	assert.Equal(t, time.Hour, cfg.Scan.RescanInterval.Duration())
	assert.Equal(t, time.Minute, cfg.Scan.RetryDelay.Duration())
	assert.Empty(t, cfg.Hex.Address)
	assert.Empty(t, cfg.MQTT.Broker)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
debug: true
serial:
  port: /dev/ttyUSB0
  handshake_timeout: 3s
hex:
  address: 192.168.1.50
magichome:
  names:
    192.168.1.20: bed
    192.168.1.21: desk
scan:
  retry_delay: 30s
zones:
  desk: [desk, hexagon]
mirrors:
  ceiling: [ceilingled]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 3*time.Second, cfg.Serial.HandshakeTimeout.Duration())
	assert.Equal(t, "192.168.1.50", cfg.Hex.Address)
	assert.Equal(t, "bed", cfg.MagicHome.Names["192.168.1.20"])
	assert.Equal(t, 30*time.Second, cfg.Scan.RetryDelay.Duration())
	assert.Equal(t, []string{"desk", "hexagon"}, cfg.Zones["desk"])
	assert.Equal(t, []string{"ceilingled"}, cfg.Mirrors["ceiling"])
	// Unset keys still get defaults.
	assert.Equal(t, time.Hour, cfg.Scan.RescanInterval.Duration())
}

func TestEnvExpansion(t *testing.T) {
	t.Setenv("LEDHUB_BROKER", "tcp://broker:1883")
	path := writeConfig(t, `
mqtt:
  broker: ${LEDHUB_BROKER}
  username: ${LEDHUB_MQTT_USER:hub}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "hub", cfg.MQTT.Username)
}

func TestInvalidDuration(t *testing.T) {
	path := writeConfig(t, "scan:\n  retry_delay: soon\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
