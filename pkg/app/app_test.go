package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/ledhub/pkg/config"
	"github.com/urmzd/ledhub/pkg/light"
)

func TestNewSeedsZonesOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledhub.db")

	cfg, err := LoadConfig("", path, false)
	require.NoError(t, err)
	cfg.Zones = map[string][]string{"bedroom": {"ceiling", "hexagon"}}

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"ceiling", "hexagon"}, a.Registry.Zones()["bedroom"])
	assert.Nil(t, a.MQTT)
	require.NoError(t, a.Close())

	// A changed configuration does not overwrite zones already stored.
	cfg.Zones = map[string][]string{"office": {"desk"}}
	a, err = New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	zones := a.Registry.Zones()
	assert.Contains(t, zones, "bedroom")
	assert.NotContains(t, zones, "office")
}

func TestSourcesCoverEveryBackend(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	var backends []light.Backend
	for _, src := range Sources(cfg) {
		backends = append(backends, src.Backend)
	}
	assert.ElementsMatch(t, []light.Backend{light.BackendMagicHome, light.BackendSerial, light.BackendHTTP}, backends)
}

func TestHexSourceDisabledWithoutAddress(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	for _, src := range Sources(cfg) {
		if src.Backend != light.BackendHTTP {
			continue
		}
		clients, err := src.Scan(context.Background(), nil, true)
		require.NoError(t, err)
		assert.Empty(t, clients)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: /tmp/from-file.db\n"), 0o600))

	cfg, err := LoadConfig(path, "", false)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-file.db", cfg.Database.Path)
	assert.False(t, cfg.Debug)

	cfg, err = LoadConfig(path, "/tmp/flag.db", true)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.Database.Path)
	assert.True(t, cfg.Debug)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "", false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetupLoggingJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	SetupLogging(config.LogConfig{Level: "warn", JSON: true}, &buf)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	SetupLogging(config.LogConfig{Level: "nonsense"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
