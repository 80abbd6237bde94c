// Package app wires the configuration into a running light fleet. Both the
// HTTP API and the MCP server are built on it.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/config"
	"github.com/urmzd/ledhub/pkg/db"
	"github.com/urmzd/ledhub/pkg/fleet"
	"github.com/urmzd/ledhub/pkg/hexled"
	"github.com/urmzd/ledhub/pkg/keyval"
	"github.com/urmzd/ledhub/pkg/magichome"
	"github.com/urmzd/ledhub/pkg/serialled"
)

// SetupLogging configures the global logger. Output always goes to w,
// which must be stderr for the MCP server since stdout is its transport.
func SetupLogging(cfg config.LogConfig, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSON {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: !cfg.Colors, TimeFormat: time.TimeOnly})
}

// DefaultLogConfig is used until the configuration file is read.
func DefaultLogConfig() config.LogConfig {
	return config.LogConfig{Level: "info", Colors: true}
}

// App holds the long-lived services.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Registry *fleet.Registry
	Fleet    *fleet.Fleet
	Scanner  *fleet.Scanner
	Values   *keyval.Store
	MQTT     *keyval.MQTTPublisher // nil when no broker is configured
}

// New opens the database, seeds the zones on first run and builds the
// fleet. Scanning starts with Run.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Info().Str("path", database.Path()).Msg("Database opened")

	a := &App{Config: cfg, DB: database}
	if err := a.init(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	if err := a.DB.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	needsBootstrap, err := a.DB.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("check bootstrap status: %w", err)
	}
	if needsBootstrap {
		log.Info().Int("zones", len(cfg.Zones)).Msg("First run detected, seeding zones from configuration")
		if err := a.DB.Bootstrap(ctx, cfg.Zones); err != nil {
			return fmt.Errorf("bootstrap database: %w", err)
		}
	}

	zones, err := a.DB.Zones().All(ctx)
	if err != nil {
		return fmt.Errorf("load zones: %w", err)
	}

	a.Values = keyval.NewStore(a.DB.KeyValues())
	sink := keyval.Multi{a.Values}

	if cfg.MQTT.Broker != "" {
		pub, err := keyval.DialMQTT(keyval.MQTTOptions{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			QoS:         cfg.MQTT.QoS,
		})
		if err != nil {
			// The lights still work without the broker.
			log.Warn().Err(err).Str("broker", cfg.MQTT.Broker).Msg("MQTT unavailable, mirroring to the database only")
		} else {
			a.MQTT = pub
			sink = append(sink, pub)
		}
	}

	a.Registry = fleet.NewRegistry(zones)
	a.Fleet = fleet.New(a.Registry, fleet.Options{Mirrors: cfg.Mirrors, Sink: sink})

	if a.MQTT != nil {
		err := a.MQTT.HandleSets(func(ctx context.Context, key, value string) error {
			res, err := a.Fleet.ApplyNamedValue(ctx, key, value)
			if err != nil {
				return err
			}
			return res.Err()
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to subscribe to MQTT set topics")
		}
	}

	a.Scanner = fleet.NewScanner(a.Registry, Sources(cfg), fleet.ScanOptions{
		RescanInterval: cfg.Scan.RescanInterval.Duration(),
		RetryDelay:     cfg.Scan.RetryDelay.Duration(),
		RefreshEvery:   cfg.Scan.RefreshEvery.Duration(),
	})

	log.Info().
		Int("zones", len(zones)).
		Int("mirrors", len(cfg.Mirrors)).
		Bool("debug", cfg.Debug).
		Bool("mqtt", a.MQTT != nil).
		Msg("Fleet configured")
	return nil
}

// Sources builds the backend sources from the configuration.
func Sources(cfg *config.Config) []fleet.Source {
	mh := cfg.MagicHome
	magic := fleet.MagicHomeSource(fleet.MagicHomeConfig{
		Discoverer:      magichome.Discoverer{Target: mh.Broadcast},
		ScanTimeout:     mh.ScanTimeout.Duration(),
		FastScanTimeout: mh.FastScanTimeout.Duration(),
		Fast:            cfg.Debug,
		Port:            mh.Port,
		CommandTimeout:  mh.CommandTimeout.Duration(),
		Client: magichome.Options{
			QueryCache:       mh.QueryCache.Duration(),
			ReconcileTimeout: mh.CommandTimeout.Duration(),
		},
		Names: mh.Names,
	})

	sc := cfg.Serial
	serial := fleet.SerialSource(fleet.SerialConfig{
		ID:   sc.ID,
		Port: sc.Port,
		Baud: sc.Baud,
		Options: serialled.Options{
			SettleDelay:      sc.SettleDelay.Duration(),
			ConnectTimeout:   sc.ConnectTimeout.Duration(),
			ManualInterval:   sc.ManualInterval.Duration(),
			HandshakeTimeout: sc.HandshakeTimeout.Duration(),
			PingTimeout:      sc.PingTimeout.Duration(),
		},
		FastConnectTimeout: sc.DebugConnectTimeout.Duration(),
		Fast:               cfg.Debug,
	})

	hex := fleet.HexSource(fleet.HexConfig{
		ID:      cfg.Hex.ID,
		Address: cfg.Hex.Address,
		Options: hexled.Options{
			RequestTimeout: cfg.Hex.RequestTimeout.Duration(),
			VerifyTimeout:  cfg.Hex.VerifyTimeout.Duration(),
		},
	})

	return []fleet.Source{magic, serial, hex}
}

// Run scans at startup and then periodically until ctx is done.
func (a *App) Run(ctx context.Context) {
	a.Scanner.Run(ctx)
}

// Close stops fades, closes every client and releases the broker and the
// database.
func (a *App) Close() error {
	a.Fleet.CancelFade()

	for _, c := range a.Registry.All() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("client", c.ID()).Msg("Failed to close client")
		}
	}

	if a.MQTT != nil {
		if err := a.MQTT.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close MQTT connection")
		}
	}
	return a.DB.Close()
}

// LoadConfig loads path and applies command line overrides.
func LoadConfig(path, dbPath string, debug bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, nil
}
