package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/hexled"
	"github.com/urmzd/ledhub/pkg/light"
	"github.com/urmzd/ledhub/pkg/magichome"
	"github.com/urmzd/ledhub/pkg/serialled"
)

// MagicHomeConfig configures controller discovery.
type MagicHomeConfig struct {
	Discoverer magichome.Discoverer
	// ScanTimeout bounds a scan; FastScanTimeout replaces it for the
	// startup scan in fast mode.
	ScanTimeout     time.Duration
	FastScanTimeout time.Duration
	Fast            bool
	Port            int
	CommandTimeout  time.Duration
	Client          magichome.Options
	// Names maps a controller IP to a client id.
	Names map[string]string
}

// MagicHomeSource discovers controllers by broadcast. Every scan replaces
// the controller list with what answered.
func MagicHomeSource(cfg MagicHomeConfig) Source {
	return Source{
		Backend:      light.BackendMagicHome,
		RetryOnEmpty: true,
		Scan: func(ctx context.Context, _ []light.Client, first bool) ([]light.Client, error) {
			timeout := cfg.ScanTimeout
			if first && cfg.Fast {
				timeout = cfg.FastScanTimeout
			}
			found, err := cfg.Discoverer.Scan(ctx, timeout)
			if err != nil {
				return nil, err
			}
			clients := make([]light.Client, 0, len(found))
			for _, f := range found {
				id, ok := cfg.Names[f.Address]
				if !ok {
					log.Warn().Str("ip", f.Address).Str("mac", f.ID).Msg("Found controller without a configured name")
					id = f.Address
				}
				control := magichome.NewControl(f.Address, cfg.Port, cfg.CommandTimeout)
				clients = append(clients, magichome.NewClient(id, f.Address, control, cfg.Client))
			}
			return clients, nil
		},
	}
}

// SerialConfig configures the serial LED board.
type SerialConfig struct {
	ID string
	// Port is the device path; empty picks the first serial port present.
	Port    string
	Baud    int
	Options serialled.Options
	// FastConnectTimeout replaces Options.ConnectTimeout in fast mode.
	FastConnectTimeout time.Duration
	Fast               bool
}

// SerialSource connects the serial board. A live board that still answers
// is kept; only a missing or silent board triggers a new connection.
func SerialSource(cfg SerialConfig) Source {
	return Source{
		Backend:      light.BackendSerial,
		RetryOnEmpty: true,
		Scan: func(ctx context.Context, current []light.Client, _ bool) ([]light.Client, error) {
			for _, c := range current {
				if sc, ok := c.(*serialled.Client); ok && sc.Board().Ping(ctx) {
					return current, nil
				}
			}

			path := cfg.Port
			if path == "" {
				ports, err := serialled.ListPorts()
				if err != nil {
					return nil, fmt.Errorf("%w: list serial ports: %v", light.ErrConnectionUnavailable, err)
				}
				if len(ports) == 0 {
					return nil, nil
				}
				path = ports[0]
			}

			port, err := serialled.OpenSerial(path, cfg.Baud)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", light.ErrConnectionUnavailable, err)
			}
			opts := cfg.Options
			if cfg.Fast && cfg.FastConnectTimeout > 0 {
				opts.ConnectTimeout = cfg.FastConnectTimeout
			}
			board, err := serialled.Connect(ctx, port, path, opts)
			if err != nil {
				return nil, err
			}
			return []light.Client{serialled.NewClient(cfg.ID, board)}, nil
		},
	}
}

// HexConfig configures the HTTP strip.
type HexConfig struct {
	ID      string
	Address string
	Options hexled.Options
}

// HexSource yields the configured HTTP strip, or nothing when no address
// is set. An existing client for the same address is kept.
func HexSource(cfg HexConfig) Source {
	return Source{
		Backend: light.BackendHTTP,
		Scan: func(_ context.Context, current []light.Client, _ bool) ([]light.Client, error) {
			if cfg.Address == "" {
				return nil, nil
			}
			for _, c := range current {
				if c.Address() == cfg.Address {
					return current, nil
				}
			}
			return []light.Client{hexled.NewClient(cfg.ID, cfg.Address, cfg.Options)}, nil
		},
	}
}
