// Package config loads the ledhub YAML configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	Debug     bool            `yaml:"debug"` // fast discovery at startup
	Serial    SerialConfig    `yaml:"serial"`
	Hex       HexConfig       `yaml:"hex"`
	MagicHome MagicHomeConfig `yaml:"magichome"`
	Scan      ScanConfig      `yaml:"scan"`
	MQTT      MQTTConfig      `yaml:"mqtt"`

	// Zones maps a zone name to the client ids it contains.
	Zones map[string][]string `yaml:"zones"`
	// Mirrors maps a client id to the keys mirroring its power state.
	Mirrors map[string][]string `yaml:"mirrors"`

	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	JSON   bool   `yaml:"json"`
	Colors bool   `yaml:"colors"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type APIConfig struct {
	Address string `yaml:"address"`
}

type SerialConfig struct {
	ID string `yaml:"id"`
	// Port is the device path; empty picks the first port present.
	Port                string   `yaml:"port"`
	Baud                int      `yaml:"baud"`
	SettleDelay         Duration `yaml:"settle_delay"`
	ConnectTimeout      Duration `yaml:"connect_timeout"`
	DebugConnectTimeout Duration `yaml:"debug_connect_timeout"`
	ManualInterval      Duration `yaml:"manual_interval"`
	HandshakeTimeout    Duration `yaml:"handshake_timeout"`
	PingTimeout         Duration `yaml:"ping_timeout"`
}

type HexConfig struct {
	ID             string   `yaml:"id"`
	Address        string   `yaml:"address"` // empty disables the backend
	VerifyTimeout  Duration `yaml:"verify_timeout"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

type MagicHomeConfig struct {
	ScanTimeout     Duration `yaml:"scan_timeout"`
	FastScanTimeout Duration `yaml:"fast_scan_timeout"`
	Broadcast       string   `yaml:"broadcast"`
	Port            int      `yaml:"port"`
	CommandTimeout  Duration `yaml:"command_timeout"`
	QueryCache      Duration `yaml:"query_cache"`
	// Names maps a controller IP to a client id.
	Names map[string]string `yaml:"names"`
}

type ScanConfig struct {
	RescanInterval Duration `yaml:"rescan_interval"`
	RetryDelay     Duration `yaml:"retry_delay"`
	RefreshEvery   Duration `yaml:"refresh_every"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"` // empty disables MQTT
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := Parse(data, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Parse decodes YAML data into cfg after expanding environment variables.
func Parse(data []byte, cfg *Config) error {
	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (cfg *Config) setDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.API.Address == "" {
		cfg.API.Address = "0.0.0.0:8080"
	}

	// Serial defaults
	if cfg.Serial.ID == "" {
		cfg.Serial.ID = "ceiling"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Serial.SettleDelay == 0 {
		cfg.Serial.SettleDelay = Duration(2500 * time.Millisecond)
	}
	if cfg.Serial.ConnectTimeout == 0 {
		cfg.Serial.ConnectTimeout = Duration(60 * time.Second)
	}
	if cfg.Serial.DebugConnectTimeout == 0 {
		cfg.Serial.DebugConnectTimeout = Duration(5 * time.Second)
	}
	if cfg.Serial.ManualInterval == 0 {
		cfg.Serial.ManualInterval = Duration(500 * time.Millisecond)
	}
	if cfg.Serial.HandshakeTimeout == 0 {
		cfg.Serial.HandshakeTimeout = Duration(10 * time.Second)
	}
	if cfg.Serial.PingTimeout == 0 {
		cfg.Serial.PingTimeout = Duration(time.Second)
	}

	// HTTP strip defaults
	if cfg.Hex.ID == "" {
		cfg.Hex.ID = "hexagon"
	}
	if cfg.Hex.VerifyTimeout == 0 {
		cfg.Hex.VerifyTimeout = Duration(3 * time.Second)
	}
	if cfg.Hex.RequestTimeout == 0 {
		cfg.Hex.RequestTimeout = Duration(5 * time.Second)
	}

	// MagicHome defaults
	if cfg.MagicHome.ScanTimeout == 0 {
		cfg.MagicHome.ScanTimeout = Duration(10 * time.Second)
	}
	if cfg.MagicHome.FastScanTimeout == 0 {
		cfg.MagicHome.FastScanTimeout = Duration(250 * time.Millisecond)
	}
	if cfg.MagicHome.Broadcast == "" {
		cfg.MagicHome.Broadcast = "255.255.255.255:48899"
	}
	if cfg.MagicHome.Port == 0 {
		cfg.MagicHome.Port = 5577
	}
	if cfg.MagicHome.CommandTimeout == 0 {
		cfg.MagicHome.CommandTimeout = Duration(3 * time.Second)
	}
	if cfg.MagicHome.QueryCache == 0 {
		cfg.MagicHome.QueryCache = Duration(100 * time.Millisecond)
	}

	// Scan defaults
	if cfg.Scan.RescanInterval == 0 {
		cfg.Scan.RescanInterval = Duration(60 * time.Minute)
	}
	if cfg.Scan.RetryDelay == 0 {
		cfg.Scan.RetryDelay = Duration(60 * time.Second)
	}
	if cfg.Scan.RefreshEvery == 0 {
		cfg.Scan.RefreshEvery = Duration(5 * time.Second)
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "ledhub"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "ledhub"
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if val := os.Getenv(parts[1]); val != "" {
			return val
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}
