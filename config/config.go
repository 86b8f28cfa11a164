// Package config handles the optional intcode.toml run configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/network"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "intcode.toml"

type Config struct {
	Log       Log       `toml:"log"`
	Network   Network   `toml:"network"`
	Trace     Trace     `toml:"trace"`
	Telemetry Telemetry `toml:"telemetry"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

type Log struct {
	Level   string `toml:"level"`
	Modules string `toml:"modules"`
	JSON    bool   `toml:"json"`
}

type Network struct {
	Nodes     int    `toml:"nodes"`
	Gateway   int    `toml:"gateway"`
	MaxPasses int    `toml:"max_passes"`
	Scheduler string `toml:"scheduler"`
}

// Trace enables the JSONL execution trace when Path is set.
type Trace struct {
	Path string `toml:"path"`
}

// Telemetry exports spans over OTLP/HTTP when Endpoint is set and appends
// structured event lines to Log when that is set.
type Telemetry struct {
	Endpoint    string `toml:"endpoint"`
	ServiceName string `toml:"service_name"`
	Log         string `toml:"log"`
}

func Default() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Network: Network{
			Nodes:     network.DefaultNodes,
			Gateway:   network.DefaultGateway,
			MaxPasses: network.DefaultMaxPasses,
			Scheduler: "roundrobin",
		},
		Telemetry: Telemetry{ServiceName: "intcode"},
	}
}

// Load overlays the file at path on the defaults. An empty path loads
// DefaultFile if it exists and the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Warn(log.CLIMonitoring, "unknown config key", "file", path, "key", key.String())
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := network.NewScheduler(c.Network.Scheduler); err != nil {
		return err
	}
	if c.Network.Nodes < 1 || c.Network.Nodes > c.Network.Gateway {
		return fmt.Errorf("network.nodes must be in 1..%d, got %d", c.Network.Gateway, c.Network.Nodes)
	}
	if c.Network.MaxPasses < 0 {
		return fmt.Errorf("network.max_passes must not be negative, got %d", c.Network.MaxPasses)
	}
	return nil
}

// NetworkConfig converts the [network] section.
func (c *Config) NetworkConfig() network.Config {
	return network.Config{
		Nodes:     c.Network.Nodes,
		Gateway:   c.Network.Gateway,
		MaxPasses: c.Network.MaxPasses,
	}
}
