package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Probe methods accepted by probe.method.
const (
	MethodAuto = "auto"
	MethodICMP = "icmp"
	MethodTCP  = "tcp"
)

// Color modes accepted by output.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete .pingboard.yaml configuration file.
// Every field is optional; anything left out falls back to DefaultConfig.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Interval is the idle time between the end of one probe pass and
	// the start of the next.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds a single probe, including name resolution.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Concurrency caps how many targets are probed at once. 1 probes
	// targets one after another.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	Probe  ProbeConfig  `yaml:"probe" mapstructure:"probe"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// LogFile receives log output while the dashboard owns the terminal.
	// Empty discards it.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// ProbeConfig selects and tunes the probe method.
type ProbeConfig struct {
	// Method is "auto", "icmp", or "tcp".
	// "auto" prefers ICMP echo and falls back to TCP connect timing when
	// no ICMP socket can be opened.
	Method string `yaml:"method" mapstructure:"method"`

	// TCPPort is the port dialed by the TCP probe.
	TCPPort int `yaml:"tcp_port" mapstructure:"tcp_port"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:     CurrentConfigVersion,
		Interval:    time.Second,
		Timeout:     3 * time.Second,
		Concurrency: 8,
		Probe: ProbeConfig{
			Method:  MethodAuto,
			TCPPort: 443,
		},
		Output: OutputConfig{
			Color: ColorAuto,
		},
	}
}
