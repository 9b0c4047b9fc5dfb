package cli

import (
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/pingboard/internal/config"
	"github.com/rileyhilliard/pingboard/internal/logger"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/probe"
	"github.com/rileyhilliard/pingboard/internal/ui"
	"github.com/spf13/cobra"
)

// ProbeFlags holds the probe tuning flags shared by the root and once commands.
type ProbeFlags struct {
	Interval    time.Duration
	Timeout     time.Duration
	Method      string
	Port        int
	Concurrency int
}

// AddProbeFlags registers --interval, --timeout, --method, --port, and
// --concurrency on a command.
func AddProbeFlags(cmd *cobra.Command, flags *ProbeFlags) {
	cmd.Flags().DurationVar(&flags.Interval, "interval", time.Second, "idle time between probe passes (e.g., 1s, 500ms)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 3*time.Second, "per-probe timeout (e.g., 3s)")
	cmd.Flags().StringVar(&flags.Method, "method", config.MethodAuto, "probe method: auto, icmp, or tcp")
	cmd.Flags().IntVar(&flags.Port, "port", probe.DefaultTCPPort, "port dialed by the tcp method")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", monitor.DefaultConcurrency, "targets probed at once")
}

// ApplyTo copies flags the user set explicitly onto cfg. Defaults never
// override values from the config file or environment.
func (f *ProbeFlags) ApplyTo(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("interval") {
		cfg.Interval = f.Interval
	}
	if changed("timeout") {
		cfg.Timeout = f.Timeout
	}
	if changed("method") {
		cfg.Probe.Method = strings.ToLower(f.Method)
	}
	if changed("port") {
		cfg.Probe.TCPPort = f.Port
	}
	if changed("concurrency") {
		cfg.Concurrency = f.Concurrency
	}
}

// watchFlags extends ProbeFlags with the flags only the live panel has.
type watchFlags struct {
	ProbeFlags
	Plain   bool
	LogFile string
}

func addWatchFlags(cmd *cobra.Command, flags *watchFlags) {
	AddProbeFlags(cmd, &flags.ProbeFlags)
	cmd.Flags().BoolVar(&flags.Plain, "plain", false, "print one line per result instead of the panel")
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "write logs here while the panel is open")
}

// loadSettings resolves the effective config for cmd: file and environment
// first, then explicit flags, validated as a whole.
func loadSettings(cmd *cobra.Command, flags *ProbeFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}

	flags.ApplyTo(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	switch {
	case cfg.Output.Color == config.ColorNever:
		ui.DisableColors()
	case cfg.Output.Color == config.ColorAlways && !colorsOverridden():
		ui.ForceColors()
	}
	return cfg, nil
}

// colorsOverridden reports whether --no-color or NO_COLOR asked for plain
// output, which beats any config setting.
func colorsOverridden() bool {
	return noColor || os.Getenv("NO_COLOR") != ""
}

// monitorOptions maps validated config onto loop options.
func monitorOptions(cfg *config.Config, log logger.Logger) monitor.Options {
	return monitor.Options{
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		Concurrency: cfg.Concurrency,
		Logger:      log,
	}
}

// newProber builds the prober cfg asks for and reports the method in use.
func newProber(cfg *config.Config, log logger.Logger) (probe.Prober, string, error) {
	return probe.New(probe.Config{
		Method:  cfg.Probe.Method,
		TCPPort: cfg.Probe.TCPPort,
		Logger:  log,
	})
}
