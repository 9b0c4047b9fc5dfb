package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/pingboard/internal/dashboard"
	"github.com/rileyhilliard/pingboard/internal/logger"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/targets"
	"github.com/spf13/cobra"
)

// watchCommand runs the live panel until the user quits or a signal arrives.
func watchCommand(cmd *cobra.Command, flags *watchFlags) error {
	cfg, err := loadSettings(cmd, &flags.ProbeFlags)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = flags.LogFile
	}

	log := logger.NewEnvLogger("[pingboard]")

	prober, method, err := newProber(cfg, log)
	if err != nil {
		return err
	}
	log.Debug("probing with %s every %s (timeout %s, concurrency %d)",
		method, cfg.Interval, cfg.Timeout, cfg.Concurrency)

	loop := monitor.NewLoop(prober, monitorOptions(cfg, log))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return dashboard.Run(ctx, loop, targets.Catalog(), dashboard.RunOptions{
		Output:  cmd.OutOrStdout(),
		Plain:   flags.Plain,
		LogFile: cfg.LogFile,
		Method:  method,
	})
}
