package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rileyhilliard/pingboard/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

// rootFlags holds the flags of the live panel.
var rootFlags watchFlags

// rootCmd runs the live panel when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "pingboard",
	Short: "Live latency panel for a fixed set of hosts",
	Long: `Probe a built-in list of hosts on a fixed interval and show each one's
latest latency, colored by quality.

Results under 100ms are green, slower replies are amber, and timeouts or
failures are red. When stdout is not a terminal, one line is printed per
result instead of the panel.

Examples:
  pingboard
  pingboard --interval 2s --timeout 1s
  pingboard --method tcp --port 80
  pingboard --plain | tee pings.log`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is the normal case.
		_ = godotenv.Load()

		if colorsOverridden() {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd, &rootFlags)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.pingboard.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	addWatchFlags(rootCmd, &rootFlags)
}

// reportedError marks an error whose details were already written to stdout,
// e.g. as a JSON envelope. Execute still exits non-zero but prints nothing.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !stderrors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
