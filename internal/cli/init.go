package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/pingboard/internal/config"
	"github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var initForce bool

// initCmd creates a new .pingboard.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .pingboard.yaml configuration",
	Long: `Write a .pingboard.yaml with the default settings to the current
directory, or to the path given by --config.

Every key is optional; edit or delete the ones you don't need.

Examples:
  pingboard init
  pingboard init --force
  pingboard init --config ~/.config/pingboard/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.ConfigFileName
		}
		return Init(cmd.OutOrStdout(), InitOptions{
			Path:           path,
			Overwrite:      initForce,
			NonInteractive: !term.IsTerminal(int(os.Stdin.Fd())),
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write the config
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Never prompt
}

// Init writes the default configuration to opts.Path.
func Init(w io.Writer, opts InitOptions) error {
	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := config.Write(opts.Path, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), opts.Path)
	fmt.Fprintln(w, ui.MutedStyle().Render("  Run 'pingboard' to start monitoring."))
	return nil
}
