package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/rileyhilliard/pingboard/internal/targets"
	"github.com/rileyhilliard/pingboard/internal/ui"
	"github.com/spf13/cobra"
)

var targetsJSON bool

// targetsCmd lists the built-in catalog
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the built-in targets",
	Long: `Print every built-in target with its group and monitor index.

Examples:
  pingboard targets
  pingboard targets --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTargets(cmd.OutOrStdout(), targets.Catalog(), targetsJSON)
	},
}

func init() {
	targetsCmd.Flags().BoolVar(&targetsJSON, "json", false, "output targets as JSON")
	rootCmd.AddCommand(targetsCmd)
}

// TargetGroup is one group in the --json payload of the targets command.
type TargetGroup struct {
	Name    string   `json:"name"`
	Targets []string `json:"targets"`
}

func listTargets(w io.Writer, groups []targets.Group, asJSON bool) error {
	if asJSON {
		data := make([]TargetGroup, len(groups))
		for i, g := range groups {
			data[i] = TargetGroup{Name: g.Name, Targets: g.Targets}
		}
		return WriteJSONSuccess(w, data)
	}

	entries := targets.Entries(groups)
	if len(entries) == 0 {
		fmt.Fprintln(w, ui.MutedStyle().Render("No targets configured."))
		return nil
	}

	cells := make([][]string, len(entries))
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		cells[i] = []string{strconv.Itoa(e.Index), e.Group, e.Target}
		rows[i] = table.Row(cells[i])
	}

	cols := ui.FitColumns([]string{"#", "GROUP", "TARGET"}, cells)
	fmt.Fprintln(w, ui.NewTable(cols, rows).View())
	fmt.Fprintln(w, ui.MutedStyle().Render(fmt.Sprintf("%d targets in %d groups", len(entries), len(groups))))
	return nil
}
