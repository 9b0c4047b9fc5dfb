package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/pingboard/internal/logger"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/probe"
	"github.com/rileyhilliard/pingboard/internal/targets"
	"github.com/rileyhilliard/pingboard/internal/ui"
	"github.com/spf13/cobra"
)

var (
	onceFlags ProbeFlags
	onceJSON  bool
)

// onceCmd probes every target a single time
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Probe every target once and print the results",
	Long: `Run a single probe pass over the built-in targets and print one row per
target, then exit.

With --json the results are written as a JSON envelope, which is handy for
scripts and cron jobs.

Examples:
  pingboard once
  pingboard once --method tcp
  pingboard once --json | jq '.data.results[] | select(.status != "good")'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return onceCommand(cmd)
	},
}

func init() {
	AddProbeFlags(onceCmd, &onceFlags)
	onceCmd.Flags().BoolVar(&onceJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(onceCmd)
}

// OnceResult is the --json payload of the once command.
type OnceResult struct {
	Method  string         `json:"method"`
	Results []TargetResult `json:"results"`
}

// TargetResult is one probed target.
type TargetResult struct {
	Index     int        `json:"index"`
	Group     string     `json:"group"`
	Target    string     `json:"target"`
	Status    string     `json:"status"`
	Label     string     `json:"label"`
	LatencyMS *float64   `json:"latency_ms,omitempty"`
	Error     *JSONError `json:"error,omitempty"`
}

func onceCommand(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	err := func() error {
		cfg, err := loadSettings(cmd, &onceFlags)
		if err != nil {
			return err
		}

		log := logger.NewEnvLogger("[pingboard]")
		prober, method, err := newProber(cfg, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runOnce(ctx, out, prober, method, targets.Catalog(), monitorOptions(cfg, log), onceJSON)
	}()

	if err != nil && onceJSON {
		if werr := WriteJSONFromError(out, err); werr != nil {
			return werr
		}
		return &reportedError{err: err}
	}
	return err
}

// runOnce probes groups once with p and writes the results to w.
func runOnce(ctx context.Context, w io.Writer, p probe.Prober, method string, groups []targets.Group, opts monitor.Options, asJSON bool) error {
	states, err := monitor.RunOnce(ctx, p, targets.Flatten(groups), opts)
	if err != nil {
		return err
	}

	results := onceResults(groups, states)
	if asJSON {
		return WriteJSONSuccess(w, OnceResult{Method: method, Results: results})
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Group, r.Target, r.Status, r.Label}
	}
	titles := []string{"GROUP", "TARGET", "STATUS", "LATENCY"}

	fmt.Fprintln(w, ui.RenderSimpleTable(ui.FitColumns(titles, rows), rows))
	fmt.Fprintln(w, summaryLine(results, method))
	return nil
}

// onceResults joins states with their catalog entries, in catalog order.
func onceResults(groups []targets.Group, states []monitor.TargetState) []TargetResult {
	entries := targets.Entries(groups)
	byIndex := make(map[int]monitor.TargetState, len(states))
	for _, st := range states {
		byIndex[st.Index] = st
	}

	results := make([]TargetResult, 0, len(entries))
	for _, e := range entries {
		r := TargetResult{
			Index:  e.Index,
			Group:  e.Group,
			Target: e.Target,
			Status: monitor.BucketPending.String(),
		}
		if st, ok := byIndex[e.Index]; ok {
			r.Status = st.Bucket.String()
			r.Label = st.Label
			if st.Outcome.Kind == probe.KindLatency {
				ms := st.Outcome.RTT
				r.LatencyMS = &ms
			}
			if st.Outcome.Err != nil {
				r.Error = ErrorToJSON(st.Outcome.Err)
			}
		}
		results = append(results, r)
	}
	return results
}

func summaryLine(results []TargetResult, method string) string {
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
	}

	parts := []string{
		ui.SuccessStyle().Render(fmt.Sprintf("%s %d good", ui.SymbolSuccess, counts[monitor.BucketGood.String()])),
		ui.WarningStyle().Render(fmt.Sprintf("%s %d degraded", ui.SymbolDegraded, counts[monitor.BucketDegraded.String()])),
		ui.ErrorStyle().Render(fmt.Sprintf("%s %d unreachable", ui.SymbolFail, counts[monitor.BucketUnreachable.String()])),
	}
	return strings.Join(parts, "  ") + ui.MutedStyle().Render("  via "+method)
}
