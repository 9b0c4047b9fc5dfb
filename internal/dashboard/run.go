// Package dashboard renders monitor results as an interactive Bubble Tea
// panel grouped by target category, with a plain line-per-result fallback
// for non-terminal output.
package dashboard

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	pberrors "github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/targets"
)

// Loop is the part of *monitor.Loop the dashboard drives.
type Loop interface {
	Start(ctx context.Context, targets []string, sink monitor.Sink) error
	Stop()
	Refresh()
	Done() <-chan struct{}
}

// RunOptions configures the dashboard execution.
type RunOptions struct {
	// Output receives the panel or the plain lines. Defaults to os.Stdout.
	Output io.Writer
	// Plain forces line output even on a terminal.
	Plain bool
	// LogFile receives the standard logger while the panel owns the
	// terminal. Empty discards it.
	LogFile string
	// Method names the probe in use, shown in the header.
	Method string
}

// Run starts loop over the flattened catalog and displays its results until
// the user quits or ctx is cancelled. It always stops the loop before
// returning.
func Run(ctx context.Context, loop Loop, groups []targets.Group, opts RunOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	defer loop.Stop()

	if opts.Plain || !isTerminal(opts.Output) {
		return runPlain(ctx, loop, groups, opts.Output)
	}
	return runTUI(ctx, loop, groups, opts)
}

func runPlain(ctx context.Context, loop Loop, groups []targets.Group, out io.Writer) error {
	if err := loop.Start(ctx, targets.Flatten(groups), NewPlainSink(out, groups)); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		loop.Stop()
	case <-loop.Done():
	}
	<-loop.Done()
	return nil
}

func runTUI(ctx context.Context, loop Loop, groups []targets.Group, opts RunOptions) error {
	// The panel owns the terminal, so stray log output must go elsewhere.
	if opts.LogFile != "" {
		f, err := tea.LogToFile(opts.LogFile, "pingboard")
		if err != nil {
			return pberrors.WrapWithCode(err, pberrors.ErrStartup,
				"Can't open log file "+opts.LogFile,
				"Check the --log-file path is writable")
		}
		defer f.Close()
	} else {
		prev := log.Writer()
		log.SetOutput(io.Discard)
		defer log.SetOutput(prev)
	}

	model := NewModel(groups, ModelOptions{
		Stop:    loop.Stop,
		Refresh: loop.Refresh,
		Method:  opts.Method,
	})

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithOutput(opts.Output),
		tea.WithContext(ctx),
	)

	bridge := NewBridge(program)
	if err := loop.Start(ctx, targets.Flatten(groups), bridge); err != nil {
		return err
	}

	exited := make(chan struct{})
	defer close(exited)
	go func() {
		select {
		case <-loop.Done():
			bridge.LoopDone()
		case <-exited:
		}
	}()

	_, err := program.Run()
	loop.Stop()
	if err != nil && ctx.Err() != nil {
		// Cancellation is a normal way to end the panel.
		return nil
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
