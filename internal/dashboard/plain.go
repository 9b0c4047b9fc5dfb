package dashboard

import (
	"fmt"
	"io"
	"sync"

	pberrors "github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/targets"
)

// PlainSink writes one line per update. It is used when stdout is not a
// terminal or --plain is given.
type PlainSink struct {
	mu      sync.Mutex
	w       io.Writer
	entries []targets.Entry
}

// NewPlainSink creates a sink writing to w. groups supplies the category of
// each flattened index.
func NewPlainSink(w io.Writer, groups []targets.Group) *PlainSink {
	return &PlainSink{w: w, entries: targets.Entries(groups)}
}

// Update writes u as a single line.
func (s *PlainSink) Update(u monitor.Update) error {
	group := ""
	if u.Index >= 0 && u.Index < len(s.entries) {
		group = s.entries[u.Index].Group
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintf(s.w, "%s pass=%d group=%q target=%s status=%s latency=%s\n",
		u.At.Format("15:04:05"), u.Cycle, group, u.Target, u.Bucket, u.Label)
	if err != nil {
		return pberrors.WrapWithCode(err, pberrors.ErrSink,
			"Can't write result line",
			"Check that the output stream is still open")
	}
	return nil
}
