package dashboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	pberrors "github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/probe"
	probetesting "github.com/rileyhilliard/pingboard/internal/probe/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPlainSink_Update(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPlainSink(&buf, testGroups())

	err := sink.Update(monitor.Update{
		Index:  2,
		Target: "8.8.8.8",
		Label:  "17ms",
		Bucket: monitor.BucketGood,
		Cycle:  3,
		At:     time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "15:04:05 pass=3 group=\"DNS\" target=8.8.8.8 status=good latency=17ms\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPlainSink_WriteError(t *testing.T) {
	sink := NewPlainSink(failingWriter{}, testGroups())

	err := sink.Update(monitor.Update{Index: 0, Target: "google.com"})
	require.Error(t, err)
	assert.True(t, pberrors.IsCode(err, pberrors.ErrSink))
}

func TestRun_PlainFallbackWhenNotTerminal(t *testing.T) {
	out := &syncBuffer{}
	fake := probetesting.NewFakeProber().On("8.8.8.8", probe.Failed(nil))
	loop := monitor.NewLoop(fake, monitor.Options{Interval: 5 * time.Millisecond, Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, loop, testGroups(), RunOptions{Output: out}) }()

	require.Eventually(t, func() bool { return loop.Cycles() >= 2 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	text := out.String()
	assert.Contains(t, text, "target=google.com status=good latency=10ms")
	assert.Contains(t, text, "target=8.8.8.8 status=unreachable latency=ERROR")
	assert.GreaterOrEqual(t, strings.Count(text, "\n"), 8)
	assert.Equal(t, monitor.StateStopped, loop.State())
}

func TestRun_StartErrorIsReturned(t *testing.T) {
	loop := monitor.NewLoop(nil, monitor.DefaultOptions())

	err := Run(context.Background(), loop, testGroups(), RunOptions{Output: &bytes.Buffer{}, Plain: true})
	require.Error(t, err)
	assert.True(t, pberrors.IsCode(err, pberrors.ErrStartup))
}
