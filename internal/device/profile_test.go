package device

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/numzip/numzip/internal/logger"
)

func TestSubmitAndProfileWritesOneLine(t *testing.T) {
	t.Parallel()
	var diag bytes.Buffer
	d := New(
		WithProfiling(true),
		WithDiagnosticWriter(&diag),
		WithLogger(logger.Text(io.Discard, 0)),
	)
	defer d.Close()
	q := NewQueue(d)
	defer q.Close()

	evt := SubmitAndProfile(q, "scan reduce 0", func(h *Handler) {
		time.Sleep(time.Millisecond)
	})
	evt.Wait()

	lines := strings.Split(strings.TrimRight(diag.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	require.True(t, strings.HasPrefix(lines[0], "[profile]"), "line: %s", lines[0])
	require.Contains(t, lines[0], "scan reduce 0:")
	require.True(t, strings.HasSuffix(lines[0], "ms"), "line: %s", lines[0])
}

func TestSubmitAndProfileSilentWhenDisabled(t *testing.T) {
	t.Parallel()
	var diag bytes.Buffer
	d := New(
		WithDiagnosticWriter(&diag),
		WithLogger(logger.Text(io.Discard, 0)),
	)
	defer d.Close()
	q := NewQueue(d)
	defer q.Close()

	for range 10 {
		SubmitAndProfile(q, "quiet", func(h *Handler) {})
	}
	q.Wait()

	require.Zero(t, diag.Len(), "diagnostic output with profiling disabled: %s", diag.String())
}

func TestMeasureDurationSpansEvents(t *testing.T) {
	t.Parallel()
	d := New(WithLogger(logger.Text(io.Discard, 0)))
	defer d.Close()
	q := NewQueue(d)
	defer q.Close()

	first := q.Submit(func(h *Handler) { time.Sleep(time.Millisecond) })
	second := q.Submit(func(h *Handler) { time.Sleep(time.Millisecond) })
	q.Wait()

	start, end, dur := MeasureDuration(first, second)
	require.Equal(t, first.CommandStart(), start)
	require.Equal(t, second.CommandEnd(), end)
	require.Equal(t, time.Duration(end-start), dur)
	require.GreaterOrEqual(t, dur, 2*time.Millisecond)
}
