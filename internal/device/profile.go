package device

import (
	"fmt"
	"math"
	"time"
)

// MeasureDuration waits for a set of events believed to form one logical
// operation and returns the earliest start, the latest end, and the elapsed
// duration between them.
func MeasureDuration(events ...*Event) (start, end uint64, d time.Duration) {
	start = math.MaxUint64
	for _, evt := range events {
		if s := evt.CommandStart(); s < start {
			start = s
		}
		if e := evt.CommandEnd(); e > end {
			end = e
		}
	}
	return start, end, time.Duration(end - start)
}

// SubmitAndProfile submits a command group. On a profiling device it waits
// for completion and writes one diagnostic line per submission:
//
//	[profile] <start> <end> <label>: <duration>ms
//
// On a non-profiling device it is a plain Submit with no overhead and no
// output. Purely observational either way.
func SubmitAndProfile(q *Queue, label string, cg CommandGroup) *Event {
	if !q.dev.profiling {
		return q.Submit(cg)
	}
	evt := q.Submit(cg)
	start, end, d := MeasureDuration(evt)
	fmt.Fprintf(q.dev.diag, "[profile] %8d %8d %s: %.3fms\n",
		start, end, label, float64(d.Nanoseconds())/1e6)
	return evt
}
