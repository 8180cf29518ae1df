package device

import (
	"sync"

	"github.com/numzip/numzip/internal/kernel"
)

// CommandGroup is one unit of device work. It runs on the queue's dispatcher
// goroutine and launches kernels through the handler.
type CommandGroup func(h *Handler)

// Event tracks the completion and timing of one submitted command group.
// Timestamps are nanoseconds relative to the device epoch.
type Event struct {
	done  chan struct{}
	start uint64
	end   uint64
}

// Wait blocks until the command group has completed.
func (e *Event) Wait() { <-e.done }

// CommandStart returns the execution start timestamp, waiting if needed.
func (e *Event) CommandStart() uint64 {
	e.Wait()
	return e.start
}

// CommandEnd returns the execution end timestamp, waiting if needed.
func (e *Event) CommandEnd() uint64 {
	e.Wait()
	return e.end
}

type submission struct {
	cg  CommandGroup
	evt *Event
}

// Queue is an in-order command queue: submitted command groups execute
// strictly in submission order on a single dispatcher goroutine, which is
// how dependent kernels (reduction before expansion, level after level) are
// serialized. Parallelism lives inside a command group, across its groups.
type Queue struct {
	dev       *Device
	work      chan submission
	pending   sync.WaitGroup
	closeOnce sync.Once
}

// NewQueue creates a queue on d and starts its dispatcher.
func NewQueue(d *Device) *Queue {
	q := &Queue{
		dev:  d,
		work: make(chan submission, 64),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	for s := range q.work {
		s.evt.start = q.dev.now()
		s.cg(&Handler{dev: q.dev})
		s.evt.end = q.dev.now()
		close(s.evt.done)
		q.pending.Done()
	}
}

// Device returns the device this queue submits to.
func (q *Queue) Device() *Device { return q.dev }

// Submit enqueues a command group and returns its event without blocking.
func (q *Queue) Submit(cg CommandGroup) *Event {
	evt := &Event{done: make(chan struct{})}
	q.pending.Add(1)
	q.work <- submission{cg: cg, evt: evt}
	return evt
}

// Wait blocks until every submitted command group has completed.
func (q *Queue) Wait() {
	q.pending.Wait()
}

// Close drains the queue and stops the dispatcher. The queue must not be
// used afterwards.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.pending.Wait()
		close(q.work)
	})
}

// Handler launches kernels for the command group currently executing.
type Handler struct {
	dev *Device
}

// Parallel runs one kernel instance per group index in [0, groups), each
// with a bounded group of localSize lanes, spread across the device's
// worker pool. It returns when all groups have finished, so successive
// launches within one command group are ordered.
func (h *Handler) Parallel(groups, localSize int, kern func(g *kernel.Group)) {
	if groups <= 0 {
		return
	}
	h.dev.pool.ParallelForAtomic(groups, func(i int) {
		kern(kernel.NewGroup(uint32(i), uint32(localSize)))
	})
}
