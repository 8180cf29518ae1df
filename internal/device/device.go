// Package device is the host-side execution environment the scan engine
// runs on: a worker pool standing in for the accelerator, typed buffers,
// an in-order command queue, and optional per-submission profiling.
package device

import (
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/numzip/numzip/internal/logger"
)

// Device owns the worker pool that executes kernel groups and the
// diagnostic state shared by its queues. Create one per process or per
// independent workload; Close releases the pool.
type Device struct {
	pool      *workerpool.Pool
	workers   int
	profiling bool
	diag      io.Writer
	log       logger.Logger
	epoch     time.Time
	closeOnce sync.Once
}

// Option configures a Device.
type Option func(*Device)

// WithWorkers sets the number of pool workers. Values <= 0 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(d *Device) { d.workers = n }
}

// WithProfiling enables per-submission timing. Queues on a non-profiling
// device silently skip all diagnostic output.
func WithProfiling(enabled bool) Option {
	return func(d *Device) { d.profiling = enabled }
}

// WithDiagnosticWriter redirects profiling output (default os.Stdout).
func WithDiagnosticWriter(w io.Writer) Option {
	return func(d *Device) { d.diag = w }
}

// WithLogger sets the device logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Device) { d.log = l }
}

// New opens a device.
func New(opts ...Option) *Device {
	d := &Device{
		diag:  os.Stdout,
		log:   logger.Default(),
		epoch: time.Now(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers <= 0 {
		d.workers = runtime.GOMAXPROCS(0)
	}
	d.pool = workerpool.New(d.workers)

	d.log.Debug("device opened",
		"workers", d.workers,
		"simd", hwy.CurrentName(),
		"simd_width_bytes", hwy.CurrentWidth(),
		"cpu_features", cpuFeatures(),
		"profiling", d.profiling,
	)
	return d
}

// Close releases the worker pool. Pending queue work must be drained first.
func (d *Device) Close() {
	d.closeOnce.Do(func() {
		d.pool.Close()
		d.log.Debug("device closed")
	})
}

// Workers returns the number of pool workers.
func (d *Device) Workers() int { return d.workers }

// Profiling reports whether per-submission timing is enabled.
func (d *Device) Profiling() bool { return d.profiling }

// Logger returns the device logger.
func (d *Device) Logger() logger.Logger { return d.log }

// CPUFeatures lists the detected SIMD feature set of the host CPU.
func CPUFeatures() []string { return cpuFeatures() }

// now returns nanoseconds since the device epoch, the timebase of all
// event timestamps.
func (d *Device) now() uint64 {
	return uint64(time.Since(d.epoch))
}
