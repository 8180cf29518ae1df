package main

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/kernel"
	"github.com/numzip/numzip/internal/scan"
)

type benchRun struct {
	Duration   time.Duration `json:"duration_ns"`
	Throughput float64       `json:"throughput_melems_per_s"`
}

type benchReport struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	Size          uint64        `json:"size"`
	Granularity   uint32        `json:"granularity"`
	Op            string        `json:"op"`
	Workers       int           `json:"workers"`
	SIMD          string        `json:"simd"`
	Runs          []benchRun    `json:"runs"`
	AvgDuration   time.Duration `json:"avg_duration_ns"`
	AvgThroughput float64       `json:"avg_throughput_melems_per_s"`
}

func benchCmd() *cli.Command {
	var (
		size        int64
		granularity int64
		warmupRuns  int64
		benchRuns   int64
		opName      string
		jsonOut     bool
	)

	flags := append([]cli.Flag{}, commonDeviceFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "size",
			Aliases:     []string{"n"},
			Usage:       "number of elements to scan",
			Value:       1 << 24,
			Destination: &size,
		},
		&cli.Int64Flag{
			Name:        "granularity",
			Aliases:     []string{"g"},
			Usage:       "elements scanned per group and hierarchy level",
			Value:       scan.Granularity,
			Destination: &granularity,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmupRuns,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of benchmark runs",
			Value:       5,
			Destination: &benchRuns,
		},
		&cli.StringFlag{
			Name:        "op",
			Usage:       "scan operator (sum, max)",
			Value:       "sum",
			Destination: &opName,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "emit a JSON report instead of the table",
			Destination: &jsonOut,
		},
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Benchmark the hierarchical prefix scan",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyConfig(cmd, LoadConfig())
			log := setupLogger()

			var op kernel.Op[uint32]
			switch opName {
			case "sum":
				op = kernel.Sum[uint32]()
			case "max":
				op = kernel.Maximum[uint32]()
			default:
				return cli.Exit(fmt.Sprintf("error: unknown operator %q", opName), 1)
			}

			if benchRuns < 1 {
				return cli.Exit("error: runs must be at least 1", 1)
			}
			if granularity < 2 {
				return cli.Exit("error: granularity must be at least 2", 1)
			}
			g := uint32(granularity)
			if size <= 0 {
				return cli.Exit("error: size must be positive", 1)
			}
			n := uint64(size)
			if rem := n % uint64(g); rem != 0 {
				n += uint64(g) - rem
				log.Warn("rounding size up to a granularity multiple", "size", n)
			}
			if n > uint64(^uint32(0)) {
				return cli.Exit("error: size exceeds the 32-bit element index space", 1)
			}

			d := openDevice(log)
			defer d.Close()
			q := device.NewQueue(d)
			defer q.Close()

			source := make([]uint32, n)
			rng := rand.New(rand.NewSource(42))
			for i := range source {
				source[i] = rng.Uint32() >> 16
			}
			buf := device.NewBuffer[uint32](d, len(source))
			chain, err := scan.Allocate[uint32](d, uint32(n), g)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: allocate scan chain: %v", err), 1)
			}

			if !jsonOut {
				fmt.Println("=== numzip scan benchmark ===")
				fmt.Printf("Size:        %d elements\n", n)
				fmt.Printf("Granularity: %d\n", g)
				fmt.Printf("Op:          %s\n", opName)
				fmt.Printf("Workers:     %d\n", d.Workers())
				fmt.Printf("SIMD:        %s (%d bytes)\n", hwy.CurrentName(), hwy.CurrentWidth())
				fmt.Printf("GOMAXPROCS:  %d\n", runtime.GOMAXPROCS(0))
				fmt.Printf("Warmup:      %d runs\n", warmupRuns)
				fmt.Printf("Runs:        %d\n", benchRuns)
				fmt.Println()
			}

			oneRun := func() time.Duration {
				copy(buf.Data(), source)
				start := time.Now()
				scan.Hierarchical(q, buf, chain, op)
				q.Wait()
				return time.Since(start)
			}

			for i := range int(warmupRuns) {
				log.Debug("warmup run", "run", i+1)
				oneRun()
			}

			runs := make([]benchRun, 0, benchRuns)
			for i := range int(benchRuns) {
				log.Debug("benchmark run", "run", i+1)
				elapsed := oneRun()
				runs = append(runs, benchRun{
					Duration:   elapsed,
					Throughput: float64(n) / elapsed.Seconds() / 1e6,
				})
			}

			var sumDur time.Duration
			var sumTput float64
			for _, r := range runs {
				sumDur += r.Duration
				sumTput += r.Throughput
			}
			avgDur := sumDur / time.Duration(len(runs))
			avgTput := sumTput / float64(len(runs))

			if jsonOut {
				report := benchReport{
					ID:            "bench_" + uuid.NewString(),
					Timestamp:     time.Now().UTC(),
					Size:          n,
					Granularity:   g,
					Op:            opName,
					Workers:       d.Workers(),
					SIMD:          hwy.CurrentName(),
					Runs:          runs,
					AvgDuration:   avgDur,
					AvgThroughput: avgTput,
				}
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode report: %v", err), 1)
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Println("=== Results ===")
			fmt.Printf("%-6s %12s %14s\n", "Run", "Duration", "Melems/s")
			for i, r := range runs {
				fmt.Printf("%-6d %12s %14.2f\n", i+1, r.Duration.Round(time.Microsecond), r.Throughput)
			}
			fmt.Printf("\n%-6s %12s %14.2f\n", "Avg", avgDur.Round(time.Microsecond), avgTput)

			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			fmt.Printf("\nMemory: %.1f MB alloc, %.1f MB sys\n",
				float64(mem.Alloc)/(1024*1024),
				float64(mem.Sys)/(1024*1024))

			return nil
		},
	}
}
