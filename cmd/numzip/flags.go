package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/logger"
)

var (
	workers   int64
	profile   bool
	logLevel  string
	logFormat string
	debug     bool
)

func commonDeviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"w"},
			Usage:       "worker goroutines executing kernel groups (0 = GOMAXPROCS)",
			Destination: &workers,
		},
		&cli.BoolFlag{
			Name:        "profile",
			Usage:       "print per-kernel timing to stderr",
			Destination: &profile,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func setupLogger() logger.Logger {
	level := logLevel
	if debug {
		level = "debug"
	}
	return logger.ForFormat(os.Stderr, level, logFormat)
}

func openDevice(log logger.Logger) *device.Device {
	return device.New(
		device.WithWorkers(int(workers)),
		device.WithProfiling(profile),
		device.WithDiagnosticWriter(os.Stderr),
		device.WithLogger(log),
	)
}
