package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/urfave/cli/v3"

	"github.com/numzip/numzip/internal/device"
	"github.com/numzip/numzip/internal/version"
)

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print version and host capability information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			fmt.Printf("version:    %s\n", info.Version)
			if info.Commit != "" {
				fmt.Printf("commit:     %s\n", info.Commit)
			}
			fmt.Printf("go:         %s\n", runtime.Version())
			fmt.Printf("platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Printf("cpus:       %d\n", runtime.NumCPU())
			fmt.Printf("simd:       %s (%d-byte vectors, %d uint32 lanes)\n",
				hwy.CurrentName(), hwy.CurrentWidth(), hwy.MaxLanes[uint32]())
			if features := device.CPUFeatures(); len(features) > 0 {
				fmt.Printf("features:   %s\n", strings.Join(features, " "))
			}
			return nil
		},
	}
}
