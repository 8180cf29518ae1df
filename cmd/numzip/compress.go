package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/numzip/numzip/internal/extent"
	"github.com/numzip/numzip/pkg/numzip"
)

func compressCmd() *cli.Command {
	var dtype string

	flags := append([]cli.Flag{}, commonDeviceFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "dtype",
			Usage:       "element type of the input file (u32, f32)",
			Value:       "u32",
			Destination: &dtype,
		},
	)

	return &cli.Command{
		Name:      "compress",
		Usage:     "Compress a raw little-endian array file",
		ArgsUsage: "<input> <output>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyConfig(cmd, LoadConfig())
			log := setupLogger()

			if cmd.Args().Len() != 2 {
				return cli.Exit("error: compress needs an input and an output path", 1)
			}
			inPath, outPath := cmd.Args().Get(0), cmd.Args().Get(1)

			raw, err := os.ReadFile(inPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read input: %v", err), 1)
			}
			if len(raw)%4 != 0 {
				return cli.Exit(fmt.Sprintf("error: input size %d is not a whole number of 32-bit elements", len(raw)), 1)
			}
			if len(raw) == 0 {
				return cli.Exit("error: input is empty", 1)
			}

			words := make([]uint32, len(raw)/4)
			for i := range words {
				words[i] = binary.LittleEndian.Uint32(raw[i*4:])
			}
			shape := extent.Of(uint64(len(words)))

			d := openDevice(log)
			defer d.Close()

			start := time.Now()
			var stream []byte
			switch dtype {
			case "u32":
				stream, err = numzip.Compress(d, words, shape)
			case "f32":
				values := make([]float32, len(words))
				for i, w := range words {
					values[i] = math.Float32frombits(w)
				}
				stream, err = numzip.CompressFloat32(d, values, shape)
			default:
				return cli.Exit(fmt.Sprintf("error: unknown dtype %q", dtype), 1)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: compress: %v", err), 1)
			}

			if err := os.WriteFile(outPath, stream, 0o644); err != nil {
				return cli.Exit(fmt.Sprintf("error: write output: %v", err), 1)
			}

			log.Info("compressed",
				"input", inPath,
				"output", outPath,
				"raw_bytes", len(raw),
				"compressed_bytes", len(stream),
				"ratio", fmt.Sprintf("%.3f", float64(len(stream))/float64(len(raw))),
				"duration", time.Since(start).Round(time.Millisecond),
			)
			return nil
		},
	}
}

func decompressCmd() *cli.Command {
	var dtype string

	flags := append([]cli.Flag{}, commonDeviceFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "dtype",
			Usage:       "element type of the stream (u32, f32)",
			Value:       "u32",
			Destination: &dtype,
		},
	)

	return &cli.Command{
		Name:      "decompress",
		Usage:     "Decompress a numzip stream back to a raw array file",
		ArgsUsage: "<input> <output>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyConfig(cmd, LoadConfig())
			log := setupLogger()

			if cmd.Args().Len() != 2 {
				return cli.Exit("error: decompress needs an input and an output path", 1)
			}
			inPath, outPath := cmd.Args().Get(0), cmd.Args().Get(1)

			stream, err := os.ReadFile(inPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read input: %v", err), 1)
			}

			d := openDevice(log)
			defer d.Close()

			start := time.Now()
			var words []uint32
			var shape extent.Extent
			switch dtype {
			case "u32":
				words, shape, err = numzip.Decompress(d, stream)
			case "f32":
				var values []float32
				values, shape, err = numzip.DecompressFloat32(d, stream)
				if err == nil {
					words = make([]uint32, len(values))
					for i, v := range values {
						words[i] = math.Float32bits(v)
					}
				}
			default:
				return cli.Exit(fmt.Sprintf("error: unknown dtype %q", dtype), 1)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: decompress: %v", err), 1)
			}

			raw := make([]byte, 0, len(words)*4)
			for _, w := range words {
				raw = binary.LittleEndian.AppendUint32(raw, w)
			}
			if err := os.WriteFile(outPath, raw, 0o644); err != nil {
				return cli.Exit(fmt.Sprintf("error: write output: %v", err), 1)
			}

			log.Info("decompressed",
				"input", inPath,
				"output", outPath,
				"shape", shape.String(),
				"raw_bytes", len(raw),
				"duration", time.Since(start).Round(time.Millisecond),
			)
			return nil
		},
	}
}
