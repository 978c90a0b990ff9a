// Command snapshot applies a capture effect to an image file.
//
// The input image stands in for the frame's back buffer. It is captured
// through the software device with the parameters of a TOML preset and the
// effect flags, and the result is written to the output file:
//
//	snapshot -in frame.png -out frozen.png -preset panel.toml
//	snapshot -in frame.jpg -out gray.png -effect Grayscale -blur Detail -iterations 4
//
// With -watch the preset file is watched and the output rewritten on every
// change until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/snapshot"
	"github.com/gogpu/snapshot/backend"
)

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "", "input image (png, jpeg, bmp, tiff or webp)")
	flag.StringVar(&opts.output, "out", "snapshot.png", "output image (png or jpeg)")
	flag.StringVar(&opts.preset, "preset", "", "TOML preset file")
	flag.StringVar(&opts.backend, "backend", backend.BackendSoftware, "device backend")
	flag.StringVar(&opts.effect, "effect", "", "effect mode (None, Grayscale, Sepia, Nega, Pixel)")
	flag.StringVar(&opts.color, "color", "", "color mode (Multiply, Fill, Add, Subtract)")
	flag.StringVar(&opts.tint, "tint", "", "effect color as hex, e.g. #ffcc88")
	flag.StringVar(&opts.blur, "blur", "", "blur mode (None, Fast, Medium, Detail)")
	flag.IntVar(&opts.iterations, "iterations", 0, "blur iterations (1-8)")
	flag.StringVar(&opts.sampling, "sampling", "", "output down-sampling rate (None, X1, X2, X4, X8)")
	flag.BoolVar(&opts.preview, "preview", false, "capture through a preview context")
	flag.BoolVar(&opts.dump, "dump", false, "print the command sequence")
	flag.StringVar(&opts.savePreset, "save-preset", "", "write the effective configuration to a TOML file")
	watch := flag.Bool("watch", false, "re-render when the preset file changes")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	snapshot.SetLogger(logger)

	if opts.input == "" {
		fmt.Fprintln(os.Stderr, "snapshot: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts, logger); err != nil {
		logger.Error("snapshot failed", "err", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}
	if opts.preset == "" {
		logger.Error("snapshot: -watch needs -preset")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := watchPreset(ctx, opts.preset, logger, func() {
		if err := run(opts, logger); err != nil {
			logger.Error("snapshot failed", "err", err)
		}
	})
	if err != nil {
		logger.Error("watch failed", "err", err)
		os.Exit(1)
	}
}
