// Command ephemric reports the radial, in-track, and cross-track offsets of
// one ephemeris relative to another.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/signalsfoundry/astro-ephemeris/core"
	"github.com/signalsfoundry/astro-ephemeris/internal/app"
	"github.com/signalsfoundry/astro-ephemeris/internal/ephemfile"
	"github.com/signalsfoundry/astro-ephemeris/internal/logging"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr, app.Options{}); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "ephemric:", err)
		}
		os.Exit(1)
	}
}

type config struct {
	refPath   string
	otherPath string
	outPath   string
	points    int
	clip      bool
}

func parseFlags(args []string, stderr io.Writer, opts *app.Options) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("ephemric", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.refPath, "ref", "", "reference STK ephemeris; offsets at its samples are in its RIC frame")
	fs.StringVar(&cfg.otherPath, "other", "", "STK ephemeris compared against the reference")
	fs.StringVar(&cfg.outPath, "out", "", "output text report")
	fs.IntVar(&cfg.points, "points", core.DefaultInterpPoints, "samples per interpolating polynomial")
	fs.BoolVar(&cfg.clip, "clip", false, "restrict both inputs to their common time span first")
	opts.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.refPath == "" || cfg.otherPath == "" || cfg.outPath == "" {
		fs.Usage()
		return cfg, errors.New("-ref, -other and -out are required")
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer, opts app.Options) error {
	cfg, err := parseFlags(args, stderr, &opts)
	if err != nil {
		return err
	}

	ctx, env, err := app.Setup(ctx, "ephemric", opts)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	ref, err := env.Codec.ReadFile(ctx, cfg.refPath)
	if err != nil {
		return err
	}
	other, err := env.Codec.ReadFile(ctx, cfg.otherPath)
	if err != nil {
		return err
	}
	if ref.CoordSystem != other.CoordSystem {
		env.Log.Warn(ctx, "inputs are in different coordinate systems",
			logging.String("ref", ref.CoordSystem.String()),
			logging.String("other", other.CoordSystem.String()),
		)
	}

	var ric core.Ephemeris
	err = env.Observe(ctx, "ric", func(context.Context) (int, error) {
		if cfg.clip {
			start, stop, err := ref.Overlap(other)
			if err != nil {
				return 0, err
			}
			ref, other = ref.Clip(start, stop), other.Clip(start, stop)
		}
		e, err := ref.RelativeMotion(other, cfg.points)
		if err != nil {
			return 0, err
		}
		ric = e
		return e.Len(), nil
	})
	if err != nil {
		return err
	}

	return writeReport(cfg.outPath, ric)
}

func writeReport(path string, ric core.Ephemeris) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := ephemfile.WriteRICReport(f, ric); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
