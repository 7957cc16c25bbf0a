// Command ephemresample interpolates an STK ephemeris onto a fixed cadence.
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
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr, app.Options{}); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "ephemresample:", err)
		}
		os.Exit(1)
	}
}

type config struct {
	inPath  string
	outPath string
	step    float64
	points  int
}

func parseFlags(args []string, stderr io.Writer, opts *app.Options) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("ephemresample", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.inPath, "in", "", "input STK ephemeris file")
	fs.StringVar(&cfg.outPath, "out", "", "output STK ephemeris file")
	fs.Float64Var(&cfg.step, "step", 0, "output sample spacing in seconds")
	fs.IntVar(&cfg.points, "points", core.DefaultInterpPoints, "samples per interpolating polynomial")
	opts.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.inPath == "" || cfg.outPath == "" {
		fs.Usage()
		return cfg, errors.New("-in and -out are required")
	}
	if !(cfg.step > 0) {
		return cfg, fmt.Errorf("-step must be positive, got %v", cfg.step)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer, opts app.Options) error {
	cfg, err := parseFlags(args, stderr, &opts)
	if err != nil {
		return err
	}

	ctx, env, err := app.Setup(ctx, "ephemresample", opts)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	in, err := env.Codec.ReadFile(ctx, cfg.inPath)
	if err != nil {
		return err
	}

	var out core.Ephemeris
	err = env.Observe(ctx, "resample", func(context.Context) (int, error) {
		e, err := in.Resample(cfg.step, cfg.points)
		if err != nil {
			return 0, err
		}
		out = e
		return e.Len(), nil
	})
	if err != nil {
		return err
	}

	return env.Codec.WriteFile(ctx, cfg.outPath, out)
}
