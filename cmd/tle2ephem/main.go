// Command tle2ephem propagates a two-line element set with SGP4 and writes
// the samples as an STK ephemeris file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signalsfoundry/astro-ephemeris/core"
	"github.com/signalsfoundry/astro-ephemeris/internal/app"
	"github.com/signalsfoundry/astro-ephemeris/timectrl"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr, app.Options{}); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "tle2ephem:", err)
		}
		os.Exit(1)
	}
}

type config struct {
	tlePath string
	outPath string
	start   string
	stop    string
	step    float64
	satID   string
	frame   string
}

func parseFlags(args []string, stderr io.Writer, opts *app.Options) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("tle2ephem", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.tlePath, "tle", "", "file holding one or more two-line element sets")
	fs.StringVar(&cfg.outPath, "out", "", "output STK ephemeris file")
	fs.StringVar(&cfg.start, "start", "", "first sample time, YYYY-MM-DD::HH:MM:SS.sss (defaults to the element epoch)")
	fs.StringVar(&cfg.stop, "stop", "", "last sample time, YYYY-MM-DD::HH:MM:SS.sss (defaults to one day after start)")
	fs.Float64Var(&cfg.step, "step", 60, "sample spacing in seconds")
	fs.StringVar(&cfg.satID, "satid", "", "catalog number or name of the element set to use (defaults to the first in the file)")
	fs.StringVar(&cfg.frame, "frame", "teme", "output frame: teme or fixed")
	opts.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.tlePath == "" || cfg.outPath == "" {
		fs.Usage()
		return cfg, errors.New("-tle and -out are required")
	}
	switch cfg.frame = strings.ToLower(cfg.frame); cfg.frame {
	case "teme", "fixed":
	default:
		return cfg, fmt.Errorf("unknown -frame %q", cfg.frame)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer, opts app.Options) error {
	cfg, err := parseFlags(args, stderr, &opts)
	if err != nil {
		return err
	}

	ctx, env, err := app.Setup(ctx, "tle2ephem", opts)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	tle, err := loadTLE(cfg.tlePath, cfg.satID)
	if err != nil {
		return err
	}

	start, stop, err := window(tle, cfg.start, cfg.stop)
	if err != nil {
		return err
	}

	var ephem core.Ephemeris
	err = env.Observe(ctx, "generate", func(context.Context) (int, error) {
		e, err := core.Generate(tle, start, stop, cfg.step)
		if err != nil {
			return 0, err
		}
		if cfg.frame == "fixed" {
			if e, err = e.ToFixed(); err != nil {
				return 0, err
			}
		}
		ephem = e
		return e.Len(), nil
	})
	if err != nil {
		return err
	}

	return env.Codec.WriteFile(ctx, cfg.outPath, ephem)
}

func loadTLE(path, satID string) (*core.TLE, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open element sets: %w", err)
	}
	defer f.Close()

	tles, err := core.ReadTLEs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return core.FindTLE(tles, satID)
}

func window(tle *core.TLE, startArg, stopArg string) (timectrl.Timecode, timectrl.Timecode, error) {
	start := tle.Epoch
	if startArg != "" {
		tc, err := timectrl.ParseISO(startArg)
		if err != nil {
			return start, start, fmt.Errorf("-start: %w", err)
		}
		start = tc
	}
	stop := start.Add(86400)
	if stopArg != "" {
		tc, err := timectrl.ParseISO(stopArg)
		if err != nil {
			return start, stop, fmt.Errorf("-stop: %w", err)
		}
		stop = tc
	}
	if stop.Before(start) {
		return start, stop, fmt.Errorf("stop %s is before start %s", stop, start)
	}
	return start, stop, nil
}
