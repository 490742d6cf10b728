package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atoll101/tfnsw-realtime/compiler"
	"github.com/atoll101/tfnsw-realtime/config"
	"github.com/atoll101/tfnsw-realtime/gtfs"
	"github.com/atoll101/tfnsw-realtime/internal"
	"github.com/atoll101/tfnsw-realtime/stopfinder"
	"github.com/atoll101/tfnsw-realtime/throttle"
)

// errNoStops is returned when the feed parsed to zero records
var errNoStops = errors.New("no stops found in feed")

type options struct {
	configPath string
	feed       string
	apiKey     string
	modes      string
	delayMS    int
	outDir     string
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("compile-stations", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to config.yml (default ./config.yml if present)")
	fs.StringVar(&o.feed, "feed", "", "stops.txt URL or local path (overrides config)")
	fs.StringVar(&o.apiKey, "api-key", "", "stop finder API key (overrides the environment)")
	fs.StringVar(&o.modes, "modes", "", "comma-separated mode names to compile, e.g. Train,Ferry")
	fs.IntVar(&o.delayMS, "delay", -1, "fixed delay between lookups in ms (overrides config)")
	fs.StringVar(&o.outDir, "out-dir", "", "directory for artifacts (overrides config)")
	fs.StringVar(&o.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func (o options) apply(cfg *config.AppConfig) {
	if o.feed != "" {
		cfg.Feed.StopsURL = o.feed
	}
	if o.delayMS >= 0 {
		cfg.Throttle.Strategy = "fixed"
		cfg.Throttle.DelayMS = o.delayMS
	}
	if o.outDir != "" {
		cfg.Output.Dir = o.outDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			slog.Error("compilation failed", "error", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.LoadAppConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := internal.InitLogging(stdout, cfg.LogLevel)
	if err != nil {
		return err
	}

	if err := cfg.ResolveAPIKey(opts.apiKey); err != nil {
		return err
	}
	modes, err := cfg.SelectModes(opts.modes)
	if err != nil {
		return err
	}
	modes = append([]config.Mode(nil), modes...)
	for i := range modes {
		modes[i].Output = cfg.OutputPath(modes[i])
	}

	log.Info("fetching stops feed", "source", cfg.Feed.StopsURL)
	raw, err := gtfs.NewFetcher(nil).Fetch(ctx, cfg.Feed.StopsURL)
	if err != nil {
		return err
	}
	records, err := gtfs.Parse(raw)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errNoStops
	}
	log.Info("parsed stops feed", "stops", len(records))

	limiter, err := throttle.FromConfig(cfg.Throttle)
	if err != nil {
		return err
	}
	client := stopfinder.NewClient(stopfinder.ClientOptions{
		URL:        cfg.Lookup.URL,
		APIKey:     cfg.APIKey,
		Style:      cfg.Lookup.Style,
		TypeFilter: cfg.Lookup.TypeFilter,
		Timeout:    time.Duration(cfg.Lookup.TimeoutMS) * time.Millisecond,
	})
	comp := compiler.New(stopfinder.NewMatcher(client, log), compiler.Options{
		Limiter:       limiter,
		ProgressEvery: cfg.Output.ProgressEvery,
		Observer:      compiler.LogObserver{Log: log},
		Logger:        log,
	})

	log.Info("starting compilation", "run_id", comp.RunID(), "modes", len(modes))
	if _, err := comp.Run(ctx, modes, records); err != nil {
		return fmt.Errorf("run %s: %w", comp.RunID(), err)
	}
	log.Info("All compilation complete", "run_id", comp.RunID())
	return nil
}
