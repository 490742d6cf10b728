package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/atoll101/tfnsw-realtime/config"
	"github.com/atoll101/tfnsw-realtime/formatter"
	"github.com/atoll101/tfnsw-realtime/gtfs"
	"github.com/atoll101/tfnsw-realtime/stopfinder"
	"github.com/atoll101/tfnsw-realtime/throttle"
)

const defaultProgressEvery = 100

// Verifier confirms one feed id for one product class.
type Verifier interface {
	Verify(ctx context.Context, feedID string, productClass int) (*stopfinder.VerifiedStop, error)
}

// WriteFunc persists one mode's sorted stops
type WriteFunc func(path string, stops []stopfinder.VerifiedStop) error

// Options configures a Compiler. Zero values select the defaults noted on
// each field.
type Options struct {
	Limiter       throttle.Limiter // default: no delay
	ProgressEvery int              // default: 100
	Observer      Observer         // default: none
	Logger        *slog.Logger     // default: slog.Default()
	Write         WriteFunc        // default: formatter.WriteStops
	RunID         string           // default: a new UUID
}

// Result is the outcome of one compiled mode
type Result struct {
	Mode      config.Mode
	Path      string
	Stops     []stopfinder.VerifiedStop
	Processed int
	Failures  int // recoverable lookup failures and id mismatches
	BlankIDs  int
}

// Compiler runs the verification loop
type Compiler struct {
	verifier      Verifier
	limiter       throttle.Limiter
	progressEvery int
	observer      Observer
	log           *slog.Logger
	write         WriteFunc
	runID         string
}

// New creates a compiler around v
func New(v Verifier, opts Options) *Compiler {
	c := &Compiler{
		verifier:      v,
		limiter:       opts.Limiter,
		progressEvery: opts.ProgressEvery,
		observer:      opts.Observer,
		log:           opts.Logger,
		write:         opts.Write,
		runID:         opts.RunID,
	}
	if c.limiter == nil {
		c.limiter = throttle.None{}
	}
	if c.progressEvery <= 0 {
		c.progressEvery = defaultProgressEvery
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.write == nil {
		c.write = formatter.WriteStops
	}
	if c.runID == "" {
		c.runID = uuid.New().String()
	}
	return c
}

// RunID identifies this compiler's run in logs and observer calls
func (c *Compiler) RunID() string { return c.runID }

// Run compiles every mode in order. mode.Output is used as the artifact
// path as given. On a fatal error Run stops immediately and returns the
// results of the modes that were already written.
func (c *Compiler) Run(ctx context.Context, modes []config.Mode, records []gtfs.StopRecord) ([]Result, error) {
	results := make([]Result, 0, len(modes))
	for _, mode := range modes {
		res, err := c.runMode(ctx, mode, records)
		c.observer.AfterMode(ctx, c.runID, res, err)
		if err != nil {
			return results, fmt.Errorf("compile %s: %w", mode.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Compiler) runMode(ctx context.Context, mode config.Mode, records []gtfs.StopRecord) (Result, error) {
	res := Result{Mode: mode, Path: mode.Output}
	c.observer.BeforeMode(ctx, c.runID, mode, len(records))

	found, order, err := c.collect(ctx, mode, records, &res)
	if err != nil {
		return res, err
	}

	stops := make([]stopfinder.VerifiedStop, 0, len(order))
	for _, id := range order {
		stops = append(stops, found[id])
	}
	formatter.SortStops(stops)
	res.Stops = stops

	if err := c.write(mode.Output, stops); err != nil {
		return res, fmt.Errorf("write %s: %w", mode.Output, err)
	}
	return res, nil
}

// collect runs the per-record loop for one mode. order keeps first-insertion
// order so the pre-sort sequence is deterministic.
func (c *Compiler) collect(ctx context.Context, mode config.Mode, records []gtfs.StopRecord, res *Result) (map[string]stopfinder.VerifiedStop, []string, error) {
	found := map[string]stopfinder.VerifiedStop{}
	var order []string
	warnings := NewWarningAggregator()
	defer func() {
		res.BlankIDs = warnings.CountOf(WarningBlankID)
		res.Failures = warnings.Count() - res.BlankIDs
		warnings.LogAll(c.log, mode.Name, c.runID)
	}()

	for _, rec := range records {
		stop, err := c.verifier.Verify(ctx, rec.FeedID, mode.ProductClass)
		switch {
		case err != nil && !stopfinder.IsRecoverable(err):
			return nil, nil, err
		case err != nil:
			warnings.AddError(rec.FeedID, err)
		case stop == nil:
			if strings.TrimSpace(rec.FeedID) == "" {
				warnings.AddError(rec.Name, stopfinder.ErrBlankID)
			}
		case stop.ID != rec.FeedID:
			warnings.Add(WarningIDMismatch, rec.FeedID)
		default:
			if _, dup := found[stop.ID]; !dup {
				found[stop.ID] = *stop
				order = append(order, stop.ID)
			}
		}

		res.Processed++
		if res.Processed%c.progressEvery == 0 {
			c.observer.Progress(ctx, c.runID, mode, res.Processed, len(records), len(found))
		}

		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			return nil, nil, fmt.Errorf("throttle: %w", err)
		}
	}
	return found, order, nil
}
