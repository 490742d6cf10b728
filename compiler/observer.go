package compiler

import (
	"context"
	"log/slog"

	"github.com/atoll101/tfnsw-realtime/config"
)

// Observer provides hooks around each compiled mode. BeforeMode is called
// before the first record, Progress every ProgressEvery records, and
// AfterMode once the mode is written or has failed.
type Observer interface {
	BeforeMode(ctx context.Context, runID string, mode config.Mode, total int)
	Progress(ctx context.Context, runID string, mode config.Mode, processed, total, found int)
	AfterMode(ctx context.Context, runID string, res Result, err error)
}

// LogObserver reports run progress through slog
type LogObserver struct {
	Log *slog.Logger
}

func (o LogObserver) logger() *slog.Logger {
	if o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

// BeforeMode logs the mode about to be compiled
func (o LogObserver) BeforeMode(ctx context.Context, runID string, mode config.Mode, total int) {
	o.logger().InfoContext(ctx, "compiling mode", "run_id", runID, "mode", mode.Name, "product_class", mode.ProductClass, "stops", total)
}

// Progress logs a progress marker
func (o LogObserver) Progress(ctx context.Context, runID string, mode config.Mode, processed, total, found int) {
	o.logger().InfoContext(ctx, "progress", "run_id", runID, "mode", mode.Name, "processed", processed, "total", total, "found", found)
}

// AfterMode logs the outcome of a mode
func (o LogObserver) AfterMode(ctx context.Context, runID string, res Result, err error) {
	if err != nil {
		o.logger().ErrorContext(ctx, "mode aborted", "run_id", runID, "mode", res.Mode.Name, "processed", res.Processed, "error", err)
		return
	}
	o.logger().InfoContext(ctx, "mode compiled", "run_id", runID, "mode", res.Mode.Name, "stops", len(res.Stops), "path", res.Path, "lookup_failures", res.Failures, "blank_ids", res.BlankIDs)
}

type nopObserver struct{}

func (nopObserver) BeforeMode(context.Context, string, config.Mode, int) {}
func (nopObserver) Progress(context.Context, string, config.Mode, int, int, int) {}
func (nopObserver) AfterMode(context.Context, string, Result, error) {}
