package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/atoll101/tfnsw-realtime/stopfinder"
)

// Warning type constants
const (
	WarningNetwork      = "network_error"
	WarningUnauthorized = "unauthorized"
	WarningClientError  = "client_error"
	WarningServerError  = "server_error"
	WarningIDMismatch   = "id_mismatch"
	WarningBlankID      = "blank_id"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects recoverable failures during one mode and
// outputs a consolidated summary
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example stop id
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// AddError classifies a recoverable lookup error. example identifies the
// record in the summary.
func (w *WarningAggregator) AddError(example string, err error) {
	if errors.Is(err, stopfinder.ErrBlankID) {
		w.Add(WarningBlankID, example)
		return
	}
	var me *stopfinder.MatchError
	if !errors.As(err, &me) {
		w.Add(WarningNetwork, example)
		return
	}
	switch {
	case me.Status == 0:
		w.Add(WarningNetwork, example)
	case me.Status == http.StatusUnauthorized || me.Status == http.StatusForbidden:
		w.Add(WarningUnauthorized, example)
	case me.Status >= 500:
		w.Add(WarningServerError, example)
	default:
		w.Add(WarningClientError, example)
	}
}

// CountOf returns the number of warnings of one type
func (w *WarningAggregator) CountOf(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// Count returns the total number of recorded warnings
func (w *WarningAggregator) Count() int {
	n := 0
	for _, info := range w.warnings {
		n += info.count
	}
	return n
}

// LogAll outputs all collected warnings, one line per type, in a stable order
func (w *WarningAggregator) LogAll(log *slog.Logger, mode, runID string) {
	if len(w.warnings) == 0 {
		return
	}

	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, warningType := range types {
		log.Warn(w.formatWarningMessage(warningType, mode, w.warnings[warningType]), "run_id", runID)
	}
}

// formatWarningMessage creates a human-readable warning message
func (w *WarningAggregator) formatWarningMessage(warningType, mode string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningNetwork:
		description = "stop finder requests that failed at the network level"
		action = "Treated as no match"
	case WarningUnauthorized:
		description = "stop finder requests rejected as unauthorized"
		action = "Treated as no match; check the API key"
	case WarningClientError:
		description = "stop finder requests rejected with a 4xx status"
		action = "Treated as no match"
	case WarningServerError:
		description = "stop finder requests failing with a 5xx status"
		action = "Treated as no match"
	case WarningBlankID:
		description = "feed records with a blank stop id"
		action = "Skipped without a lookup"
	case WarningIDMismatch:
		description = "verified stops whose id differs from the queried feed id"
		action = "Dropped from the artifact"
	default:
		description = "unknown issue"
		action = "Treated as no match"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("Mode %s has %s (%d occurrences). %s. Examples: %s",
		mode, description, info.count, action, examplesStr)
}
