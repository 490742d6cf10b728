package stopfinder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Searcher is the lookup collaborator consumed by Matcher
type Searcher interface {
	Search(ctx context.Context, text string, maxResults int) (*Response, error)
}

// Matcher turns stop finder candidates into verified stops
type Matcher struct {
	search Searcher
	log    *slog.Logger
}

// NewMatcher creates a new matcher. A nil logger uses slog.Default().
func NewMatcher(s Searcher, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{search: s, log: logger}
}

// Verify confirms feedID against the stop finder for productClass.
//
// It returns (nil, nil) when feedID is blank, when there are no candidates,
// when no candidate id equals feedID exactly, or when the exact candidate is
// not a stop serving productClass. A recoverable lookup failure is logged and
// returned as (nil, *MatchError). A rate limit or cancellation is returned
// unchanged and must abort the run.
func (m *Matcher) Verify(ctx context.Context, feedID string, productClass int) (*VerifiedStop, error) {
	if strings.TrimSpace(feedID) == "" {
		return nil, nil
	}

	resp, err := m.search.Search(ctx, feedID, 1)
	if err != nil {
		var me *MatchError
		var rl *RateLimitError
		switch {
		case errors.As(err, &rl):
			m.log.Error("rate limit hit; increase the throttle delay", "stop_id", feedID)
		case errors.As(err, &me):
			if me.Status != 0 {
				m.log.Warn("stop finder API error", "stop_id", feedID, "status", me.Status, "message", me.Message)
			} else {
				m.log.Warn("stop finder network error", "stop_id", feedID, "error", me.Err)
			}
		}
		return nil, err
	}
	if resp == nil || len(resp.Locations) == 0 {
		return nil, nil
	}

	loc, ok := exactMatch(resp.Locations, feedID)
	if !ok {
		return nil, nil
	}
	if loc.Type != LocationStop || !loc.Serves(productClass) {
		return nil, nil
	}
	return &VerifiedStop{
		ID:     loc.ID,
		Name:   loc.DisplayName(),
		Suburb: loc.Suburb(),
	}, nil
}

// exactMatch guards against fuzzy search hits: only an identical id counts.
func exactMatch(locs []Location, id string) (Location, bool) {
	for _, l := range locs {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
