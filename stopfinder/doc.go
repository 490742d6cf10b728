// Package stopfinder verifies feed stop ids against the Trip Planner stop
// finder.
//
// Client issues the raw lookup (one query, one result, API-key header) and
// classifies failures: HTTP 429 becomes a *RateLimitError, every other HTTP
// or network failure becomes a *MatchError. Matcher applies the exact-id,
// stop-kind and product-class checks on top of the client and turns a
// confirmed candidate into a VerifiedStop.
//
// Only *MatchError is recoverable. Callers should treat anything else that
// Verify returns, including context cancellation, as fatal for the run.
package stopfinder
