// Package compiler produces the per-mode verified stop lists.
//
// A Compiler walks every mode in order and, inside a mode, every feed record
// in order, asking the Verifier about one record at a time. After each
// record, whatever the outcome, it waits on the configured throttle.Limiter.
// There is never more than one request in flight: the steady request rate
// comes from this single-flight loop plus the limiter.
//
// Within a mode the first verified stop for an id is kept. When a mode
// finishes, its stops are sorted by name and written to the mode's output
// path, replacing the previous artifact.
//
// A rate-limit error (or cancellation) aborts the whole run at once: the mode
// in progress is not written and later modes are not attempted. Artifacts of
// modes that already finished stay on disk. Any other lookup failure is
// counted, summarised per mode, and treated as "no match".
package compiler
