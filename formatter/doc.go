// Package formatter orders, serialises and persists compiled stop lists.
//
// This package is organized into:
// - json.go: ordering and JSON serialisation of verified stops
// - writer.go: atomic whole-file writes with parent directory creation
//
// Artifacts are a top-level JSON array of {id, name, suburb} objects, two
// space indented, sorted by name. A write either fully replaces the previous
// artifact or leaves it untouched.
package formatter
