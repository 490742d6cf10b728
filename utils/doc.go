// Package utils provides internal helpers shared by the feed parser and the
// artifact writer.
//
// It contains:
//   - Locale-aware name collation used to order stops
package utils
