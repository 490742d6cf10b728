package gtfs

import (
	"errors"
	"fmt"
)

var (
	ErrFetch = errors.New("feed fetch failed")
	ErrParse = errors.New("feed parse failed")
)

// FetchError wraps a failed or empty feed download.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrFetch, e.Source)
	}
	return fmt.Sprintf("%s: %s: %v", ErrFetch, e.Source, e.Err)
}

func (e *FetchError) Unwrap() []error { return kindAnd(ErrFetch, e.Err) }

// ParseError wraps a malformed stops document. Line is 0 when unknown.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", ErrParse, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() []error { return kindAnd(ErrParse, e.Err) }

func parseErrorf(line int, format string, args ...any) error {
	return &ParseError{Line: line, Err: fmt.Errorf(format, args...)}
}

func kindAnd(kind, err error) []error {
	if err == nil {
		return []error{kind}
	}
	return []error{kind, err}
}
