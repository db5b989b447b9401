package main

import (
	"errors"
	"fmt"
)

// ErrInvalidFilterMode reports a filter mode outside {all, not_all}. This is
// a configuration error with no recovery.
var ErrInvalidFilterMode = errors.New("filter mode must be 'all' or 'not_all'")

// FetchError wraps any failure to download or parse the remote dataset. No
// chart output is possible once it occurs.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CastError reports non-numeric data in a column expected to be numeric. It
// signals a data-quality regression upstream and aborts the whole pipeline.
type CastError struct {
	Column string
	Value  string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %q in column %q to a number", e.Value, e.Column)
}
