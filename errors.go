package domvisit

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned by a visitor for a primitive it does not handle.
	ErrUnsupported = errors.New("domvisit: operation not supported by visitor")
	// ErrUnbalanced reports an end event without a matching begin event.
	ErrUnbalanced = errors.New("domvisit: unbalanced begin/end events")
	// ErrUnsupportedVisitor reports a downstream visitor that supports neither
	// nodes nor both objects and arrays, leaving nothing to emulate with.
	ErrUnsupportedVisitor = errors.New("domvisit: visitor supports neither nodes nor objects and arrays")
)

// OpError records the visitor operation that failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op string, err error) error { return &OpError{Op: op, Err: err} }

func errUnknownFlag(name string) error { return fmt.Errorf("unknown capability %q", name) }

// results combines the outcomes of several downstream calls made for one
// upstream call. The first failure is kept; later calls are still issued.
type results struct {
	err error
}

func (r *results) add(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Combine returns the first non-nil error, mirroring how the adapter merges
// downstream results.
func Combine(errs ...error) error {
	var r results
	for _, err := range errs {
		r.add(err)
	}
	return r.err
}
