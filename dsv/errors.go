package dsv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHeaderNotFound is returned when a field is requested under a name
	// the header does not contain and AllowMissing is disabled.
	ErrHeaderNotFound = errors.New("HEADER_NOT_FOUND")
	// ErrDuplicateHeader is returned when StrictHeaders is enabled and two
	// header names compare equal.
	ErrDuplicateHeader = errors.New("DUPLICATE_HEADER")
	// ErrMultipleAliasMatches is returned when more than one name of an
	// alias group resolves to a concrete header.
	ErrMultipleAliasMatches = errors.New("MULTIPLE_ALIAS_MATCHES")
	// ErrColumnCountMismatch is returned when StrictColumns is enabled and
	// a record's field count differs from the header count.
	ErrColumnCountMismatch = errors.New("COLUMN_COUNT_MISMATCH")
	// ErrRowShorterThanHeader is returned when a field is requested at a
	// position beyond the record's actual field count.
	ErrRowShorterThanHeader = errors.New("ROW_SHORTER_THAN_HEADER")
)

// Error couples one or more operation context tags with the underlying
// error, so a failure can be traced to the call site that produced it.
// The context chain is exposed by Context and GetErrorTrace; Error itself
// returns only the underlying message.
type Error struct {
	contexts []string
	err      error
}

func newError(context string, err error) Error {
	if inner, ok := err.(Error); ok {
		return Error{
			contexts: append([]string{context}, inner.contexts...),
			err:      inner.err,
		}
	}
	return Error{
		contexts: []string{context},
		err:      err,
	}
}

func newErrorf(context string, format string, v ...interface{}) Error {
	return newError(context, fmt.Errorf(format, v...))
}

func (e Error) Error() string {
	return e.err.Error()
}

// Context returns the operation tags attached to the error, outermost first.
func (e Error) Context() []string {
	return e.contexts
}

func (e Error) Unwrap() error {
	return e.err
}

func (e Error) trace() string {
	parts := make([]string, 0, len(e.contexts)+1)
	parts = append(parts, e.contexts...)
	parts = append(parts, e.err.Error())
	return strings.Join(parts, ":")
}

// GetErrorTrace formats err including its full context chain. Errors that
// did not originate in this package are returned unchanged.
func GetErrorTrace(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return errors.New(e.trace())
	}
	return err
}
