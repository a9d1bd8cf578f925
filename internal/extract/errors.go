// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
)

// Kind categorizes an extraction failure.
type Kind string

const (
	// KindResourceAccess means the file could not be read or written.
	KindResourceAccess Kind = "resource-access"

	// KindParse means the file contents are not well-formed JSON.
	KindParse Kind = "parse"

	// KindDataShape means the document is not an array of objects that all
	// carry the projected field.
	KindDataShape Kind = "data-shape"
)

// Causes wrapped by data-shape errors.
var (
	ErrNotArray     = errors.New("top-level value is not an array")
	ErrNotObject    = errors.New("element is not an object")
	ErrMissingField = errors.New("element has no field")
)

// noIndex marks an Error that is not tied to one array element.
const noIndex = -1

// Error is returned by every Extractor operation that fails.
type Error struct {
	Kind Kind

	// Path is the file being processed, empty when the caller worked on
	// bytes rather than a file.
	Path string

	// Index is the offending array element for data-shape errors, or -1.
	Index int

	Err error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(": element %d", e.Index)
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func resourceError(path string, err error) *Error {
	return &Error{Kind: KindResourceAccess, Path: path, Index: noIndex, Err: err}
}

func parseError(err error) *Error {
	return &Error{Kind: KindParse, Index: noIndex, Err: err}
}

func shapeError(index int, err error) *Error {
	return &Error{Kind: KindDataShape, Index: index, Err: err}
}

// withPath fills in the path on an *Error produced by a path-less helper.
func withPath(err error, path string) error {
	var e *Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}
