package catconf

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMarker is returned by New if the marker has no bytes.
	ErrEmptyMarker = errors.New("empty marker")
	// ErrPathResolution reports that the path of the running executable could not be determined.
	ErrPathResolution = errors.New("cannot resolve executable path")
	// ErrRead reports that the executable (or another input) could not be read.
	ErrRead = errors.New("cannot read executable")
	// ErrMarkerNotFound reports that the marker does not occur in the input.
	// This is the expected result for binaries without appended configuration.
	ErrMarkerNotFound = errors.New("marker not found")
)

// ConfErr reports problems while extracting configuration.
// Kind is one of the Err* sentinels and can be checked with errors.Is.
type ConfErr struct {
	Kind error
	Path string // empty if the input was not a file
	Err  error  // underlying cause, may be nil
}

func (e *ConfErr) Error() string {
	msg := "configuration error"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%q)", msg, e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfErr) Unwrap() error {
	return e.Err
}

func (e *ConfErr) Is(target error) bool {
	return target == e.Kind
}

func newConfErr(kind error, path string, cause error) *ConfErr {
	return &ConfErr{
		Kind: kind,
		Path: path,
		Err:  cause,
	}
}
