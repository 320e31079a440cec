// Package savefile reads and writes the editor's scene file format.
//
// The format is line oriented. Sections hold scalar values, one dimensional
// arrays and any number of keyed records; record labels are not unique, so
// every occurrence of "label {" opens a new record instance:
//
//	[shape_manager]
//	shape {
//		name: Pentagon
//		position: (0, 0)
//		vertices: [
//			(0, 25)
//			(-23.78, 7.73)
//		]
//	}
//
// Values are stored and returned as strings. Records cannot nest and arrays
// cannot contain arrays. Tabs are cosmetic and stripped on read.
package savefile

import (
	"errors"
	"fmt"
)

const (
	sectionStart   = '['
	sectionEnd     = ']'
	keyStart       = '{'
	keyEnd         = '}'
	valueSeparator = ':'
	arrayStart     = '['
	arrayEnd       = ']'
	itemSeparator  = '\n'
	indent         = '\t'
)

var (
	// ErrSaveInProgress is returned when a save is started while another is
	// still open. Call StopSave first.
	ErrSaveInProgress = errors.New("savefile: save already in progress")

	// ErrValueParse is matched by every *ValueError.
	ErrValueParse = errors.New("savefile: value parse failure")

	// ErrMissingValue is wrapped by a *ValueError for a label that was never
	// loaded.
	ErrMissingValue = errors.New("savefile: missing value")
)

// ValueError reports a stored value that could not be converted to the type
// the caller asked for.
type ValueError struct {
	Label string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	if errors.Is(e.Err, ErrMissingValue) {
		return fmt.Sprintf("value %q: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("value %q = %q: %v", e.Label, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

func (e *ValueError) Is(target error) bool { return target == ErrValueParse }
