package geo

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ChicagoDave/shapeeditor/pkg/textutil"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("geo: parse error")

// ParseError reports a tuple string that could not be read.
type ParseError struct {
	Kind  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s %q: %v", e.Kind, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// parseTuple strips brackets and spaces from s, splits on commas and parses
// the first n components. Extra components are ignored.
func parseTuple(kind, s string, n int) ([]float64, error) {
	parts := textutil.Split(textutil.Remove(s, '(', ')', ' '), ',')
	if len(parts) < n {
		return nil, &ParseError{Kind: kind, Input: s,
			Err: fmt.Errorf("want %d components, got %d", n, len(parts))}
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return nil, &ParseError{Kind: kind, Input: s, Err: err}
		}
		out[i] = v
	}
	return out, nil
}
