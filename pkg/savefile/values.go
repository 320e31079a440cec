package savefile

import (
	"strconv"
)

// Values maps value labels to their raw string values within one scope.
type Values map[string]string

// Arrays maps array labels to their raw string elements within one scope.
type Arrays map[string][]string

// String returns the raw value stored under label.
func (v Values) String(label string) (string, error) {
	s, ok := v[label]
	if !ok {
		return "", &ValueError{Label: label, Err: ErrMissingValue}
	}
	return s, nil
}

// Float parses the value stored under label as a float64.
func (v Values) Float(label string) (float64, error) {
	s, err := v.String(label)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValueError{Label: label, Value: s, Err: err}
	}
	return f, nil
}

// Int parses the value stored under label as a number and truncates it
// toward zero, so "10.7" reads as 10.
func (v Values) Int(label string) (int, error) {
	f, err := v.Float(label)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Bool parses the value stored under label with strconv.ParseBool.
func (v Values) Bool(label string) (bool, error) {
	s, err := v.String(label)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, &ValueError{Label: label, Value: s, Err: err}
	}
	return b, nil
}
