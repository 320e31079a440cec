// Package textutil holds the small string helpers shared by the save file
// reader and the geometry parsers.
package textutil

import "strings"

// Split breaks s at every occurrence of sep. A trailing empty field is
// dropped, so "a,b," yields ["a" "b"] and "" yields nothing.
func Split(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, string(sep))
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Remove returns s with every occurrence of each of chars stripped.
func Remove(s string, chars ...byte) string {
	if len(chars) == 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		for _, c := range chars {
			if r == rune(c) {
				return -1
			}
		}
		return r
	}, s)
}

// CutLabel splits a "label<sep> value" line at the first sep. One leading
// space is trimmed from the value; any further whitespace is preserved.
func CutLabel(line string, sep byte) (label, value string, ok bool) {
	label, value, ok = strings.Cut(line, string(sep))
	value = strings.TrimPrefix(value, " ")
	return label, value, ok
}
