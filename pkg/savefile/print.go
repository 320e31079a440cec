package savefile

import (
	"io"
	"maps"
	"slices"
	"strings"
)

// Print writes a loaded document back out in file syntax. Labels within a
// scope are sorted; sections and records keep their loaded order. Anything
// read before the first section header comes first, without a header.
func Print(out io.Writer, d *Document) error {
	var b strings.Builder
	if s := d.sections[""]; s != nil && !slices.Contains(d.order, "") {
		printSection(&b, s)
	}
	for _, name := range d.order {
		b.WriteByte(sectionStart)
		b.WriteString(name)
		b.WriteByte(sectionEnd)
		b.WriteByte(itemSeparator)
		printSection(&b, d.sections[name])
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func printSection(b *strings.Builder, s *section) {
	printScope(b, s.values, s.arrays, 0)
	for _, key := range s.keys {
		for i := range s.keyValues[key] {
			b.WriteString(key + " " + string(keyStart) + string(itemSeparator))
			printScope(b, s.keyValues[key][i], s.keyArrays[key][i], 1)
			b.WriteString(string(keyEnd) + string(itemSeparator))
		}
	}
}

func printScope(b *strings.Builder, values Values, arrays Arrays, level int) {
	tabs := strings.Repeat(string(indent), level)
	for _, label := range slices.Sorted(maps.Keys(values)) {
		b.WriteString(tabs + label + string(valueSeparator) + " " + values[label] + string(itemSeparator))
	}
	for _, label := range slices.Sorted(maps.Keys(arrays)) {
		b.WriteString(tabs + label + string(valueSeparator) + " " + string(arrayStart) + string(itemSeparator))
		for _, item := range arrays[label] {
			b.WriteString(tabs + string(indent) + item + string(itemSeparator))
		}
		b.WriteString(tabs + string(arrayEnd) + string(itemSeparator))
	}
}
