package savefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ChicagoDave/shapeeditor/pkg/textutil"
)

// section holds everything loaded under one "[name]" header.
type section struct {
	values    Values
	arrays    Arrays
	keys      []string
	keyValues map[string][]Values
	keyArrays map[string][]Arrays
}

func newSection() *section {
	return &section{
		values:    Values{},
		arrays:    Arrays{},
		keyValues: make(map[string][]Values),
		keyArrays: make(map[string][]Arrays),
	}
}

// Document is the in-memory result of loading a save file.
type Document struct {
	order    []string
	sections map[string]*section
	skipped  []int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.Reset()
	return d
}

// Reset discards everything previously loaded.
func (d *Document) Reset() {
	d.order = nil
	d.sections = make(map[string]*section)
	d.skipped = nil
}

// Load clears the document and reads the file at path. It returns false
// only when the file cannot be opened; malformed lines are skipped.
func (d *Document) Load(path string) bool {
	return d.LoadFile(path) == nil
}

// LoadFile is Load with the underlying error.
func (d *Document) LoadFile(path string) error {
	d.Reset()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening save file: %w", err)
	}
	defer f.Close()
	if err := d.Read(f); err != nil {
		return fmt.Errorf("reading save file: %w", err)
	}
	return nil
}

// maxLineLength bounds the bytes kept for one line. Longer lines are
// skipped.
var maxLineLength = 16 * 1024 * 1024

// Read clears the document and parses r in one pass. The only error is a
// failure of r itself.
func (d *Document) Read(r io.Reader) error {
	d.Reset()
	p := parser{doc: d}
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		text, tooLong, err := readLine(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if tooLong {
			d.skipped = append(d.skipped, n)
			continue
		}
		p.line(n, text)
	}
}

// readLine returns the next line without its terminator. The content of a
// line over maxLineLength is dropped and tooLong is set. io.EOF is returned
// only when no line is left.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && read {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}
		read = true
		if !tooLong {
			if len(buf)+len(chunk) > maxLineLength {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !more {
			return string(buf), tooLong, nil
		}
	}
}

// Sections returns the loaded section names in file order.
func (d *Document) Sections() []string {
	return slices.Clone(d.order)
}

// SectionKeys returns the distinct record labels of a section in order of
// first appearance.
func (d *Document) SectionKeys(name string) []string {
	if s := d.sections[name]; s != nil {
		return slices.Clone(s.keys)
	}
	return nil
}

// SectionValues returns the scalar values stored directly in a section.
func (d *Document) SectionValues(name string) Values {
	if s := d.sections[name]; s != nil {
		return s.values
	}
	return nil
}

// SectionArrays returns the arrays stored directly in a section.
func (d *Document) SectionArrays(name string) Arrays {
	if s := d.sections[name]; s != nil {
		return s.arrays
	}
	return nil
}

// SectionKeyValues returns one scalar map per record instance of key, in
// file order.
func (d *Document) SectionKeyValues(name, key string) []Values {
	if s := d.sections[name]; s != nil {
		return s.keyValues[key]
	}
	return nil
}

// SectionKeyArrays returns one array map per record instance of key, in
// file order.
func (d *Document) SectionKeyArrays(name, key string) []Arrays {
	if s := d.sections[name]; s != nil {
		return s.keyArrays[key]
	}
	return nil
}

// Skipped returns the 1-based numbers of non-blank lines that matched no
// rule, or were too long to keep, during the last load.
func (d *Document) Skipped() []int {
	return slices.Clone(d.skipped)
}

// parser is the reader state machine. A line containing the value separator,
// or any line while an array is open, is a value line; only other lines can
// open or close records and sections.
type parser struct {
	doc       *Document
	section   string
	key       string
	keyIndex  int
	inArray   bool
	arrayName string
}

func (p *parser) line(n int, text string) {
	text = strings.TrimSuffix(textutil.Remove(text, indent), "\r")
	switch {
	case strings.IndexByte(text, valueSeparator) >= 0 || p.inArray:
		p.value(text)
	case strings.IndexByte(text, keyStart) >= 0:
		p.openKey(strings.TrimSpace(textutil.Remove(text, keyStart)))
	case strings.IndexByte(text, keyEnd) >= 0:
		p.key = ""
		p.keyIndex = 0
	case len(text) > 0 && text[0] == sectionStart:
		p.openSection(strings.TrimSpace(textutil.Remove(text, sectionStart, sectionEnd)))
	default:
		if strings.TrimSpace(text) != "" {
			p.doc.skipped = append(p.doc.skipped, n)
		}
	}
}

func (p *parser) value(text string) {
	if p.inArray {
		if strings.IndexByte(text, arrayEnd) >= 0 {
			p.inArray = false
			return
		}
		arrays := p.arrays()
		arrays[p.arrayName] = append(arrays[p.arrayName], text)
		return
	}
	label, value, _ := textutil.CutLabel(text, valueSeparator)
	label = strings.TrimSpace(label)
	if strings.IndexByte(text, arrayStart) >= 0 {
		// The opening line only announces the array; a repeated label
		// starts over.
		p.inArray = true
		p.arrayName = label
		p.arrays()[label] = []string{}
		return
	}
	p.values()[label] = value
}

// openKey starts a new record instance. The instance index is the number of
// instances already stored for this label in the current section.
func (p *parser) openKey(label string) {
	s := p.scope()
	next := len(s.keyValues[label])
	if next == 0 {
		s.keys = append(s.keys, label)
	}
	if p.keyIndex != next || next == 0 {
		s.keyValues[label] = append(s.keyValues[label], Values{})
		s.keyArrays[label] = append(s.keyArrays[label], Arrays{})
		p.keyIndex = next
	}
	p.key = label
}

func (p *parser) openSection(name string) {
	if _, ok := p.doc.sections[name]; !ok {
		p.doc.order = append(p.doc.order, name)
	}
	p.doc.sections[name] = newSection()
	p.section = name
	p.key = ""
	p.keyIndex = 0
}

// scope returns the current section, creating it for values that appear
// before any section header.
func (p *parser) scope() *section {
	s := p.doc.sections[p.section]
	if s == nil {
		s = newSection()
		p.doc.sections[p.section] = s
	}
	return s
}

// instance makes sure the current record index exists. Reopening a label
// while its own index is still active would otherwise point one past the end.
func (p *parser) instance(s *section) int {
	for len(s.keyValues[p.key]) <= p.keyIndex {
		s.keyValues[p.key] = append(s.keyValues[p.key], Values{})
		s.keyArrays[p.key] = append(s.keyArrays[p.key], Arrays{})
	}
	return p.keyIndex
}

func (p *parser) values() Values {
	s := p.scope()
	if p.key == "" {
		return s.values
	}
	return s.keyValues[p.key][p.instance(s)]
}

func (p *parser) arrays() Arrays {
	s := p.scope()
	if p.key == "" {
		return s.arrays
	}
	return s.keyArrays[p.key][p.instance(s)]
}
