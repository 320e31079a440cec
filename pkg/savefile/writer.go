package savefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer emits a save file sequentially. Every write starts on a new line,
// indented by the current record nesting. Writes made while no save is open
// are ignored.
type Writer struct {
	buf     *bufio.Writer
	closer  io.Closer
	section string
	key     string
	nesting int
	writing bool
}

// NewWriter returns an idle writer.
func NewWriter() *Writer {
	return &Writer{}
}

// StartSave creates (or truncates) the file at path and opens it for
// writing. StopSave must be called when done.
func (w *Writer) StartSave(path string) error {
	if w.writing {
		return ErrSaveInProgress
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating save file: %w", err)
	}
	w.begin(f, f)
	return nil
}

// StartStream opens out for writing. The stream is flushed, not closed, by
// StopSave.
func (w *Writer) StartStream(out io.Writer) error {
	if w.writing {
		return ErrSaveInProgress
	}
	w.begin(out, nil)
	return nil
}

func (w *Writer) begin(out io.Writer, closer io.Closer) {
	w.buf = bufio.NewWriter(out)
	w.closer = closer
	w.section, w.key, w.nesting = "", "", 0
	w.writing = true
}

// StopSave flushes and closes the current save. It is a no-op when nothing
// is open.
func (w *Writer) StopSave() error {
	if !w.writing {
		return nil
	}
	err := w.buf.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	w.buf, w.closer = nil, nil
	w.section, w.key, w.nesting = "", "", 0
	w.writing = false
	if err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	return nil
}

// InProgress reports whether a save is open.
func (w *Writer) InProgress() bool {
	return w.writing
}

// Section returns the section currently being written.
func (w *Writer) Section() string { return w.section }

// Key returns the record currently being written.
func (w *Writer) Key() string { return w.key }

// StartSection writes a "[name]" header.
func (w *Writer) StartSection(name string) {
	if !w.writing {
		return
	}
	w.write(string(sectionStart) + name + string(sectionEnd))
	w.section = name
}

// EndSection closes the current section with a blank line.
func (w *Writer) EndSection() {
	if !w.writing {
		return
	}
	w.buf.WriteByte(itemSeparator)
	w.section = ""
}

// StartKey opens a "name {" record and indents what follows.
func (w *Writer) StartKey(name string) {
	if !w.writing {
		return
	}
	w.write(name + " " + string(keyStart))
	w.key = name
	w.nesting++
}

// EndKey closes the current record.
func (w *Writer) EndKey() {
	if !w.writing {
		return
	}
	w.nesting = max(w.nesting-1, 0)
	w.write(string(keyEnd))
	w.key = ""
}

// AddValue writes "label: value". Values are formatted with fmt, so types
// implementing fmt.Stringer are written in their String form.
func (w *Writer) AddValue(label string, value any) {
	if !w.writing {
		return
	}
	w.write(label + string(valueSeparator) + " " + fmt.Sprint(value))
}

// AddArray writes a one dimensional array, one element per line.
func (w *Writer) AddArray(label string, items []string) {
	if !w.writing {
		return
	}
	w.write(label + string(valueSeparator) + " " + string(arrayStart))
	w.nesting++
	for _, item := range items {
		w.write(item)
	}
	w.nesting--
	w.write(string(arrayEnd))
}

func (w *Writer) write(s string) {
	w.buf.WriteByte(itemSeparator)
	w.buf.WriteString(strings.Repeat(string(indent), w.nesting))
	w.buf.WriteString(s)
}

// Strings formats each item with fmt for use with AddArray.
func Strings[T any](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}
	return out
}
