package savefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sample = `
[scene]
zoom: 1.25
pan_x: 10
pan_y: -4

[shape_manager]
shape {
	name: Pentagon
	rotation: 36
	scale: 1
	position: (0, 0)
	vertices: [
		(0, 25)
		(23.7, 7.7)
		(14.7, -20.2)
	]
	colour: (0.9, 0.12, 0.25)
	outline_colour: (0, 0, 0)
}
shape {
	name: Triangle
	vertices: [
		(0, 10)
	]
}
shape {
	name: Square
}
`

func read(t *testing.T, text string) *Document {
	t.Helper()
	d := NewDocument()
	if err := d.Read(strings.NewReader(text)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	return d
}

func TestWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter()
	if err := w.StartStream(&buf); err != nil {
		t.Fatal(err)
	}
	w.StartSection("scene")
	w.AddValue("zoom", 1.25)
	w.AddValue("pan_x", 10)
	w.EndSection()
	w.StartSection("shape_manager")
	w.StartKey("shape")
	w.AddValue("name", "Pentagon")
	w.AddArray("vertices", []string{"(0, 25)", "(1, 2)"})
	w.EndKey()
	w.EndSection()
	if err := w.StopSave(); err != nil {
		t.Fatal(err)
	}

	want := "\n[scene]\nzoom: 1.25\npan_x: 10\n" +
		"\n[shape_manager]\nshape {\n\tname: Pentagon\n\tvertices: [\n\t\t(0, 25)\n\t\t(1, 2)\n\t]\n}\n"
	if buf.String() != want {
		t.Errorf("output mismatch\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func TestWriterTracksScope(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter()
	w.StartStream(&buf)
	w.StartSection("s")
	w.StartKey("k")
	if w.Section() != "s" || w.Key() != "k" {
		t.Errorf("scope = %q/%q, want s/k", w.Section(), w.Key())
	}
	w.EndKey()
	w.EndSection()
	if w.Section() != "" || w.Key() != "" {
		t.Errorf("scope not cleared: %q/%q", w.Section(), w.Key())
	}
	w.StopSave()
}

func TestWriterSaveInProgress(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()
	if err := w.StartSave(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatal(err)
	}
	if !w.InProgress() {
		t.Error("expected save in progress")
	}
	err := w.StartSave(filepath.Join(dir, "b.txt"))
	if !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("second StartSave error = %v, want ErrSaveInProgress", err)
	}
	if err := w.StartStream(&bytes.Buffer{}); !errors.Is(err, ErrSaveInProgress) {
		t.Errorf("StartStream during save error = %v", err)
	}
	if err := w.StopSave(); err != nil {
		t.Fatal(err)
	}
	if err := w.StartSave(filepath.Join(dir, "b.txt")); err != nil {
		t.Errorf("StartSave after StopSave: %v", err)
	}
	w.StopSave()
}

func TestWriterIdleIsNoop(t *testing.T) {
	w := NewWriter()
	w.StartSection("s")
	w.StartKey("k")
	w.AddValue("a", 1)
	w.AddArray("b", []string{"x"})
	w.EndKey()
	w.EndSection()
	if err := w.StopSave(); err != nil {
		t.Errorf("StopSave on idle writer: %v", err)
	}
	if w.InProgress() {
		t.Error("idle writer reports a save in progress")
	}
}

func TestWriterEndKeyFloorsNesting(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter()
	w.StartStream(&buf)
	w.EndKey()
	w.EndKey()
	w.AddValue("a", "b")
	w.StopSave()
	if buf.String() != "\n}\n}\na: b" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriterCreateFails(t *testing.T) {
	w := NewWriter()
	err := w.StartSave(filepath.Join(t.TempDir(), "missing", "dir", "save.txt"))
	if err == nil {
		t.Fatal("expected error creating file in a missing directory")
	}
	if w.InProgress() {
		t.Error("failed StartSave must not leave a save open")
	}
}

func TestStrings(t *testing.T) {
	got := Strings([]float64{1.5, 2, -0.25})
	if !slices.Equal(got, []string{"1.5", "2", "-0.25"}) {
		t.Errorf("Strings = %q", got)
	}
}

func TestReadSections(t *testing.T) {
	d := read(t, sample)
	if got := d.Sections(); !slices.Equal(got, []string{"scene", "shape_manager"}) {
		t.Errorf("sections = %q", got)
	}
	vals := d.SectionValues("scene")
	if vals["zoom"] != "1.25" || vals["pan_x"] != "10" || vals["pan_y"] != "-4" {
		t.Errorf("scene values = %v", vals)
	}
	if got := d.SectionKeys("shape_manager"); !slices.Equal(got, []string{"shape"}) {
		t.Errorf("keys = %q", got)
	}
}

func TestReadNonUniqueKeys(t *testing.T) {
	d := read(t, sample)
	recs := d.SectionKeyValues("shape_manager", "shape")
	if len(recs) != 3 {
		t.Fatalf("got %d shape records, want 3", len(recs))
	}
	for i, want := range []string{"Pentagon", "Triangle", "Square"} {
		if recs[i]["name"] != want {
			t.Errorf("record %d name = %q, want %q", i, recs[i]["name"], want)
		}
	}
	arrs := d.SectionKeyArrays("shape_manager", "shape")
	if len(arrs) != 3 {
		t.Fatalf("got %d array maps, want 3", len(arrs))
	}
	if got := arrs[0]["vertices"]; !slices.Equal(got, []string{"(0, 25)", "(23.7, 7.7)", "(14.7, -20.2)"}) {
		t.Errorf("vertices = %q", got)
	}
	if got := arrs[1]["vertices"]; !slices.Equal(got, []string{"(0, 10)"}) {
		t.Errorf("second vertices = %q", got)
	}
	if len(arrs[2]) != 0 {
		t.Errorf("third record should have no arrays, got %v", arrs[2])
	}
	if recs[0]["colour"] != "(0.9, 0.12, 0.25)" {
		t.Errorf("colour = %q", recs[0]["colour"])
	}
}

func TestReadSectionArrays(t *testing.T) {
	d := read(t, "[s]\nlist: [\na\nb c\n]\nafter: 1\n")
	if got := d.SectionArrays("s")["list"]; !slices.Equal(got, []string{"a", "b c"}) {
		t.Errorf("list = %q", got)
	}
	if d.SectionValues("s")["after"] != "1" {
		t.Error("scalar after an array was not read")
	}
}

func TestReadArrayKeepsColons(t *testing.T) {
	d := read(t, "[s]\ntimes: [\n12:30\n]\n")
	if got := d.SectionArrays("s")["times"]; !slices.Equal(got, []string{"12:30"}) {
		t.Errorf("times = %q", got)
	}
}

func TestReadValueSplitsAtFirstSeparator(t *testing.T) {
	d := read(t, "[s]\nurl: http://x\nempty:\n")
	if got := d.SectionValues("s")["url"]; got != "http://x" {
		t.Errorf("url = %q", got)
	}
	if got, ok := d.SectionValues("s")["empty"]; !ok || got != "" {
		t.Errorf("empty = %q, %v", got, ok)
	}
}

func TestReadLastWriteWins(t *testing.T) {
	d := read(t, "[s]\na: 1\na: 2\nl: [\nx\n]\nl: [\ny\n]\n")
	if d.SectionValues("s")["a"] != "2" {
		t.Errorf("a = %q, want 2", d.SectionValues("s")["a"])
	}
	if got := d.SectionArrays("s")["l"]; !slices.Equal(got, []string{"y"}) {
		t.Errorf("l = %q, want [y]", got)
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	d := read(t, "[s]\njunk line\na: 1\n\n   \nmore junk\n")
	if d.SectionValues("s")["a"] != "1" {
		t.Error("valid value lost around malformed lines")
	}
	if got := d.Skipped(); !slices.Equal(got, []int{2, 6}) {
		t.Errorf("skipped = %v, want [2 6]", got)
	}
}

func TestReadSkipsOverlongLines(t *testing.T) {
	defer func(n int) { maxLineLength = n }(maxLineLength)
	maxLineLength = 8

	long := "k: " + strings.Repeat("x", 5000)
	d := read(t, "[s]\n"+long+"\na: 1\nnope: 123456789\nb: 2")
	vals := d.SectionValues("s")
	if vals["a"] != "1" || vals["b"] != "2" {
		t.Errorf("values = %v", vals)
	}
	if _, ok := vals["k"]; ok {
		t.Error("overlong line should not be stored")
	}
	if got := d.Skipped(); !slices.Equal(got, []int{2, 4}) {
		t.Errorf("skipped = %v, want [2 4]", got)
	}
}

func TestReadKeyReopenedNonContiguously(t *testing.T) {
	d := read(t, "[s]\na {\nx: 1\n}\nb {\ny: 2\n}\na {\nx: 3\n}\n")
	a := d.SectionKeyValues("s", "a")
	if len(a) != 2 || a[0]["x"] != "1" || a[1]["x"] != "3" {
		t.Errorf("a records = %v", a)
	}
	if b := d.SectionKeyValues("s", "b"); len(b) != 1 || b[0]["y"] != "2" {
		t.Errorf("b records = %v", b)
	}
	if got := d.SectionKeys("s"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("keys = %q", got)
	}
}

func TestReadKeyReopenedWithoutClose(t *testing.T) {
	// Second "a {" while the first is still open sees index 1 != active 0
	// and starts a new instance.
	d := read(t, "[s]\na {\nx: 1\na {\nx: 2\n}\n")
	a := d.SectionKeyValues("s", "a")
	if len(a) != 2 || a[0]["x"] != "1" || a[1]["x"] != "2" {
		t.Errorf("a records = %v", a)
	}
}

func TestReadReopenAtActiveIndexStaysInRange(t *testing.T) {
	// "a {" twice leaves index 1 active. Opening "c {" when c already has
	// one instance computes index 1 again; the record must still land in a
	// fresh instance rather than past the end.
	d := read(t, "[s]\nc {\nz: 0\n}\na {\na {\nc {\nz: 9\n}\n")
	c := d.SectionKeyValues("s", "c")
	if len(c) != 2 || c[0]["z"] != "0" || c[1]["z"] != "9" {
		t.Errorf("c records = %v", c)
	}
}

func TestReadRedeclaredSectionStartsOver(t *testing.T) {
	d := read(t, "[s]\na: 1\n[t]\n[s]\nb: 2\n")
	if got := d.Sections(); !slices.Equal(got, []string{"s", "t"}) {
		t.Errorf("sections = %q", got)
	}
	if _, ok := d.SectionValues("s")["a"]; ok {
		t.Error("redeclared section kept old values")
	}
	if d.SectionValues("s")["b"] != "2" {
		t.Error("redeclared section lost new values")
	}
}

func TestReadValuesBeforeSection(t *testing.T) {
	d := read(t, "orphan: yes\n[s]\n")
	if d.SectionValues("")["orphan"] != "yes" {
		t.Error("value before any section should land in the unnamed scope")
	}
	if got := d.Sections(); !slices.Equal(got, []string{"s"}) {
		t.Errorf("sections = %q", got)
	}
}

func TestPrintValuesBeforeSection(t *testing.T) {
	d := read(t, "orphan: yes\n[s]\na: 1\n")
	var buf bytes.Buffer
	if err := Print(&buf, d); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "orphan: yes\n[s]\na: 1\n"; got != want {
		t.Errorf("print = %q, want %q", got, want)
	}
}

func TestReadWindowsLineEndings(t *testing.T) {
	d := read(t, "[s]\r\na: 1\r\nk {\r\nb: 2\r\n}\r\n")
	if d.SectionValues("s")["a"] != "1" {
		t.Errorf("a = %q", d.SectionValues("s")["a"])
	}
	if got := d.SectionKeyValues("s", "k"); len(got) != 1 || got[0]["b"] != "2" {
		t.Errorf("k = %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	d := read(t, sample)
	if d.Load(filepath.Join(t.TempDir(), "nope.txt")) {
		t.Fatal("Load of a missing file should fail")
	}
	if len(d.Sections()) != 0 || d.SectionValues("scene") != nil {
		t.Error("failed Load must still clear previous state")
	}
	if err := d.LoadFile(filepath.Join(t.TempDir(), "nope.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile error = %v, want ErrNotExist", err)
	}
}

func TestLoadResetsBetweenCalls(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	os.WriteFile(first, []byte(sample), 0o644)
	os.WriteFile(second, []byte("[other]\nk {\nv: 1\n}\n"), 0o644)

	d := NewDocument()
	if !d.Load(first) || !d.Load(second) {
		t.Fatal("Load failed")
	}
	if got := d.Sections(); !slices.Equal(got, []string{"other"}) {
		t.Errorf("sections after second load = %q", got)
	}
	if d.SectionKeyValues("shape_manager", "shape") != nil {
		t.Error("records from the first load survived")
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.txt")
	w := NewWriter()
	if err := w.StartSave(path); err != nil {
		t.Fatal(err)
	}
	w.StartSection("shape_manager")
	for _, name := range []string{"A", "B", "C"} {
		w.StartKey("shape")
		w.AddValue("name", name)
		w.AddArray("vertices", []string{"(1, 2)", "(3, 4)"})
		w.EndKey()
	}
	w.EndSection()
	if err := w.StopSave(); err != nil {
		t.Fatal(err)
	}

	d := NewDocument()
	if !d.Load(path) {
		t.Fatal("Load failed")
	}
	recs := d.SectionKeyValues("shape_manager", "shape")
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, name := range []string{"A", "B", "C"} {
		if recs[i]["name"] != name {
			t.Errorf("record %d = %q, want %q", i, recs[i]["name"], name)
		}
		if got := d.SectionKeyArrays("shape_manager", "shape")[i]["vertices"]; len(got) != 2 {
			t.Errorf("record %d has %d vertices", i, len(got))
		}
	}
	if len(d.Skipped()) != 0 {
		t.Errorf("writer output produced skipped lines %v", d.Skipped())
	}
}

func TestPrintRoundTrip(t *testing.T) {
	d := read(t, sample)
	var buf bytes.Buffer
	if err := Print(&buf, d); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "[scene]\npan_x: 10\npan_y: -4\nzoom: 1.25\n") {
		t.Errorf("unexpected print output:\n%s", buf.String())
	}

	again := read(t, buf.String())
	if !slices.Equal(again.Sections(), d.Sections()) {
		t.Errorf("sections changed: %q", again.Sections())
	}
	recs := again.SectionKeyValues("shape_manager", "shape")
	if len(recs) != 3 || recs[2]["name"] != "Square" {
		t.Errorf("records changed: %v", recs)
	}
	if got := again.SectionKeyArrays("shape_manager", "shape")[0]["vertices"]; len(got) != 3 {
		t.Errorf("vertices changed: %q", got)
	}
}

func TestValuesTypedGetters(t *testing.T) {
	v := Values{"f": "1.5", "i": "10.7", "b": "true", "bad": "abc"}

	if f, err := v.Float("f"); err != nil || f != 1.5 {
		t.Errorf("Float = %v, %v", f, err)
	}
	if i, err := v.Int("i"); err != nil || i != 10 {
		t.Errorf("Int = %v, %v", i, err)
	}
	if b, err := v.Bool("b"); err != nil || !b {
		t.Errorf("Bool = %v, %v", b, err)
	}

	_, err := v.Float("bad")
	if !errors.Is(err, ErrValueParse) {
		t.Errorf("Float(bad) error = %v, want ErrValueParse", err)
	}
	var ve *ValueError
	if !errors.As(err, &ve) || ve.Label != "bad" || ve.Value != "abc" {
		t.Errorf("expected *ValueError for bad, got %#v", err)
	}
	if _, err := v.Bool("bad"); !errors.Is(err, ErrValueParse) {
		t.Errorf("Bool(bad) error = %v", err)
	}

	_, err = v.Float("missing")
	if !errors.Is(err, ErrMissingValue) || !errors.Is(err, ErrValueParse) {
		t.Errorf("Float(missing) error = %v, want ErrMissingValue and ErrValueParse", err)
	}

	var nilValues Values
	if _, err := nilValues.String("x"); !errors.Is(err, ErrMissingValue) {
		t.Errorf("nil Values lookup error = %v", err)
	}
}
