package scene

import (
	"fmt"

	"github.com/ChicagoDave/shapeeditor/pkg/geo"
	"github.com/ChicagoDave/shapeeditor/pkg/savefile"
	"github.com/ChicagoDave/shapeeditor/pkg/shape"
	"github.com/ChicagoDave/shapeeditor/pkg/validation"
)

// Save file section and record names owned by the collection.
const (
	SectionShapes = "shape_manager"
	KeyShape      = "shape"
)

const (
	fieldName          = "name"
	fieldRotation      = "rotation"
	fieldScale         = "scale"
	fieldPosition      = "position"
	fieldVertices      = "vertices"
	fieldColour        = "colour"
	fieldOutlineColour = "outline_colour"
)

// SaveShapes writes every shape in render order as a record of the shapes
// section. w must have a save in progress.
func SaveShapes(w *savefile.Writer, c *Collection) {
	w.StartSection(SectionShapes)
	for _, s := range c.Shapes() {
		w.StartKey(KeyShape)
		w.AddValue(fieldName, s.Name())
		w.AddValue(fieldRotation, s.Rotation())
		w.AddValue(fieldScale, s.Scale())
		w.AddValue(fieldPosition, s.Position())
		w.AddArray(fieldVertices, savefile.Strings(s.Vertices()))
		w.AddValue(fieldColour, s.Colour())
		w.AddValue(fieldOutlineColour, s.OutlineColour())
		w.EndKey()
	}
	w.EndSection()
}

// LoadShapes appends the shapes stored in doc to c in file order. Records
// that cannot be decoded are skipped and reported as errors.
func LoadShapes(doc *savefile.Document, c *Collection) *validation.Report {
	report := validation.NewReport()
	values := doc.SectionKeyValues(SectionShapes, KeyShape)
	arrays := doc.SectionKeyArrays(SectionShapes, KeyShape)
	loaded := 0
	for i, vals := range values {
		var arrs savefile.Arrays
		if i < len(arrays) {
			arrs = arrays[i]
		}
		s, err := decodeShape(vals, arrs)
		if err != nil {
			report.AddError(validation.Result{
				Level:   validation.LevelRecord,
				Message: err.Error(),
				Path:    fmt.Sprintf("%s/%s[%d]", SectionShapes, KeyShape, i),
			})
			continue
		}
		c.Add(s)
		loaded++
	}
	report.AddInfo(validation.Result{
		Level:   validation.LevelScene,
		Message: fmt.Sprintf("%d of %d shapes loaded", loaded, len(values)),
		Path:    SectionShapes,
	})
	return report
}

func decodeShape(vals savefile.Values, arrs savefile.Arrays) (*shape.Shape, error) {
	var vertices []geo.Point
	for j, raw := range arrs[fieldVertices] {
		p, err := geo.ParsePoint(raw)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", fieldVertices, j, err)
		}
		vertices = append(vertices, p)
	}
	position, err := parseField(vals, fieldPosition, geo.ParsePoint)
	if err != nil {
		return nil, err
	}
	rotation, err := vals.Float(fieldRotation)
	if err != nil {
		return nil, err
	}
	scale, err := vals.Float(fieldScale)
	if err != nil {
		return nil, err
	}
	colour, err := parseField(vals, fieldColour, geo.ParseColour)
	if err != nil {
		return nil, err
	}
	outline, err := parseField(vals, fieldOutlineColour, geo.ParseColour)
	if err != nil {
		return nil, err
	}

	s := shape.New(vals[fieldName], position, vertices)
	// Saved vertices already carry their rotation.
	s.SetRotation(rotation, false)
	s.SetScale(scale)
	s.SetColour(colour)
	s.SetOutlineColour(outline)
	return s, nil
}

func parseField[T any](vals savefile.Values, label string, parse func(string) (T, error)) (T, error) {
	var zero T
	raw, err := vals.String(label)
	if err != nil {
		return zero, err
	}
	v, err := parse(raw)
	if err != nil {
		return zero, &savefile.ValueError{Label: label, Value: raw, Err: err}
	}
	return v, nil
}

// CheckDocument reports lines the reader could not interpret.
func CheckDocument(doc *savefile.Document) *validation.Report {
	report := validation.NewReport()
	for _, n := range doc.Skipped() {
		report.AddWarning(validation.Result{
			Level:   validation.LevelDocument,
			Message: "unrecognised line ignored",
			Line:    n,
		})
	}
	return report
}
