// Package editor holds the state of one editing session: the view, the
// shapes, the selection and the save file they persist to.
package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/ChicagoDave/shapeeditor/pkg/config"
	"github.com/ChicagoDave/shapeeditor/pkg/geo"
	"github.com/ChicagoDave/shapeeditor/pkg/savefile"
	"github.com/ChicagoDave/shapeeditor/pkg/scene"
	"github.com/ChicagoDave/shapeeditor/pkg/shape"
	"github.com/ChicagoDave/shapeeditor/pkg/validation"
)

var (
	ErrNoSelection      = errors.New("no shape selected")
	ErrShapeNotFound    = errors.New("shape not found")
	ErrUnknownShapeType = errors.New("unknown shape type")
	ErrUnknownColour    = errors.New("unknown colour")
)

// Editor is not safe for concurrent use.
type Editor struct {
	cfg      *config.Config
	path     string
	settings scene.Settings
	shapes   *scene.Collection
	catalog  *shape.Catalog
	writer   *savefile.Writer
	rng      *rand.Rand
}

// New creates an empty editor that saves to path.
func New(cfg *config.Config, path string) *Editor {
	return &Editor{
		cfg:      cfg,
		path:     path,
		settings: scene.DefaultSettings(),
		shapes:   scene.NewCollection(),
		catalog:  shape.NewCatalog(cfg.ShapeTypes, cfg.DefaultRadius),
		writer:   savefile.NewWriter(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Open creates an editor and loads path if it exists.
func Open(cfg *config.Config, path string) (*Editor, *validation.Report, error) {
	e := New(cfg, path)
	report, err := e.Load()
	if err != nil {
		return nil, nil, err
	}
	return e, report, nil
}

func (e *Editor) SavePath() string                { return e.path }
func (e *Editor) Settings() scene.Settings        { return e.settings }
func (e *Editor) Shapes() *scene.Collection       { return e.shapes }
func (e *Editor) Catalog() *shape.Catalog         { return e.catalog }
func (e *Editor) Config() *config.Config          { return e.cfg }
func (e *Editor) Shape(id uuid.UUID) *shape.Shape { return e.shapes.Get(id) }

// Selected returns the selected shape, if any.
func (e *Editor) Selected() (uuid.UUID, *shape.Shape) {
	return e.shapes.Selected()
}

// AddShape places a default pentagon at (x, y).
func (e *Editor) AddShape(x, y float64) uuid.UUID {
	log.Debugf("adding shape at (%v, %v)", x, y)
	return e.shapes.Add(shape.Pentagon(e.cfg.DefaultRadius, geo.Pt(x, y)))
}

// AddShapeOf places a copy of the named catalog shape at (x, y).
func (e *Editor) AddShapeOf(name string, x, y float64) (uuid.UUID, error) {
	t := e.catalog.Lookup(name)
	if t == nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownShapeType, name)
	}
	s := t.Clone()
	s.SetPosition(x, y)
	return e.shapes.Add(s), nil
}

// SelectAt selects the top-most shape under (x, y), raises it and shows its
// outline. A miss releases the current selection.
func (e *Editor) SelectAt(x, y float64) (uuid.UUID, bool) {
	id, ok := e.shapes.ShapeAt(x, y)
	if !ok {
		e.Release()
		return uuid.Nil, false
	}
	if prev, s := e.shapes.Selected(); s != nil && prev != id {
		s.SetOutlineVisible(false)
	}
	e.shapes.BringToFront(id)
	e.shapes.Select(id)
	e.shapes.Get(id).SetOutlineVisible(true)
	return id, true
}

// Release hides the selected shape's outline and clears the selection.
func (e *Editor) Release() {
	if _, s := e.shapes.Selected(); s != nil {
		s.SetOutlineVisible(false)
	}
	e.shapes.Deselect()
}

// Duplicate adds a copy of the selected shape, offset by a random amount
// within the configured duplicate offset on each axis.
func (e *Editor) Duplicate() (uuid.UUID, error) {
	_, s := e.shapes.Selected()
	if s == nil {
		return uuid.Nil, ErrNoSelection
	}
	c := s.Clone()
	c.SetOutlineVisible(false)
	c.Translate(e.jitter(), e.jitter())
	return e.shapes.Add(c), nil
}

func (e *Editor) jitter() float64 {
	n := int(e.cfg.DuplicateOffset)
	return float64(e.rng.IntN(2*n+1) - n)
}

// Delete removes a shape.
func (e *Editor) Delete(id uuid.UUID) error {
	if !e.shapes.Remove(id) {
		return ErrShapeNotFound
	}
	return nil
}

// DeleteSelected removes the selected shape.
func (e *Editor) DeleteSelected() error {
	id, _ := e.shapes.Selected()
	if id == uuid.Nil {
		return ErrNoSelection
	}
	return e.Delete(id)
}

// Clear removes every shape.
func (e *Editor) Clear() {
	e.shapes.Clear()
}

// Recolour fills the selected shape with a palette colour.
func (e *Editor) Recolour(name string) error {
	_, s := e.shapes.Selected()
	if s == nil {
		return ErrNoSelection
	}
	c, ok := e.cfg.Colour(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColour, name)
	}
	s.SetColour(c)
	return nil
}

// Morph turns a shape into the next (or previous) type in the catalog cycle.
func (e *Editor) Morph(id uuid.UUID, reverse bool) error {
	s := e.shapes.Get(id)
	if s == nil {
		return ErrShapeNotFound
	}
	next := e.catalog.Next(s.Name(), reverse)
	if next == nil {
		return fmt.Errorf("%w: %q is not in the morph cycle", ErrUnknownShapeType, s.Name())
	}
	s.Morph(next)
	return nil
}

// MorphSelected morphs the selected shape.
func (e *Editor) MorphSelected(reverse bool) error {
	id, _ := e.shapes.Selected()
	if id == uuid.Nil {
		return ErrNoSelection
	}
	return e.Morph(id, reverse)
}

// Rotate turns a shape by delta degrees.
func (e *Editor) Rotate(id uuid.UUID, delta float64) error {
	s := e.shapes.Get(id)
	if s == nil {
		return ErrShapeNotFound
	}
	s.RotateBy(delta)
	return nil
}

// Scale grows a shape's scale by amount.
func (e *Editor) Scale(id uuid.UUID, amount float64) error {
	s := e.shapes.Get(id)
	if s == nil {
		return ErrShapeNotFound
	}
	s.IncreaseScale(amount)
	return nil
}

// Move places a shape's centre at (x, y).
func (e *Editor) Move(id uuid.UUID, x, y float64) error {
	s := e.shapes.Get(id)
	if s == nil {
		return ErrShapeNotFound
	}
	s.SetPosition(x, y)
	return nil
}

// Pan shifts the view.
func (e *Editor) Pan(dx, dy int) {
	e.settings.Pan(dx, dy)
}

// Zoom adds delta to the zoom factor, clamped to the allowed range.
func (e *Editor) Zoom(delta float64) {
	e.settings.SetZoom(e.settings.Zoom + delta)
}

// Save writes the view settings and all shapes to the save file.
func (e *Editor) Save() error {
	if err := e.writer.StartSave(e.path); err != nil {
		return err
	}
	e.settings.Save(e.writer)
	scene.SaveShapes(e.writer, e.shapes)
	if err := e.writer.StopSave(); err != nil {
		return err
	}
	log.Infof("saved %d shapes to %s", e.shapes.Len(), e.path)
	return nil
}

// Load replaces the session with the contents of the save file. A missing
// file leaves the editor empty and is not an error.
func (e *Editor) Load() (*validation.Report, error) {
	report := validation.NewReport()
	doc := savefile.NewDocument()
	if err := doc.LoadFile(e.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Infof("no save file at %s, starting empty", e.path)
			report.AddInfo(validation.Result{
				Level:   validation.LevelDocument,
				Message: "no save file, starting empty",
				Path:    e.path,
			})
			return report, nil
		}
		return nil, err
	}

	e.shapes.Clear()
	settings, err := scene.LoadSettings(doc)
	if err != nil {
		report.AddWarning(validation.Result{
			Level:   validation.LevelScene,
			Message: err.Error(),
			Path:    scene.SectionSettings,
		})
	}
	e.settings = settings
	report.Merge(scene.CheckDocument(doc))
	report.Merge(scene.LoadShapes(doc, e.shapes))

	for _, r := range report.Errors {
		log.Warnf("%s: %s", r.Path, r.Message)
	}
	log.Infof("loaded %d shapes from %s", e.shapes.Len(), e.path)
	return report, nil
}

// Close performs the final save.
func (e *Editor) Close() error {
	return e.Save()
}
