// Package scene owns the shapes on the canvas and maps them to and from the
// save file.
package scene

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/ChicagoDave/shapeeditor/pkg/shape"
)

// Collection exclusively owns its shapes. Shapes are addressed by stable
// handles; the render order is the order of IDs, last drawn on top.
type Collection struct {
	order    []uuid.UUID
	shapes   map[uuid.UUID]*shape.Shape
	selected uuid.UUID
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{shapes: make(map[uuid.UUID]*shape.Shape)}
}

// Add takes ownership of s and places it on top. A nil shape is ignored and
// returns uuid.Nil.
func (c *Collection) Add(s *shape.Shape) uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	id := uuid.New()
	c.shapes[id] = s
	c.order = append(c.order, id)
	return id
}

// Get returns the shape with the given handle, or nil.
func (c *Collection) Get(id uuid.UUID) *shape.Shape {
	return c.shapes[id]
}

// Remove deletes a shape. The selection is cleared if it referred to it.
func (c *Collection) Remove(id uuid.UUID) bool {
	if _, ok := c.shapes[id]; !ok {
		return false
	}
	delete(c.shapes, id)
	c.order = slices.DeleteFunc(c.order, func(o uuid.UUID) bool { return o == id })
	if c.selected == id {
		c.selected = uuid.Nil
	}
	return true
}

// Clear removes every shape and the selection.
func (c *Collection) Clear() {
	c.order = nil
	clear(c.shapes)
	c.selected = uuid.Nil
}

// Len returns the number of shapes.
func (c *Collection) Len() int {
	return len(c.order)
}

// IDs returns the handles in render order.
func (c *Collection) IDs() []uuid.UUID {
	return slices.Clone(c.order)
}

// Shapes returns the shapes in render order.
func (c *Collection) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, len(c.order))
	for i, id := range c.order {
		out[i] = c.shapes[id]
	}
	return out
}

// All iterates handles and shapes in render order.
func (c *Collection) All() iter.Seq2[uuid.UUID, *shape.Shape] {
	return func(yield func(uuid.UUID, *shape.Shape) bool) {
		for _, id := range c.order {
			if !yield(id, c.shapes[id]) {
				return
			}
		}
	}
}

// ShapeAt returns the top-most shape containing (x, y).
func (c *Collection) ShapeAt(x, y float64) (uuid.UUID, bool) {
	for i := len(c.order) - 1; i >= 0; i-- {
		id := c.order[i]
		if c.shapes[id].PointInShape(x, y) {
			return id, true
		}
	}
	return uuid.Nil, false
}

// BringToFront moves a shape to the top of the render order.
func (c *Collection) BringToFront(id uuid.UUID) bool {
	i := slices.Index(c.order, id)
	if i < 0 {
		return false
	}
	c.order = append(slices.Delete(c.order, i, i+1), id)
	return true
}

// Select marks a shape as selected. Unknown handles clear the selection.
func (c *Collection) Select(id uuid.UUID) bool {
	if _, ok := c.shapes[id]; !ok {
		c.selected = uuid.Nil
		return false
	}
	c.selected = id
	return true
}

// Selected returns the selected handle and shape, or uuid.Nil and nil.
func (c *Collection) Selected() (uuid.UUID, *shape.Shape) {
	if c.selected == uuid.Nil {
		return uuid.Nil, nil
	}
	return c.selected, c.shapes[c.selected]
}

// Deselect clears the selection.
func (c *Collection) Deselect() {
	c.selected = uuid.Nil
}
