// Package shape models editable polygon shapes: their outline, transform and
// hit testing.
//
// Rotation is baked into the stored vertices every time it changes. Scale is
// never baked in; it is applied wherever vertices are consumed so repeated
// scaling does not accumulate float drift.
package shape

import (
	"math"
	"slices"

	"github.com/ChicagoDave/shapeeditor/pkg/geo"
)

// Shape is a polygon entity with a position, rotation, scale and colours.
type Shape struct {
	name           string
	vertices       []geo.Point
	position       geo.Point
	rotation       float64
	scale          float64
	colour         geo.Colour
	outlineColour  geo.Colour
	outlineVisible bool
}

// New creates a shape from local-space vertices centred on position.
func New(name string, position geo.Point, vertices []geo.Point) *Shape {
	return &Shape{
		name:     name,
		position: position,
		vertices: slices.Clone(vertices),
		scale:    1,
	}
}

func (s *Shape) Name() string              { return s.name }
func (s *Shape) Position() geo.Point       { return s.position }
func (s *Shape) Rotation() float64         { return s.rotation }
func (s *Shape) Scale() float64            { return s.scale }
func (s *Shape) Colour() geo.Colour        { return s.colour }
func (s *Shape) OutlineColour() geo.Colour { return s.outlineColour }
func (s *Shape) OutlineVisible() bool      { return s.outlineVisible }

// Vertices returns the local-space outline with rotation applied and scale
// not applied. The slice is shared; callers must not modify it.
func (s *Shape) Vertices() []geo.Point { return s.vertices }

// WorldVertices returns the outline as drawn: each vertex scaled and moved
// to the shape's position.
func (s *Shape) WorldVertices() []geo.Point {
	return geo.NewPolygon(s.vertices...).Scaled(s.scale).Translated(s.position).Vertices
}

func (s *Shape) SetColour(c geo.Colour)        { s.colour = c }
func (s *Shape) SetOutlineColour(c geo.Colour) { s.outlineColour = c }
func (s *Shape) SetOutlineVisible(v bool)      { s.outlineVisible = v }

// RotateBy rotates the shape around its centre by delta degrees.
func (s *Shape) RotateBy(delta float64) {
	s.updateRotation(s.rotation + delta)
}

// SetRotation sets the rotation in degrees. When updateVertices is false only
// the stored value changes; loaders use this because saved vertices already
// carry their rotation.
func (s *Shape) SetRotation(degrees float64, updateVertices bool) {
	if updateVertices {
		s.updateRotation(degrees)
		return
	}
	s.rotation = degrees
}

func (s *Shape) updateRotation(newRotation float64) {
	newRotation = normalizeRotation(newRotation)
	delta := (s.rotation - newRotation) * math.Pi / 180
	for i, v := range s.vertices {
		s.vertices[i] = v.RotateClockwise(delta)
	}
	s.rotation = newRotation
}

// normalizeRotation wraps values beyond ±360 by integer truncation, so 725.5
// becomes 5 and -400 becomes -40.
func normalizeRotation(deg float64) float64 {
	if math.Abs(deg) > 360 {
		return float64(int(deg) % 360)
	}
	return deg
}

// ScaleBy multiplies the current scale by factor.
func (s *Shape) ScaleBy(factor float64) {
	s.SetScale(s.scale * factor)
}

// IncreaseScale adds amount to the current scale.
func (s *Shape) IncreaseScale(amount float64) {
	s.SetScale(s.scale + amount)
}

// SetScale sets the scale factor. Vertices are left untouched.
func (s *Shape) SetScale(v float64) {
	s.scale = v
}

// Translate moves the shape by (dx, dy) in world space.
func (s *Shape) Translate(dx, dy float64) {
	s.position.X += dx
	s.position.Y += dy
}

// SetPosition moves the shape's centre to (x, y).
func (s *Shape) SetPosition(x, y float64) {
	s.position = geo.Pt(x, y)
}

// PointInBounds reports whether (x, y) falls strictly inside the shape's
// scaled bounding box.
func (s *Shape) PointInBounds(x, y float64) bool {
	if len(s.vertices) == 0 {
		return false
	}
	local := geo.Pt(x, y).Sub(s.position)
	b := geo.NewPolygon(s.vertices...).Bounds()
	b.Min.X *= s.scale
	b.Min.Y *= s.scale
	b.Max.X *= s.scale
	b.Max.Y *= s.scale
	return geo.StrictlyInside(b, local)
}

// PointInShape reports whether (x, y) lies inside the scaled outline.
func (s *Shape) PointInShape(x, y float64) bool {
	if !s.PointInBounds(x, y) {
		return false
	}
	local := geo.Pt(x, y).Sub(s.position)
	return geo.NewPolygon(s.vertices...).Scaled(s.scale).Contains(local)
}

// Morph takes on other's outline and name while keeping this shape's scale
// and rotation. Position and colours are untouched. A nil other is a no-op.
func (s *Shape) Morph(other *Shape) {
	if other == nil {
		return
	}
	s.vertices = slices.Clone(other.vertices)
	scale, rotation := s.scale, s.rotation
	s.scale = other.scale
	s.rotation = other.rotation
	s.name = other.name
	s.SetScale(scale)
	s.SetRotation(rotation, true)
}

// Copy makes s a duplicate of other. A nil other is a no-op.
func (s *Shape) Copy(other *Shape) {
	if other == nil {
		return
	}
	s.rotation = other.rotation
	s.scale = other.scale
	s.position = other.position
	s.colour = other.colour
	s.outlineColour = other.outlineColour
	s.Morph(other)
}

// Clone returns a full duplicate of s.
func (s *Shape) Clone() *Shape {
	c := &Shape{}
	c.Copy(s)
	return c
}
