package geo

import (
	"math"

	"github.com/jbeda/geom"
)

// Polygon is a closed polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Point
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Scaled returns the polygon with every vertex multiplied by s.
func (p Polygon) Scaled(s float64) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Scale(s)
	}
	return Polygon{Vertices: out}
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Bounds returns the axis-aligned bounding box. An empty polygon has a zero
// box at the origin.
func (p Polygon) Bounds() geom.Rect {
	if len(p.Vertices) == 0 {
		return geom.Rect{}
	}
	first := geom.Coord{X: p.Vertices[0].X, Y: p.Vertices[0].Y}
	r := geom.Rect{Min: first, Max: first}
	for _, v := range p.Vertices[1:] {
		r.ExpandToContainCoord(geom.Coord{X: v.X, Y: v.Y})
	}
	return r
}

// StrictlyInside reports whether pt lies inside r on both axes, excluding
// the edges.
func StrictlyInside(r geom.Rect, pt Point) bool {
	return pt.X > r.Min.X && pt.X < r.Max.X &&
		pt.Y > r.Min.Y && pt.Y < r.Max.Y
}

// Contains returns true if the point is inside the polygon using ray
// casting (PNPOLY). A horizontal ray is cast to the right and every edge it
// crosses flips the result. The y test is strict on one side, so horizontal
// edges never count as a crossing.
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Translated returns the polygon moved by offset.
func (p Polygon) Translated(offset Point) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Add(offset)
	}
	return Polygon{Vertices: out}
}
