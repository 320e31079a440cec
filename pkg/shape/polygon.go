package shape

import (
	"math"

	"github.com/ChicagoDave/shapeeditor/pkg/geo"
)

// NewRegularPolygon creates a polygon with edges equal sides whose vertices
// lie radius away from its centre. Vertex 0 sits at (0, radius); vertex i is
// vertex 0 rotated counterclockwise by i*360/edges degrees. Fewer than three
// edges yields a shape with no vertices.
func NewRegularPolygon(name string, edges int, radius float64, position geo.Point) *Shape {
	return New(name, position, regularVertices(edges, radius))
}

func regularVertices(edges int, radius float64) []geo.Point {
	if edges < 3 {
		return nil
	}
	step := 2 * math.Pi / float64(edges)
	first := geo.Pt(0, radius)
	verts := make([]geo.Point, edges)
	verts[0] = first
	for i := 1; i < edges; i++ {
		verts[i] = first.Rotate(step * float64(i))
	}
	return verts
}

// Triangle creates an equilateral triangle.
func Triangle(radius float64, position geo.Point) *Shape {
	return NewRegularPolygon("Triangle", 3, radius, position)
}

// Square creates a square standing on one corner.
func Square(radius float64, position geo.Point) *Shape {
	return NewRegularPolygon("Square", 4, radius, position)
}

// Pentagon creates a regular pentagon.
func Pentagon(radius float64, position geo.Point) *Shape {
	return NewRegularPolygon("Pentagon", 5, radius, position)
}
