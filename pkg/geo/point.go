package geo

import (
	"math"
	"strconv"
)

// Point is a 2D coordinate on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the zero point.
var Origin = Point{0, 0}

// Pt is a shorthand constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// ParsePoint reads a point from its canonical "(x, y)" form.
func ParsePoint(s string) (Point, error) {
	v, err := parseTuple("point", s, 2)
	if err != nil {
		return Point{}, err
	}
	return Point{v[0], v[1]}, nil
}

// String returns the canonical "(x, y)" form. Coordinates use the shortest
// representation that parses back to the same float64.
func (p Point) String() string {
	return "(" + formatFloat(p.X) + ", " + formatFloat(p.Y) + ")"
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Rotate returns p rotated counterclockwise by angle radians around the origin.
func (p Point) Rotate(angle float64) Point {
	c, s := math.Cos(angle), math.Sin(angle)
	return Point{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
	}
}

// RotateClockwise returns p rotated clockwise by angle radians around the origin.
func (p Point) RotateClockwise(angle float64) Point {
	c, s := math.Cos(angle), math.Sin(angle)
	return Point{
		X: p.X*c + p.Y*s,
		Y: -p.X*s + p.Y*c,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
