// Package render draws a scene as SVG.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jbeda/geom"

	"github.com/ChicagoDave/shapeeditor/pkg/geo"
	"github.com/ChicagoDave/shapeeditor/pkg/scene"
	"github.com/ChicagoDave/shapeeditor/pkg/shape"
)

// Fixed camera extent in world units, 16:9.
const (
	CameraWidth  = 1000
	CameraHeight = CameraWidth * 9 / 16
)

const (
	outlineWidth  = 2
	defaultMargin = 10
)

// Options controls the framing of the drawing.
type Options struct {
	// Fit frames every shape instead of the camera and ignores pan and zoom.
	Fit    bool
	Margin float64
}

// Camera returns the visible area of the canvas, centred on the origin.
func Camera() geom.Rect {
	return geom.Rect{
		Min: geom.Coord{X: -CameraWidth / 2, Y: -CameraHeight / 2},
		Max: geom.Coord{X: CameraWidth / 2, Y: CameraHeight / 2},
	}
}

// Visible returns the part of the world shown by the camera under the given
// zoom and pan. Drawing scales by zoom after translating by pan. The camera
// is symmetric about the origin so the y flip leaves the box unchanged.
func Visible(settings scene.Settings) geom.Rect {
	cam := Camera()
	zoom := settings.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	pan := geom.Coord{X: float64(settings.PanX), Y: float64(settings.PanY)}
	return geom.Rect{
		Min: geom.Coord{X: cam.Min.X/zoom - pan.X, Y: cam.Min.Y/zoom - pan.Y},
		Max: geom.Coord{X: cam.Max.X/zoom - pan.X, Y: cam.Max.Y/zoom - pan.Y},
	}
}

// Bounds returns the box around every drawn vertex. ok is false when there is
// nothing to draw.
func Bounds(shapes []*shape.Shape) (r geom.Rect, ok bool) {
	for _, s := range shapes {
		verts := s.WorldVertices()
		if len(verts) == 0 {
			continue
		}
		b := geo.NewPolygon(verts...).Bounds()
		if !ok {
			r, ok = b, true
			continue
		}
		r.ExpandToContainCoord(b.Min)
		r.ExpandToContainCoord(b.Max)
	}
	return r, ok
}

// SVG writes the shapes in render order. Fills use each shape's colour;
// outlines are drawn only for shapes with a visible outline. In camera mode
// shapes entirely outside the view are skipped.
func SVG(w io.Writer, settings scene.Settings, shapes []*shape.Shape, opts Options) error {
	c := &canvas{w: w}

	view := Camera()
	if opts.Fit {
		margin := opts.Margin
		if margin == 0 {
			margin = defaultMargin
		}
		if b, ok := Bounds(shapes); ok {
			// SVG y grows downward, so the world box is mirrored.
			view = geom.Rect{
				Min: geom.Coord{X: b.Min.X - margin, Y: -b.Max.Y - margin},
				Max: geom.Coord{X: b.Max.X + margin, Y: -b.Min.Y + margin},
			}
		}
	}

	c.printf(`<?xml version="1.0"?>
<svg version="1.1"
     viewBox="%s %s %s %s"
     xmlns="http://www.w3.org/2000/svg">
`, num(view.Min.X), num(view.Min.Y), num(view.Width()), num(view.Height()))
	c.printf("<rect x='%s' y='%s' width='%s' height='%s' fill='white'/>\n",
		num(view.Min.X), num(view.Min.Y), num(view.Width()), num(view.Height()))
	var window geo.Polygon
	if !opts.Fit {
		c.printf("<g transform='scale(%s) translate(%d %d)'>\n", num(settings.Zoom), settings.PanX, -settings.PanY)
		window = geo.RectPolygon(Visible(settings))
	}
	for _, s := range shapes {
		if !opts.Fit && geo.ClipToConvex(geo.NewPolygon(s.WorldVertices()...), window).IsEmpty() {
			continue
		}
		c.polygon(s)
	}
	if !opts.Fit {
		c.printf("</g>\n")
	}
	c.printf("</svg>\n")
	return c.err
}

// canvas keeps the first write error so drawing code can ignore it.
type canvas struct {
	w   io.Writer
	err error
}

func (c *canvas) printf(format string, a ...any) {
	if c.err != nil {
		return
	}
	_, c.err = fmt.Fprintf(c.w, format, a...)
}

func (c *canvas) polygon(s *shape.Shape) {
	verts := s.WorldVertices()
	if geo.NewPolygon(verts...).Area() == 0 {
		return
	}
	pts := make([]string, len(verts))
	for i, v := range verts {
		pts[i] = num(v.X) + "," + num(-v.Y)
	}
	stroke := "stroke='none'"
	if s.OutlineVisible() {
		stroke = fmt.Sprintf("stroke='%s' stroke-width='%d'", rgb(s.OutlineColour()), outlineWidth)
	}
	c.printf("<polygon points='%s' fill='%s' %s><title>%s</title></polygon>\n",
		strings.Join(pts, " "), rgb(s.Colour()), stroke, escape(s.Name()))
}

// rgb formats a colour with components in [0,1] as SVG percentages.
func rgb(c geo.Colour) string {
	return fmt.Sprintf("rgb(%s%%, %s%%, %s%%)", num(pct(c.R)), num(pct(c.G)), num(pct(c.B)))
}

func pct(v float64) float64 {
	return min(max(v, 0), 1) * 100
}

// num formats a coordinate rounded to three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}
