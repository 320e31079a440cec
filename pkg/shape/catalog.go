package shape

import "github.com/ChicagoDave/shapeeditor/pkg/geo"

// Type names a regular polygon the editor can morph between.
type Type struct {
	Name  string `yaml:"name" json:"name"`
	Edges int    `yaml:"edges" json:"edges"`
}

// DefaultTypes is the morph cycle from triangle to decagon.
var DefaultTypes = []Type{
	{"Triangle", 3},
	{"Square", 4},
	{"Pentagon", 5},
	{"Hexagon", 6},
	{"Heptagon", 7},
	{"Octagon", 8},
	{"Nonagon", 9},
	{"Decagon", 10},
}

// Catalog is an ordered set of template shapes, all centred on the origin
// with rotation 0 and scale 1.
type Catalog struct {
	templates []*Shape
}

// NewCatalog builds a template for each type at the given radius.
func NewCatalog(types []Type, radius float64) *Catalog {
	c := &Catalog{}
	for _, t := range types {
		c.templates = append(c.templates, NewRegularPolygon(t.Name, t.Edges, radius, geo.Origin))
	}
	return c
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Lookup returns the template with the given name, or nil.
func (c *Catalog) Lookup(name string) *Shape {
	if i := c.index(name); i >= 0 {
		return c.templates[i]
	}
	return nil
}

// Next returns the template after name in the cycle, or before it when
// reverse is set. The cycle wraps at both ends. Unknown names return nil.
func (c *Catalog) Next(name string, reverse bool) *Shape {
	i := c.index(name)
	if i < 0 {
		return nil
	}
	n := len(c.templates)
	if reverse {
		return c.templates[(i+n-1)%n]
	}
	return c.templates[(i+1)%n]
}

func (c *Catalog) index(name string) int {
	for i, t := range c.templates {
		if t.name == name {
			return i
		}
	}
	return -1
}
