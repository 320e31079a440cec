package geo

// Colour is an RGB triple. Components are conventionally in [0,1] but the
// range is not enforced.
type Colour struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// RGB is a shorthand constructor for Colour.
func RGB(r, g, b float64) Colour {
	return Colour{R: r, G: g, B: b}
}

// ParseColour reads a colour from its canonical "(r, g, b)" form.
func ParseColour(s string) (Colour, error) {
	v, err := parseTuple("colour", s, 3)
	if err != nil {
		return Colour{}, err
	}
	return Colour{v[0], v[1], v[2]}, nil
}

// String returns the canonical "(r, g, b)" form.
func (c Colour) String() string {
	return "(" + formatFloat(c.R) + ", " + formatFloat(c.G) + ", " + formatFloat(c.B) + ")"
}
