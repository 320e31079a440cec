package scene

import (
	"fmt"

	"github.com/ChicagoDave/shapeeditor/pkg/savefile"
)

// SectionSettings is the save file section holding the view settings.
const SectionSettings = "scene"

// Zoom limits, 1% to 1000%.
const (
	MinZoom = 0.01
	MaxZoom = 10
)

// Settings is the canvas view: zoom factor and pan offset.
type Settings struct {
	Zoom float64 `json:"zoom"`
	PanX int     `json:"pan_x"`
	PanY int     `json:"pan_y"`
}

// DefaultSettings is an unzoomed, unpanned view.
func DefaultSettings() Settings {
	return Settings{Zoom: 1}
}

// SetZoom sets the zoom clamped to [MinZoom, MaxZoom].
func (s *Settings) SetZoom(z float64) {
	s.Zoom = min(max(z, MinZoom), MaxZoom)
}

// Pan moves the view by (dx, dy).
func (s *Settings) Pan(dx, dy int) {
	s.PanX += dx
	s.PanY += dy
}

// Save writes the settings section. w must have a save in progress.
func (s Settings) Save(w *savefile.Writer) {
	w.StartSection(SectionSettings)
	w.AddValue("zoom", s.Zoom)
	w.AddValue("pan_x", s.PanX)
	w.AddValue("pan_y", s.PanY)
	w.EndSection()
}

// LoadSettings reads the settings section from doc.
func LoadSettings(doc *savefile.Document) (Settings, error) {
	vals := doc.SectionValues(SectionSettings)
	zoom, err := vals.Float("zoom")
	if err != nil {
		return DefaultSettings(), fmt.Errorf("loading %s: %w", SectionSettings, err)
	}
	panX, err := vals.Int("pan_x")
	if err != nil {
		return DefaultSettings(), fmt.Errorf("loading %s: %w", SectionSettings, err)
	}
	panY, err := vals.Int("pan_y")
	if err != nil {
		return DefaultSettings(), fmt.Errorf("loading %s: %w", SectionSettings, err)
	}
	s := Settings{PanX: panX, PanY: panY}
	s.SetZoom(zoom)
	return s, nil
}
