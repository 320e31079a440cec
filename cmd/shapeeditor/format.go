package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/ChicagoDave/shapeeditor/pkg/editor"
	"github.com/ChicagoDave/shapeeditor/pkg/geo"
	"github.com/ChicagoDave/shapeeditor/pkg/validation"
)

func printValidationReport(out io.Writer, r *validation.Report) {
	printResults(out, "ERRORS", r.Errors)
	printResults(out, "WARNINGS", r.Warnings)
	printResults(out, "INFO", r.Info)

	if r.Valid {
		fmt.Fprintf(out, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(out, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResults(out io.Writer, title string, results []validation.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d):\n", title, len(results))
	for _, r := range results {
		fmt.Fprintf(out, "  [%s] %s\n", r.Level, r.Message)
		if r.Path != "" {
			fmt.Fprintf(out, "    -> %s\n", r.Path)
		}
		if r.Line > 0 {
			fmt.Fprintf(out, "    line %d\n", r.Line)
		}
	}
	fmt.Fprintln(out)
}

type shapeRow struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Position geo.Point  `json:"position"`
	Rotation float64    `json:"rotation"`
	Scale    float64    `json:"scale"`
	Colour   geo.Colour `json:"colour"`
	Vertices int        `json:"vertices"`
}

func shapeRows(ed *editor.Editor) []shapeRow {
	rows := []shapeRow{}
	for id, s := range ed.Shapes().All() {
		rows = append(rows, shapeRow{
			ID:       id,
			Name:     s.Name(),
			Position: s.Position(),
			Rotation: s.Rotation(),
			Scale:    s.Scale(),
			Colour:   s.Colour(),
			Vertices: len(s.Vertices()),
		})
	}
	return rows
}

func printShapeTable(out io.Writer, ed *editor.Editor) {
	st := ed.Settings()
	fmt.Fprintf(out, "Zoom: %.0f%%  Pan: %d, %d\n\n", st.Zoom*100, st.PanX, st.PanY)

	fmt.Fprintf(out, "%-4s %-10s %-22s %10s %8s %-20s\n",
		"#", "Name", "Position", "Rotation", "Scale", "Colour")
	fmt.Fprintf(out, "%-4s %-10s %-22s %10s %8s %-20s\n",
		"----", "----------", "----------------------", "----------", "--------", "--------------------")
	for i, r := range shapeRows(ed) {
		fmt.Fprintf(out, "%-4d %-10s %-22s %10.2f %8.2f %-20s\n",
			i+1, r.Name, r.Position, r.Rotation, r.Scale, r.Colour)
	}
	fmt.Fprintf(out, "\n%d shapes\n", ed.Shapes().Len())
}
