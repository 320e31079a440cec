package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3/log"

	"github.com/ChicagoDave/shapeeditor/internal/server"
	"github.com/ChicagoDave/shapeeditor/pkg/config"
	"github.com/ChicagoDave/shapeeditor/pkg/editor"
	"github.com/ChicagoDave/shapeeditor/pkg/render"
	"github.com/ChicagoDave/shapeeditor/pkg/savefile"
	"github.com/ChicagoDave/shapeeditor/pkg/validation"
)

// loadConfig loads the project config and applies its log level.
func loadConfig(projectPath string) (*config.Config, error) {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	level, _ := cfg.Level()
	log.SetLevel(level)
	return cfg, nil
}

// openProject loads the config and the save file it points to.
func openProject(projectPath string) (*editor.Editor, *validation.Report, error) {
	cfg, err := loadConfig(projectPath)
	if err != nil {
		return nil, nil, err
	}
	ed, report, err := editor.Open(cfg, cfg.SavePath(projectPath))
	if err != nil {
		return nil, nil, fmt.Errorf("loading scene: %w", err)
	}
	return ed, report, nil
}

func runPrint(out io.Writer, projectPath string) error {
	cfg, err := loadConfig(projectPath)
	if err != nil {
		return err
	}
	doc := savefile.NewDocument()
	if err := doc.LoadFile(cfg.SavePath(projectPath)); err != nil {
		return err
	}
	return savefile.Print(out, doc)
}

func runValidate(out io.Writer, projectPath string) error {
	_, report, err := openProject(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(out, report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runList(out io.Writer, projectPath string, asJSON bool) error {
	ed, report, err := openProject(projectPath)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"settings":   ed.Settings(),
			"shapes":     shapeRows(ed),
			"validation": report,
		})
	}
	printShapeTable(out, ed)
	return nil
}

type addOptions struct {
	shapeType string
	x, y      float64
	colour    string
	rotation  float64
	scale     float64
}

func runAdd(out io.Writer, projectPath string, opts addOptions) error {
	ed, _, err := openProject(projectPath)
	if err != nil {
		return err
	}
	id, err := ed.AddShapeOf(opts.shapeType, opts.x, opts.y)
	if err != nil {
		return err
	}
	if opts.rotation != 0 {
		if err := ed.Rotate(id, opts.rotation); err != nil {
			return err
		}
	}
	if opts.scale != 1 {
		if err := ed.Scale(id, opts.scale-1); err != nil {
			return err
		}
	}
	if opts.colour != "" {
		c, ok := ed.Config().Colour(opts.colour)
		if !ok {
			return fmt.Errorf("%w: %q", editor.ErrUnknownColour, opts.colour)
		}
		ed.Shape(id).SetColour(c)
	}
	if err := ed.Save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %s %s at (%v, %v)\n", opts.shapeType, id, opts.x, opts.y)
	return nil
}

func runRender(out io.Writer, projectPath, output string, fit bool) error {
	ed, _, err := openProject(projectPath)
	if err != nil {
		return err
	}
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return render.SVG(out, ed.Settings(), ed.Shapes().Shapes(), render.Options{Fit: fit})
}

// runServe serves the project until interrupted, then performs the final
// save.
func runServe(projectPath, port string) error {
	ed, report, err := openProject(projectPath)
	if err != nil {
		return err
	}
	log.Infof("Project: %s (%s)", projectPath, report.Summary)
	if port == "" {
		port = ed.Config().Server.Port
	}
	srv := server.New(ed, port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		return err
	}
	return srv.Close()
}
