package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"

	"github.com/ChicagoDave/shapeeditor/pkg/editor"
	"github.com/ChicagoDave/shapeeditor/pkg/geo"
	"github.com/ChicagoDave/shapeeditor/pkg/render"
	"github.com/ChicagoDave/shapeeditor/pkg/savefile"
	"github.com/ChicagoDave/shapeeditor/pkg/scene"
	"github.com/ChicagoDave/shapeeditor/pkg/shape"
)

// Server exposes one editing session over HTTP. Requests are serialized
// because the editor is not safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	editor *editor.Editor
	port   string
	app    *fiber.App
}

// New creates a server for the given editor.
func New(ed *editor.Editor, port string) *Server {
	s := &Server{editor: ed, port: port}
	s.app = fiber.New(fiber.Config{AppName: "Shape Editor"})

	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	api := s.app.Group("/api")
	api.Use(cors.New())
	api.Get("/scene", s.handleScene)
	api.Get("/document", s.handleDocument)
	api.Get("/hit", s.handleHit)
	api.Get("/render.svg", s.handleRender)
	api.Post("/view", s.handleView)
	api.Post("/select", s.handleSelect)
	api.Post("/release", s.handleRelease)
	api.Post("/duplicate", s.handleDuplicate)
	api.Post("/recolour", s.handleRecolour)
	api.Post("/save", s.handleSave)
	api.Post("/shapes", s.handleAdd)
	api.Delete("/shapes", s.handleClear)
	api.Delete("/shapes/:id", s.handleDelete)
	api.Post("/shapes/:id/rotate", s.handleRotate)
	api.Post("/shapes/:id/scale", s.handleScale)
	api.Post("/shapes/:id/morph", s.handleMorph)
	api.Post("/shapes/:id/move", s.handleMove)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the configured port until the app is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.port)
	log.Infof("Shape editor server starting on http://localhost%s", addr)
	log.Infof("Save file: %s", s.editor.SavePath())
	return s.app.Listen(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Close waits for in-flight edits and performs the final save.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Close()
}

type shapeView struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Position       geo.Point   `json:"position"`
	Rotation       float64     `json:"rotation"`
	Scale          float64     `json:"scale"`
	Colour         geo.Colour  `json:"colour"`
	OutlineColour  geo.Colour  `json:"outline_colour"`
	OutlineVisible bool        `json:"outline_visible"`
	Vertices       []geo.Point `json:"vertices"`
}

func viewOf(id uuid.UUID, sh *shape.Shape) shapeView {
	return shapeView{
		ID:             id,
		Name:           sh.Name(),
		Position:       sh.Position(),
		Rotation:       sh.Rotation(),
		Scale:          sh.Scale(),
		Colour:         sh.Colour(),
		OutlineColour:  sh.OutlineColour(),
		OutlineVisible: sh.OutlineVisible(),
		Vertices:       sh.WorldVertices(),
	}
}

type sceneView struct {
	Settings scene.Settings `json:"settings"`
	Selected *uuid.UUID     `json:"selected"`
	Shapes   []shapeView    `json:"shapes"`
}

func (s *Server) handleScene(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := sceneView{Settings: s.editor.Settings(), Shapes: []shapeView{}}
	if id, _ := s.editor.Selected(); id != uuid.Nil {
		v.Selected = &id
	}
	for id, sh := range s.editor.Shapes().All() {
		v.Shapes = append(v.Shapes, viewOf(id, sh))
	}
	return c.JSON(v)
}

// handleDocument prints the save file as the reader sees it.
func (s *Server) handleDocument(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := savefile.NewDocument()
	if err := doc.LoadFile(s.editor.SavePath()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errorJSON(c, fiber.StatusNotFound, "no save file")
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	var buf bytes.Buffer
	if err := savefile.Print(&buf, doc); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	c.Set("Content-Type", "text/plain; charset=utf-8")
	return c.SendString(buf.String())
}

func (s *Server) handleHit(c fiber.Ctx) error {
	x, y, err := queryPoint(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.editor.Shapes().ShapeAt(x, y)
	if !ok {
		return c.JSON(fiber.Map{"hit": false})
	}
	return c.JSON(fiber.Map{"hit": true, "id": id})
}

func (s *Server) handleRender(c fiber.Ctx) error {
	opts := render.Options{Fit: c.Query("fit") == "1" || c.Query("fit") == "true"}
	s.mu.Lock()
	var buf bytes.Buffer
	err := render.SVG(&buf, s.editor.Settings(), s.editor.Shapes().Shapes(), opts)
	s.mu.Unlock()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(buf.String())
}

type viewRequest struct {
	PanX      int     `json:"pan_x"`
	PanY      int     `json:"pan_y"`
	ZoomDelta float64 `json:"zoom_delta"`
}

func (s *Server) handleView(c fiber.Ctx) error {
	var req viewRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editor.Pan(req.PanX, req.PanY)
	s.editor.Zoom(req.ZoomDelta)
	return c.JSON(s.editor.Settings())
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleSelect(c fiber.Ctx) error {
	var req pointRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.editor.SelectAt(req.X, req.Y)
	if !ok {
		return c.JSON(fiber.Map{"selected": nil})
	}
	return c.JSON(fiber.Map{"selected": id})
}

func (s *Server) handleRelease(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editor.Release()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDuplicate(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.editor.Duplicate()
	if err != nil {
		return editorError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(viewOf(id, s.editor.Shape(id)))
}

func (s *Server) handleRecolour(c fiber.Ctx) error {
	var req struct {
		Colour string `json:"colour"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editor.Recolour(req.Colour); err != nil {
		return editorError(c, err)
	}
	id, sh := s.editor.Selected()
	return c.JSON(viewOf(id, sh))
}

func (s *Server) handleSave(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editor.Save(); err != nil {
		log.Errorf("save failed: %v", err)
		return editorError(c, err)
	}
	return c.JSON(fiber.Map{"saved": s.editor.Shapes().Len(), "path": s.editor.SavePath()})
}

type addRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Server) handleAdd(c fiber.Ctx) error {
	var req addRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var id uuid.UUID
	if req.Type == "" {
		id = s.editor.AddShape(req.X, req.Y)
	} else {
		var err error
		if id, err = s.editor.AddShapeOf(req.Type, req.X, req.Y); err != nil {
			return editorError(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(viewOf(id, s.editor.Shape(id)))
}

func (s *Server) handleClear(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editor.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDelete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid shape id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editor.Delete(id); err != nil {
		return editorError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRotate(c fiber.Ctx) error {
	var req struct {
		Degrees float64 `json:"degrees"`
	}
	return s.shapeAction(c, &req, func(id uuid.UUID) error {
		return s.editor.Rotate(id, req.Degrees)
	})
}

func (s *Server) handleScale(c fiber.Ctx) error {
	var req struct {
		Amount float64 `json:"amount"`
	}
	return s.shapeAction(c, &req, func(id uuid.UUID) error {
		return s.editor.Scale(id, req.Amount)
	})
}

func (s *Server) handleMorph(c fiber.Ctx) error {
	var req struct {
		Reverse bool `json:"reverse"`
	}
	return s.shapeAction(c, &req, func(id uuid.UUID) error {
		return s.editor.Morph(id, req.Reverse)
	})
}

func (s *Server) handleMove(c fiber.Ctx) error {
	var req pointRequest
	return s.shapeAction(c, &req, func(id uuid.UUID) error {
		return s.editor.Move(id, req.X, req.Y)
	})
}

// shapeAction decodes an optional JSON body into req, applies action to the
// shape named by the :id parameter and responds with its new state.
func (s *Server) shapeAction(c fiber.Ctx, req any, action func(uuid.UUID) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid shape id")
	}
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := action(id); err != nil {
		return editorError(c, err)
	}
	return c.JSON(viewOf(id, s.editor.Shape(id)))
}

func queryPoint(c fiber.Ctx) (x, y float64, err error) {
	if x, err = strconv.ParseFloat(c.Query("x"), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid x: %q", c.Query("x"))
	}
	if y, err = strconv.ParseFloat(c.Query("y"), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid y: %q", c.Query("y"))
	}
	return x, y, nil
}

func editorError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, editor.ErrShapeNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrNoSelection):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrUnknownShapeType), errors.Is(err, editor.ErrUnknownColour):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, savefile.ErrSaveInProgress):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	}
	return errorJSON(c, fiber.StatusInternalServerError, err.Error())
}

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
