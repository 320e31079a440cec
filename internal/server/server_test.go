package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ChicagoDave/shapeeditor/pkg/config"
	"github.com/ChicagoDave/shapeeditor/pkg/editor"
)

func newServer(t *testing.T) (*Server, *editor.Editor) {
	t.Helper()
	ed := editor.New(config.Default(), filepath.Join(t.TempDir(), "save.txt"))
	return New(ed, "0"), ed
}

func do(t *testing.T, s *Server, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t)
	resp, body := do(t, s, "GET", "/health/live", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "alive") {
		t.Errorf("health = %d %s", resp.StatusCode, body)
	}
}

func TestAddAndScene(t *testing.T) {
	s, _ := newServer(t)
	resp, body := do(t, s, "POST", "/api/shapes", `{"x": 10, "y": 20}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add = %d %s", resp.StatusCode, body)
	}
	added := decode[shapeView](t, body)
	if added.Name != "Pentagon" || added.Position.X != 10 || len(added.Vertices) != 5 {
		t.Errorf("added = %+v", added)
	}

	resp, body = do(t, s, "POST", "/api/shapes", `{"type": "Octagon", "x": -5, "y": 0}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add octagon = %d %s", resp.StatusCode, body)
	}

	_, body = do(t, s, "GET", "/api/scene", "")
	v := decode[sceneView](t, body)
	if len(v.Shapes) != 2 || v.Shapes[1].Name != "Octagon" {
		t.Errorf("scene shapes = %+v", v.Shapes)
	}
	if v.Selected != nil {
		t.Error("nothing should be selected")
	}
	if v.Settings.Zoom != 1 {
		t.Errorf("zoom = %v", v.Settings.Zoom)
	}
}

func TestAdd_BadRequests(t *testing.T) {
	s, _ := newServer(t)
	if resp, _ := do(t, s, "POST", "/api/shapes", `{"x":`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad json = %d", resp.StatusCode)
	}
	if resp, _ := do(t, s, "POST", "/api/shapes", `{"type": "Circle"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown type = %d", resp.StatusCode)
	}
}

func TestShapeActions(t *testing.T) {
	s, ed := newServer(t)
	id := ed.AddShape(0, 0)
	base := "/api/shapes/" + id.String()

	resp, body := do(t, s, "POST", base+"/rotate", `{"degrees": 90}`)
	if resp.StatusCode != http.StatusOK || decode[shapeView](t, body).Rotation != 90 {
		t.Errorf("rotate = %d %s", resp.StatusCode, body)
	}
	_, body = do(t, s, "POST", base+"/scale", `{"amount": 1}`)
	if decode[shapeView](t, body).Scale != 2 {
		t.Errorf("scale = %s", body)
	}
	_, body = do(t, s, "POST", base+"/morph", "")
	if decode[shapeView](t, body).Name != "Hexagon" {
		t.Errorf("morph = %s", body)
	}
	_, body = do(t, s, "POST", base+"/morph", `{"reverse": true}`)
	if decode[shapeView](t, body).Name != "Pentagon" {
		t.Errorf("morph reverse = %s", body)
	}
	_, body = do(t, s, "POST", base+"/move", `{"x": 3, "y": 4}`)
	if p := decode[shapeView](t, body).Position; p.X != 3 || p.Y != 4 {
		t.Errorf("move = %s", body)
	}

	if resp, _ := do(t, s, "POST", "/api/shapes/"+uuid.NewString()+"/rotate", `{"degrees": 1}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id = %d", resp.StatusCode)
	}
	if resp, _ := do(t, s, "POST", "/api/shapes/nope/rotate", `{"degrees": 1}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id = %d", resp.StatusCode)
	}

	if resp, _ := do(t, s, "DELETE", base, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete = %d", resp.StatusCode)
	}
	if resp, _ := do(t, s, "DELETE", base, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete = %d", resp.StatusCode)
	}
}

func TestSelectionFlow(t *testing.T) {
	s, ed := newServer(t)
	id := ed.AddShape(50, 50)

	if resp, _ := do(t, s, "POST", "/api/duplicate", ""); resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate without selection = %d", resp.StatusCode)
	}

	_, body := do(t, s, "POST", "/api/select", `{"x": 50, "y": 50}`)
	if !strings.Contains(string(body), id.String()) {
		t.Errorf("select = %s", body)
	}
	_, body = do(t, s, "POST", "/api/recolour", `{"colour": "blue"}`)
	if c := decode[shapeView](t, body).Colour; c.B != 0.9 {
		t.Errorf("recolour = %s", body)
	}
	if resp, _ := do(t, s, "POST", "/api/recolour", `{"colour": "plaid"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown colour = %d", resp.StatusCode)
	}
	resp, _ := do(t, s, "POST", "/api/duplicate", "")
	if resp.StatusCode != http.StatusCreated || ed.Shapes().Len() != 2 {
		t.Errorf("duplicate = %d, %d shapes", resp.StatusCode, ed.Shapes().Len())
	}
	if resp, _ := do(t, s, "POST", "/api/release", ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("release = %d", resp.StatusCode)
	}
	if sel, _ := ed.Selected(); sel != uuid.Nil {
		t.Error("release should clear the selection")
	}
}

func TestHit(t *testing.T) {
	s, ed := newServer(t)
	id := ed.AddShape(0, 0)

	_, body := do(t, s, "GET", "/api/hit?x=0&y=0", "")
	hit := decode[map[string]any](t, body)
	if hit["hit"] != true || hit["id"] != id.String() {
		t.Errorf("hit = %s", body)
	}
	_, body = do(t, s, "GET", "/api/hit?x=500&y=500", "")
	if decode[map[string]any](t, body)["hit"] != false {
		t.Errorf("miss = %s", body)
	}
	if resp, _ := do(t, s, "GET", "/api/hit?x=a", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad query = %d", resp.StatusCode)
	}
}

func TestViewAndRender(t *testing.T) {
	s, ed := newServer(t)
	ed.AddShape(0, 0)

	_, body := do(t, s, "POST", "/api/view", `{"pan_x": 10, "pan_y": -10, "zoom_delta": 0.5}`)
	if !strings.Contains(string(body), `"zoom":1.5`) {
		t.Errorf("view = %s", body)
	}

	resp, body := do(t, s, "GET", "/api/render.svg", "")
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(string(body), "translate(10 10)") || !strings.Contains(string(body), "<polygon") {
		t.Errorf("svg = %s", body)
	}
	_, body = do(t, s, "GET", "/api/render.svg?fit=1", "")
	if strings.Contains(string(body), "<g transform") {
		t.Error("fit render should not apply the view transform")
	}
}

func TestSaveAndDocument(t *testing.T) {
	s, ed := newServer(t)
	if resp, _ := do(t, s, "GET", "/api/document", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("document before save = %d", resp.StatusCode)
	}
	ed.AddShape(1, 2)
	resp, body := do(t, s, "POST", "/api/save", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"saved":1`) {
		t.Fatalf("save = %d %s", resp.StatusCode, body)
	}
	resp, body = do(t, s, "GET", "/api/document", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("document = %d", resp.StatusCode)
	}
	for _, want := range []string{"[scene]", "[shape_manager]", "shape {", "position: (1, 2)"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("document missing %q:\n%s", want, body)
		}
	}
}

func TestDocumentDuringSaves(t *testing.T) {
	s, ed := newServer(t)
	const shapes = 20
	for i := range shapes {
		ed.AddShape(float64(i), 0)
	}
	if resp, _ := do(t, s, "POST", "/api/save", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("save = %d", resp.StatusCode)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 40)
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, err := s.App().Test(httptest.NewRequest("POST", "/api/save", nil))
			if err != nil {
				errs <- err.Error()
				return
			}
			resp.Body.Close()
		}()
		go func() {
			defer wg.Done()
			resp, err := s.App().Test(httptest.NewRequest("GET", "/api/document", nil))
			if err != nil {
				errs <- err.Error()
				return
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if n := strings.Count(string(body), "shape {"); n != shapes {
				errs <- string(body)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("document read during save: %s", e)
	}
}

func TestClear(t *testing.T) {
	s, ed := newServer(t)
	ed.AddShape(0, 0)
	ed.AddShape(10, 10)
	if resp, _ := do(t, s, "DELETE", "/api/shapes", ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("clear = %d", resp.StatusCode)
	}
	if ed.Shapes().Len() != 0 {
		t.Error("shapes not cleared")
	}
}
