package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"graph-paper-service/internal/adapters/render"
	"graph-paper-service/internal/api/handlers"
	"graph-paper-service/internal/domain"
	"graph-paper-service/internal/literal"
	"graph-paper-service/internal/ports"

	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *render.MockRenderer) {
	t.Helper()

	raster, err := render.NewRasterRenderer(5, render.FormatPNG)
	if err != nil {
		t.Fatalf("new raster renderer: %v", err)
	}
	mock := render.NewMockRenderer([]byte("mock"))

	plots := &handlers.PlotHandler{
		Logger: zap.NewNop(),
		Renderers: map[string]ports.PlotRenderer{
			"png":  raster,
			"mock": mock,
		},
		DefaultFormat: "png",
		Defaults: handlers.PlotDefaults{
			XValues: "1,2,3,4,5,6,7,8,9,30",
			YValues: "1,2,3,4,5,6,7,8,9,20",
			Canvas:  domain.CanvasSpec{WidthCM: 30, HeightCM: 20},
		},
	}
	return NewRouter(zap.NewNop(), plots), mock
}

func do(t *testing.T, h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var res map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return res["error"]
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing X-Request-ID header")
	}

	rec = do(t, h, http.MethodPost, "/health", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodGet {
		t.Errorf("Allow = %q, want GET", got)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestPlotImageDefaults(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/plot/image", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("Content-Type = %q, want image/png", got)
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// (30 + 3) cm by (20 + 3) cm at 5 px/cm.
	if got := img.Bounds().Dx(); got != 165 {
		t.Errorf("width = %d, want 165", got)
	}
	if got := img.Bounds().Dy(); got != 115 {
		t.Errorf("height = %d, want 115", got)
	}
}

func TestPlotImageUsesQuery(t *testing.T) {
	h, mock := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/plot/image?format=mock&x=1,2&y=5*10%5E1,5%5E2&width=10&height=2*10%5E1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "mock" {
		t.Fatalf("body = %q, want mock", rec.Body.String())
	}

	if len(mock.Plots) != 1 {
		t.Fatalf("renderer called %d times, want 1", len(mock.Plots))
	}
	plot := mock.Plots[0]
	if plot.Canvas != (domain.CanvasSpec{WidthCM: 10, HeightCM: 20}) {
		t.Errorf("canvas = %+v", plot.Canvas)
	}
	if plot.ScaleX != 5 || plot.ScaleY != 0.4 {
		t.Errorf("scale = (%v, %v), want (5, 0.4)", plot.ScaleX, plot.ScaleY)
	}
}

func TestPlotImageErrors(t *testing.T) {
	h, mock := newTestRouter(t)

	tests := []struct {
		target string
		status int
		prefix string
	}{
		{"/plot/image?x=1,2,3&y=1,2,3,4", http.StatusBadRequest, "X/Y count mismatch"},
		{"/plot/image?x=abc&y=1", http.StatusBadRequest, "invalid numeric value"},
		{"/plot/image?width=101", http.StatusBadRequest, "canvas width"},
		{"/plot/image?height=wide", http.StatusBadRequest, "invalid numeric value"},
		{"/plot/image?x=&y=", http.StatusBadRequest, "no data"},
		{"/plot/image?format=gif", http.StatusBadRequest, "unsupported image format"},
	}

	for _, tc := range tests {
		rec := do(t, h, http.MethodGet, tc.target, "")
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.target, rec.Code, tc.status)
			continue
		}
		if got := rec.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("%s: Content-Type = %q", tc.target, got)
		}
		if msg := errorMessage(t, rec); !strings.HasPrefix(msg, tc.prefix) {
			t.Errorf("%s: error = %q, want prefix %q", tc.target, msg, tc.prefix)
		}
	}

	rec := do(t, h, http.MethodGet, "/plot/image?x=abc&y=1", "")
	if msg := errorMessage(t, rec); !strings.Contains(msg, literal.FormatHint) {
		t.Errorf("parse error message %q lacks the format hint", msg)
	}

	if len(mock.Plots) != 0 {
		t.Errorf("renderer called on invalid input")
	}
}

func TestCreatePlot(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/plots", `{"x_values":"1, 2, 4","y_values":"5*10^(-4), 0, 1*10^(-3)","canvas_width":8}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res struct {
		CanvasWidth  float64 `json:"canvas_width"`
		CanvasHeight float64 `json:"canvas_height"`
		ScaleX       float64 `json:"scale_x"`
		ScaleY       float64 `json:"scale_y"`
		SummaryX     string  `json:"summary_x"`
		SummaryY     string  `json:"summary_y"`
		Points       []struct {
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
			OrigX float64 `json:"orig_x"`
			OrigY float64 `json:"orig_y"`
		} `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if res.CanvasWidth != 8 || res.CanvasHeight != 20 {
		t.Errorf("canvas = %vx%v, want 8x20", res.CanvasWidth, res.CanvasHeight)
	}
	if res.ScaleX != 2 || res.ScaleY != 20000 {
		t.Errorf("scale = (%v, %v), want (2, 20000)", res.ScaleX, res.ScaleY)
	}
	if res.SummaryX != "1 cm = 0.5000 unit(s) → 1 unit = 2.000 cm" {
		t.Errorf("summary_x = %q", res.SummaryX)
	}
	if res.SummaryY != "1 cm = 0.0001 unit(s) → 1 unit = 20000.00 cm" {
		t.Errorf("summary_y = %q", res.SummaryY)
	}
	if len(res.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(res.Points))
	}
	if p := res.Points[2]; p.X != 8 || p.Y != 20 || p.OrigX != 4 || p.OrigY != 1e-3 {
		t.Errorf("last point = %+v", p)
	}
}

func TestCreatePlotErrors(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		body   string
		status int
		msg    string
	}{
		{`{"x_values":"1,2","y_values":"1"}`, http.StatusBadRequest, "X/Y count mismatch"},
		{`{"x_values":"1","colour":"red"}`, http.StatusBadRequest, "invalid json body"},
		{`{"x_values":"1"}{}`, http.StatusBadRequest, "body must contain only one JSON object"},
		{`{"canvas_height":0}`, http.StatusBadRequest, "canvas height must be between 1 and 100 cm (got 0)"},
	}

	for _, tc := range tests {
		rec := do(t, h, http.MethodPost, "/plots", tc.body)
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.body, rec.Code, tc.status)
			continue
		}
		if msg := errorMessage(t, rec); msg != tc.msg {
			t.Errorf("%s: error = %q, want %q", tc.body, msg, tc.msg)
		}
	}

	rec := do(t, h, http.MethodGet, "/plots", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /plots status = %d, want 405", rec.Code)
	}
}

func TestPage(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`value="1,2,3,4,5,6,7,8,9,30"`,
		`value="30"`,
		`<img src="/plot/image?height=20&amp;width=30&amp;x=1%2C2%2C3%2C4%2C5%2C6%2C7%2C8%2C9%2C30&amp;y=1%2C2%2C3%2C4%2C5%2C6%2C7%2C8%2C9%2C20"`,
		"X scale: 1 cm = 1.0000 unit(s) → 1 unit = 1.000 cm",
		"Y scale: 1 cm = 1.0000 unit(s) → 1 unit = 1.00 cm",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page lacks %q", want)
		}
	}

	rec = do(t, h, http.MethodGet, "/?x=1,2&y=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body = rec.Body.String()
	if !strings.Contains(body, "X/Y count mismatch") {
		t.Errorf("page lacks the mismatch message")
	}
	if strings.Contains(body, "<img") {
		t.Errorf("page renders an image despite the error")
	}

	rec = do(t, h, http.MethodGet, "/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /missing status = %d, want 404", rec.Code)
	}
}
