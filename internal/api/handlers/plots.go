package handlers

import (
	"encoding/json"
	"graph-paper-service/internal/api/dto"
	"graph-paper-service/internal/domain"
	"graph-paper-service/internal/literal"
	"graph-paper-service/internal/platform/obs"
	"graph-paper-service/internal/ports"
	"graph-paper-service/internal/services"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Values used when a request leaves an input empty.
type PlotDefaults struct {
	XValues string
	YValues string
	Canvas  domain.CanvasSpec
}

// PlotHandler exposes plot rendering over HTTP.
type PlotHandler struct {
	Logger        *zap.Logger
	Renderers     map[string]ports.PlotRenderer
	DefaultFormat string
	Defaults      PlotDefaults
}

// Image renders the plot described by the query string and returns the encoded image.
func (h *PlotHandler) Image(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.Logger, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	renderer, ok := h.renderer(q.Get("format"))
	if !ok {
		writeError(w, r, h.Logger, http.StatusBadRequest, "unsupported image format")
		return
	}

	req, err := h.requestFromQuery(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// Headers are set up front; writeError replaces them if rendering fails
	// because nothing reaches w until the whole image is encoded.
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")

	if _, err := services.RenderPlot(r.Context(), h.Logger, req, renderer, w); err != nil {
		w.Header().Del("Cache-Control")
		h.fail(w, r, err)
		return
	}
}

// Create scales the posted coordinates and returns the scaled points with the scale summary.
func (h *PlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.Logger, http.MethodPost) {
		return
	}

	var body dto.PlotRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		writeError(w, r, h.Logger, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, h.Logger, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	req := services.PlotRequest{
		XValues: h.Defaults.XValues,
		YValues: h.Defaults.YValues,
		Canvas:  h.Defaults.Canvas,
	}
	if body.XValues != nil {
		req.XValues = *body.XValues
	}
	if body.YValues != nil {
		req.YValues = *body.YValues
	}
	if body.CanvasWidth != nil {
		req.Canvas.WidthCM = *body.CanvasWidth
	}
	if body.CanvasHeight != nil {
		req.Canvas.HeightCM = *body.CanvasHeight
	}

	plot, err := services.BuildPlot(r.Context(), h.Logger, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	summary := services.Summarize(plot.ScaleX, plot.ScaleY)
	res := dto.PlotResponse{
		CanvasWidth:  plot.Canvas.WidthCM,
		CanvasHeight: plot.Canvas.HeightCM,
		ScaleX:       dto.Number(plot.ScaleX),
		ScaleY:       dto.Number(plot.ScaleY),
		SummaryX:     summary.X,
		SummaryY:     summary.Y,
		Points:       make([]dto.PointResponse, 0, len(plot.Points)),
	}
	for _, p := range plot.Points {
		res.Points = append(res.Points, dto.PointResponse{
			X:     dto.Number(p.X),
			Y:     dto.Number(p.Y),
			OrigX: dto.Number(p.OrigX),
			OrigY: dto.Number(p.OrigY),
		})
	}

	writeJSON(w, r, h.Logger, http.StatusOK, res)
}

// fail reports input errors with their user message and hides internal ones.
func (h *PlotHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if services.IsInputError(err) {
		h.Logger.Debug("rejected plot input",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, h.Logger, http.StatusBadRequest, services.UserMessage(err))
		return
	}

	h.Logger.Error("plot failed",
		zap.String("req_id", obs.RequestID(r.Context())),
		zap.Error(err),
	)
	writeError(w, r, h.Logger, http.StatusInternalServerError, "internal server error")
}

func (h *PlotHandler) renderer(format string) (ports.PlotRenderer, bool) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = h.DefaultFormat
	}
	r, ok := h.Renderers[format]
	return r, ok
}

// requestFromQuery reads x, y, width and height. Absent parameters take
// the defaults; an x or y that is present but empty is plotted as given.
func (h *PlotHandler) requestFromQuery(q url.Values) (services.PlotRequest, error) {
	req := services.PlotRequest{
		XValues: valueOr(q, "x", h.Defaults.XValues),
		YValues: valueOr(q, "y", h.Defaults.YValues),
		Canvas:  h.Defaults.Canvas,
	}

	var err error
	if req.Canvas.WidthCM, err = numberOrDefault(q.Get("width"), h.Defaults.Canvas.WidthCM); err != nil {
		return services.PlotRequest{}, err
	}
	if req.Canvas.HeightCM, err = numberOrDefault(q.Get("height"), h.Defaults.Canvas.HeightCM); err != nil {
		return services.PlotRequest{}, err
	}
	return req, nil
}

func valueOr(q url.Values, key, fallback string) string {
	if q.Has(key) {
		return q.Get(key)
	}
	return fallback
}

func numberOrDefault(v string, fallback float64) (float64, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	return literal.Parse(v)
}
