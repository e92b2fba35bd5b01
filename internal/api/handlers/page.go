package handlers

import (
	"bytes"
	"graph-paper-service/internal/domain"
	"graph-paper-service/internal/platform/obs"
	"graph-paper-service/internal/services"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Graph Paper Generator</title>
</head>
<body>
<h4>Graph Paper Generator</h4>
<form method="get" action="/">
  <label>X coordinates (comma-separated) <input type="text" name="x" value="{{.X}}"></label><br>
  <label>Y coordinates (comma-separated) <input type="text" name="y" value="{{.Y}}"></label><br>
  <label>Drawing width (cm) <input type="number" name="width" min="{{.Min}}" max="{{.Max}}" step="any" value="{{.Width}}"></label><br>
  <label>Drawing height (cm) <input type="number" name="height" min="{{.Min}}" max="{{.Max}}" step="any" value="{{.Height}}"></label><br>
  <button type="submit">Draw</button>
</form>
{{if .Error}}
<p class="error">{{.Error}}</p>
{{else}}
<img src="/plot/image?{{.ImageQuery}}" alt="graph paper plot">
<p class="success">X scale: {{.SummaryX}}</p>
<p class="success">Y scale: {{.SummaryY}}</p>
{{end}}
</body>
</html>
`))

type pageData struct {
	X, Y          string
	Width, Height string
	Min, Max      float64
	Error         string
	ImageQuery    template.URL
	SummaryX      string
	SummaryY      string
}

// Page serves the input form together with the rendered plot or the error message.
func (h *PlotHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, h.Logger, http.StatusNotFound, "not found")
		return
	}
	if !allowMethod(w, r, h.Logger, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	data := pageData{
		X:      valueOr(q, "x", h.Defaults.XValues),
		Y:      valueOr(q, "y", h.Defaults.YValues),
		Width:  q.Get("width"),
		Height: q.Get("height"),
		Min:    domain.MinCanvasCM,
		Max:    domain.MaxCanvasCM,
	}

	req, err := h.requestFromQuery(q)
	if err == nil {
		data.Width = formatCM(req.Canvas.WidthCM)
		data.Height = formatCM(req.Canvas.HeightCM)

		var plot *domain.Plot
		if plot, err = services.BuildPlot(r.Context(), h.Logger, req); err == nil {
			summary := services.Summarize(plot.ScaleX, plot.ScaleY)
			data.SummaryX, data.SummaryY = summary.X, summary.Y
			data.ImageQuery = template.URL(url.Values{
				"x":      {req.XValues},
				"y":      {req.YValues},
				"width":  {data.Width},
				"height": {data.Height},
			}.Encode())
		}
	}
	if err != nil {
		if !services.IsInputError(err) {
			h.Logger.Error("page plot failed",
				zap.String("req_id", obs.RequestID(r.Context())),
				zap.Error(err),
			)
		}
		data.Error = services.UserMessage(err)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.Logger.Error("render page failed", zap.Error(err))
		writeError(w, r, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Debug("write page failed", zap.Error(err))
	}
}

func formatCM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
