package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"graph-paper-service/internal/domain"
	"graph-paper-service/internal/literal"
	"graph-paper-service/internal/platform/obs"
	"graph-paper-service/internal/ports"
	"io"

	"go.uber.org/zap"
)

type PlotRequest struct {
	XValues string
	YValues string
	Canvas  domain.CanvasSpec
}

// Parse, validate and scale the request into a Plot.
//
// Any input error aborts the whole plot; there is no partial result.
func BuildPlot(ctx context.Context, logger *zap.Logger, req PlotRequest) (plot *domain.Plot, err error) {
	defer obs.Time(ctx, logger, "build_plot")(&err)

	if err := req.Canvas.Validate(); err != nil {
		return nil, fmt.Errorf("build plot: %w", err)
	}

	xs, err := literal.ParseList(req.XValues)
	if err != nil {
		return nil, fmt.Errorf("build plot: x values: %w", err)
	}
	ys, err := literal.ParseList(req.YValues)
	if err != nil {
		return nil, fmt.Errorf("build plot: y values: %w", err)
	}

	if len(xs) != len(ys) {
		return nil, fmt.Errorf("build plot: %d x values, %d y values: %w", len(xs), len(ys), domain.ErrCountMismatch)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("build plot: %w", domain.ErrNoData)
	}

	scaleX, err := ComputeScale(xs, req.Canvas.WidthCM)
	if err != nil {
		return nil, fmt.Errorf("build plot: x axis: %w", err)
	}
	scaleY, err := ComputeScale(ys, req.Canvas.HeightCM)
	if err != nil {
		return nil, fmt.Errorf("build plot: y axis: %w", err)
	}

	points, err := ScalePoints(xs, ys, scaleX, scaleY)
	if err != nil {
		return nil, fmt.Errorf("build plot: %w", err)
	}

	return &domain.Plot{
		Canvas:       req.Canvas,
		ScaleX:       scaleX,
		ScaleY:       scaleY,
		MajorPitchCM: domain.MajorPitchCM,
		MinorPitchCM: domain.MinorPitchCM,
		Points:       points,
	}, nil
}

// Build the plot, render it and write the encoded image to w.
//
// The image is buffered and written only once rendering succeeded, so w
// receives either a complete image or nothing.
func RenderPlot(
	ctx context.Context,
	logger *zap.Logger,
	req PlotRequest,
	renderer ports.PlotRenderer,
	w io.Writer,
) (summary domain.ScaleSummary, err error) {
	if renderer == nil {
		return domain.ScaleSummary{}, errors.New("render plot: renderer must be non-nil")
	}

	plot, err := BuildPlot(ctx, logger, req)
	if err != nil {
		return domain.ScaleSummary{}, fmt.Errorf("render plot: %w", err)
	}

	defer obs.Time(ctx, logger, "render_plot")(&err)

	var buf bytes.Buffer
	if err := renderer.Render(ctx, plot, &buf); err != nil {
		return domain.ScaleSummary{}, fmt.Errorf("render plot: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return domain.ScaleSummary{}, fmt.Errorf("render plot: write image: %w", err)
	}

	return Summarize(plot.ScaleX, plot.ScaleY), nil
}
