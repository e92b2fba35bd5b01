package ports

import (
	"context"
	"graph-paper-service/internal/domain"
	"io"
)

// Contract for drawing a scaled plot onto millimeter paper.
type PlotRenderer interface {
	// Draw the canvas, both grids and every labeled point, and encode the result to w.
	Render(ctx context.Context, plot *domain.Plot, w io.Writer) error
	// MIME type of the encoded output.
	ContentType() string
}
