// Package render implements plot renderers by wrapping rasterx.
package render

import (
	"context"
	"errors"
	"fmt"
	"graph-paper-service/internal/domain"
	"graph-paper-service/internal/ports"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var _ ports.PlotRenderer = (*RasterRenderer)(nil) // assert interface conformance

// Layout of the paper, in centimeters.
const (
	marginCM      = 1.5
	minorLineCM   = 0.02
	majorLineCM   = 0.05
	frameLineCM   = 0.05
	tickCM        = 0.1
	pointRadiusCM = 0.1
	labelOffsetCM = 0.2
)

var (
	paperColor = color.RGBA{255, 255, 255, 255}
	minorColor = color.RGBA{211, 211, 211, 255} // lightgrey
	majorColor = color.RGBA{128, 128, 128, 255} // grey
	frameColor = color.RGBA{0, 0, 0, 255}
	pointColor = color.RGBA{255, 0, 0, 255}
	labelColor = color.RGBA{0, 0, 0, 255}
)

// RasterRenderer draws plots as bitmap images with an equal aspect ratio:
// one centimeter spans PixelsPerCM pixels on both axes.
type RasterRenderer struct {
	PixelsPerCM float64
	Format      Format
}

func NewRasterRenderer(pixelsPerCM float64, format Format) (*RasterRenderer, error) {
	if !(pixelsPerCM >= 1 && pixelsPerCM <= domain.MaxPixelsPerCM) {
		return nil, fmt.Errorf("new raster renderer: pixels per cm must be between 1 and %g (got %g)", domain.MaxPixelsPerCM, pixelsPerCM)
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, fmt.Errorf("new raster renderer: %w", err)
	}
	return &RasterRenderer{PixelsPerCM: pixelsPerCM, Format: format}, nil
}

// WithFormat returns a copy of the renderer encoding to f.
func (r *RasterRenderer) WithFormat(f Format) *RasterRenderer {
	c := *r
	c.Format = f
	return &c
}

func (r *RasterRenderer) ContentType() string { return r.Format.ContentType() }

func (r *RasterRenderer) Render(ctx context.Context, plot *domain.Plot, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("raster render: %w", err)
	}
	if plot == nil {
		return errors.New("raster render: plot must be non-nil")
	}

	img := r.Draw(plot)
	if err := encode(w, img, r.Format); err != nil {
		return fmt.Errorf("raster render: encode %s: %w", r.Format, err)
	}
	return nil
}

// Draw rasterizes the plot into a new image.
func (r *RasterRenderer) Draw(plot *domain.Plot) *image.RGBA {
	p := newPaper(plot.Canvas, r.PixelsPerCM)

	if plot.MinorPitchCM > 0 {
		p.grid(plot.MinorPitchCM, minorLineCM, minorColor)
	}
	if plot.MajorPitchCM > 0 {
		p.grid(plot.MajorPitchCM, majorLineCM, majorColor)
		p.frame(plot.MajorPitchCM)
	}

	// Points far outside the paper are skipped; their pixel positions
	// would overflow the rasterizer's fixed-point coordinates.
	for _, pt := range plot.Points {
		if p.visible(pt.X, pt.Y) {
			p.point(pt)
		}
	}
	for _, pt := range plot.Points {
		if !p.visible(pt.X, pt.Y) {
			continue
		}
		p.label(pt.X+labelOffsetCM, pt.Y+labelOffsetCM, fmt.Sprintf("(%s, %s)", formatValue(pt.OrigX), formatValue(pt.OrigY)))
	}

	return p.img
}

// paper maps canvas centimeters onto image pixels. The y axis points up.
type paper struct {
	canvas domain.CanvasSpec
	ppcm   float64
	img    *image.RGBA
	filler *rasterx.Filler
	dasher *rasterx.Dasher
}

func newPaper(canvas domain.CanvasSpec, ppcm float64) *paper {
	w := int(math.Ceil((canvas.WidthCM + 2*marginCM) * ppcm))
	h := int(math.Ceil((canvas.HeightCM + 2*marginCM) * ppcm))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(paperColor), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &paper{
		canvas: canvas,
		ppcm:   ppcm,
		img:    img,
		filler: rasterx.NewFiller(w, h, scanner),
		dasher: rasterx.NewDasher(w, h, scanner),
	}
}

func (p *paper) px(x, y float64) (float64, float64) {
	return (marginCM + x) * p.ppcm, (marginCM + p.canvas.HeightCM - y) * p.ppcm
}

func (p *paper) fixedPoint(x, y float64) fixed.Point26_6 {
	fx, fy := p.px(x, y)
	return fixed.Point26_6{X: fixed.Int26_6(fx * 64), Y: fixed.Int26_6(fy * 64)}
}

func (p *paper) visible(x, y float64) bool {
	return x >= -marginCM && x <= p.canvas.WidthCM+marginCM &&
		y >= -marginCM && y <= p.canvas.HeightCM+marginCM
}

// steps returns the number of whole pitches that fit in length.
func steps(length, pitch float64) int {
	return int(math.Floor(length/pitch + 1e-9))
}

// stroke draws straight segments given as x1, y1, x2, y2 in centimeters.
func (p *paper) stroke(widthCM float64, c color.Color, segments [][4]float64) {
	width := math.Max(1, widthCM*p.ppcm)

	p.dasher.Clear()
	p.dasher.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, nil, 0)
	p.dasher.SetColor(c)
	for _, s := range segments {
		p.dasher.Start(p.fixedPoint(s[0], s[1]))
		p.dasher.Line(p.fixedPoint(s[2], s[3]))
		p.dasher.Stop(false)
	}
	p.dasher.Draw()
}

func (p *paper) grid(pitch, widthCM float64, c color.Color) {
	var segments [][4]float64
	for i := 0; i <= steps(p.canvas.WidthCM, pitch); i++ {
		x := float64(i) * pitch
		segments = append(segments, [4]float64{x, 0, x, p.canvas.HeightCM})
	}
	for i := 0; i <= steps(p.canvas.HeightCM, pitch); i++ {
		y := float64(i) * pitch
		segments = append(segments, [4]float64{0, y, p.canvas.WidthCM, y})
	}
	p.stroke(widthCM, c, segments)
}

// frame outlines the plane, draws inward ticks and labels every major pitch.
func (p *paper) frame(pitch float64) {
	w, h := p.canvas.WidthCM, p.canvas.HeightCM
	segments := [][4]float64{
		{0, 0, w, 0}, {w, 0, w, h}, {w, h, 0, h}, {0, h, 0, 0},
	}
	for i := 0; i <= steps(w, pitch); i++ {
		x := float64(i) * pitch
		segments = append(segments, [4]float64{x, 0, x, tickCM})
	}
	for i := 0; i <= steps(h, pitch); i++ {
		y := float64(i) * pitch
		segments = append(segments, [4]float64{0, y, tickCM, y})
	}
	p.stroke(frameLineCM, frameColor, segments)

	face := basicfont.Face7x13
	lineHeight := float64(face.Metrics().Height.Ceil()) / p.ppcm

	for i := 0; i <= steps(w, pitch); i++ {
		s := tickLabel(float64(i) * pitch)
		p.labelCentered(float64(i)*pitch, -lineHeight, s)
	}
	for i := 0; i <= steps(h, pitch); i++ {
		s := tickLabel(float64(i) * pitch)
		p.labelRight(-labelOffsetCM/2, float64(i)*pitch, s)
	}

	p.labelCentered(w/2, -2.2*lineHeight, "cm")
	p.label(-marginCM+0.1, h/2, "cm")
}

func (p *paper) point(pt domain.ScaledPoint) {
	cx, cy := p.px(pt.X, pt.Y)

	p.filler.Clear()
	p.filler.SetColor(pointColor)
	rasterx.AddCircle(cx, cy, math.Max(2, pointRadiusCM*p.ppcm), p.filler)
	p.filler.Draw()
}

func (p *paper) drawer(x, y float64) *font.Drawer {
	fx, fy := p.px(x, y)
	return &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(fx)), int(math.Round(fy))),
	}
}

// label draws s with its baseline starting at (x, y).
func (p *paper) label(x, y float64, s string) {
	p.drawer(x, y).DrawString(s)
}

// labelCentered draws s horizontally centered on x, with its baseline at y.
func (p *paper) labelCentered(x, y float64, s string) {
	d := p.drawer(x, y)
	d.Dot.X -= d.MeasureString(s) / 2
	d.DrawString(s)
}

// labelRight draws s ending at x, vertically centered on y.
func (p *paper) labelRight(x, y float64, s string) {
	d := p.drawer(x, y)
	d.Dot.X -= d.MeasureString(s)
	d.Dot.Y += basicfont.Face7x13.Metrics().Ascent / 2
	d.DrawString(s)
}
