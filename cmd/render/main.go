package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"graph-paper-service/internal/adapters/render"
	"graph-paper-service/internal/config"
	"graph-paper-service/internal/literal"
	"graph-paper-service/internal/platform/obs"
	"graph-paper-service/internal/services"
	"log"
	"os"

	"go.uber.org/zap"
)

// render draws one plot to a file and prints the scale summary.
func main() {
	if _, err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	xValues := flag.String("x", cfg.DefaultX, "X coordinates (comma-separated literals)")
	yValues := flag.String("y", cfg.DefaultY, "Y coordinates (comma-separated literals)")
	width := flag.String("width", fmt.Sprint(cfg.DefaultCanvas.WidthCM), "Drawing width in cm [1, 100]")
	height := flag.String("height", fmt.Sprint(cfg.DefaultCanvas.HeightCM), "Drawing height in cm [1, 100]")
	format := flag.String("format", cfg.ImageFormat, "Image format: png, bmp, tiff")
	out := flag.String("out", "graph.png", "Output image path")
	flag.Parse()

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(logger, cfg, *xValues, *yValues, *width, *height, *format, *out); err != nil {
		if msg, ok := inputMessage(err); ok {
			fmt.Fprintln(os.Stderr, "Error:", msg)
			os.Exit(2)
		}
		logger.Fatal("render failed", zap.Error(err))
	}
}

// inputMessage reports whether err was caused by the command line and, if so,
// the message to show for it.
func inputMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, render.ErrUnsupportedFormat):
		return render.ErrUnsupportedFormat.Error() + " (supported: png, bmp, tiff)", true
	case services.IsInputError(err):
		return services.UserMessage(err), true
	}
	return "", false
}

func run(logger *zap.Logger, cfg config.Config, xValues, yValues, width, height, format, out string) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}
	renderer, err := render.NewRasterRenderer(cfg.PixelsPerCM, f)
	if err != nil {
		return err
	}

	req := services.PlotRequest{XValues: xValues, YValues: yValues}
	if req.Canvas.WidthCM, err = literal.Parse(width); err != nil {
		return err
	}
	if req.Canvas.HeightCM, err = literal.Parse(height); err != nil {
		return err
	}

	// Build first so invalid input never creates or truncates the output file.
	if _, err := services.BuildPlot(context.Background(), logger, req); err != nil {
		return err
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	summary, err := services.RenderPlot(context.Background(), logger, req, renderer, file)
	if err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Info("plot written", zap.String("path", out), zap.String("format", string(f)))
	fmt.Println("X scale:", summary.X)
	fmt.Println("Y scale:", summary.Y)
	return nil
}
