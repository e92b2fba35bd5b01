package main

import (
	"fmt"
	"graph-paper-service/internal/adapters/render"
	"graph-paper-service/internal/api"
	"graph-paper-service/internal/api/handlers"
	"graph-paper-service/internal/config"
	"graph-paper-service/internal/platform/obs"
	"graph-paper-service/internal/ports"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// main is the application composition root.
// It wires the raster renderers behind the renderer port and starts the HTTP server.
func main() {
	loaded, err := config.LoadDotEnv()
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if !loaded {
		logger.Info("no .env file found (using environment variables)")
	}

	renderers, err := newRenderers(cfg.PixelsPerCM)
	if err != nil {
		logger.Fatal("init renderers", zap.Error(err))
	}
	defaultFormat, err := render.ParseFormat(cfg.ImageFormat)
	if err != nil {
		logger.Fatal("init renderers", zap.Error(err))
	}

	plots := &handlers.PlotHandler{
		Logger:        logger,
		Renderers:     renderers,
		DefaultFormat: string(defaultFormat),
		Defaults: handlers.PlotDefaults{
			XValues: cfg.DefaultX,
			YValues: cfg.DefaultY,
			Canvas:  cfg.DefaultCanvas,
		},
	}
	router := api.NewRouter(logger, plots)

	logger.Info("server listening",
		zap.String("addr", ":"+cfg.Port),
		zap.Float64("pixels_per_cm", cfg.PixelsPerCM),
		zap.String("format", string(defaultFormat)),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newRenderers builds one raster renderer per supported image format.
func newRenderers(pixelsPerCM float64) (map[string]ports.PlotRenderer, error) {
	base, err := render.NewRasterRenderer(pixelsPerCM, render.FormatPNG)
	if err != nil {
		return nil, fmt.Errorf("new renderers: %w", err)
	}

	renderers := make(map[string]ports.PlotRenderer, 3)
	for _, f := range []render.Format{render.FormatPNG, render.FormatBMP, render.FormatTIFF} {
		renderers[string(f)] = base.WithFormat(f)
	}
	return renderers, nil
}
