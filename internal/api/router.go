package api

import (
	"graph-paper-service/internal/api/handlers"
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(logger *zap.Logger, plots *handlers.PlotHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handlers.Health(logger))
	mux.HandleFunc("/plot/image", plots.Image)
	mux.HandleFunc("/plots", plots.Create)
	mux.HandleFunc("/", plots.Page)

	return requestIDMiddleware(loggingMiddleware(logger, mux))
}
