package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// Health provides a minimal liveness check endpoint.
func Health(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodGet) {
			return
		}

		res := map[string]string{"status": "ok"}
		writeJSON(w, r, logger, http.StatusOK, res)
	}
}
