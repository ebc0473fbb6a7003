package handlers

import (
	"net/http"
	"time"
)

// Health godoc
// @Summary  Liveness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]interface{}
// @Router   /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, jsonResponse{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
