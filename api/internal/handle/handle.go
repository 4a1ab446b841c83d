package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"docling-web/api/internal/engine"
)

type Handle struct {
	engs         *engine.Engines
	fetchTimeout time.Duration
}

func New(engs *engine.Engines, fetchTimeout time.Duration) *Handle {
	return &Handle{
		engs:         engs,
		fetchTimeout: fetchTimeout,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
