package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"docling-web/api/internal/config"
	"docling-web/api/internal/engine"
	"docling-web/api/internal/engine/gemini"
	"docling-web/api/internal/engine/openai"
	"docling-web/api/internal/engine/tesseract"
	"docling-web/api/internal/handle"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	engs := &engine.Engines{Default: cfg.DefaultEngine}
	if cfg.GeminiAPIKey != "" {
		engs.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if cfg.OpenAIAPIKey != "" || cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		engs.OpenAI = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}
	engs.Tesseract = tesseract.New(strings.Split(cfg.TesseractLangs, "+")...)

	h := handle.New(engs, cfg.FetchTimeout())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/v1/convert", h.Convert)
	mux.HandleFunc("/v1/convert/upload", h.ConvertUpload)

	addr := ":" + cfg.Port
	log.Printf("docling-web listening on %s (engines: %s)", addr, strings.Join(engs.Names(), ", "))
	log.Fatal(http.ListenAndServe(addr, mux))
}
