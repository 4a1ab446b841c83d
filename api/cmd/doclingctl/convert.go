package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docling-web/api/internal/config"
	"docling-web/api/internal/engine"
	"docling-web/api/internal/engine/gemini"
	"docling-web/api/internal/engine/openai"
	"docling-web/api/internal/engine/tesseract"
	"docling-web/api/internal/pipeline"
	"docling-web/api/internal/render"
	"docling-web/api/internal/source"
)

func convertCmd() *cobra.Command {
	var engineName string
	var prompt string
	var out string
	var timeoutSec int

	cmd := &cobra.Command{
		Use:   "convert <image-file-or-url>",
		Short: "Convert one document image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := argSource(args[0])
			if err != nil {
				return err
			}
			return runConvert(cmd, src, engineName, prompt, out, timeoutSec)
		},
	}
	addConvertFlags(cmd, &engineName, &prompt, &out, &timeoutSec)
	return cmd
}

func addConvertFlags(cmd *cobra.Command, engineName, prompt, out *string, timeoutSec *int) {
	cmd.Flags().StringVar(engineName, "engine", "", "model backend: gemini | openai | tesseract (default from config)")
	cmd.Flags().StringVarP(prompt, "prompt", "p", "", "prompt for the model (default: the docling conversion instruction)")
	cmd.Flags().StringVarP(out, "out", "o", "", "write doctags.txt, document.md, document.html, document.txt into this directory")
	cmd.Flags().IntVar(timeoutSec, "timeout", 180, "overall timeout in seconds")
}

func argSource(arg string) (source.ImageSource, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return source.ImageSource{Kind: source.KindURL, URL: arg}, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return source.ImageSource{}, fmt.Errorf("read %s: %w", arg, err)
	}
	return source.ImageSource{Kind: source.KindUpload, Data: data}, nil
}

func runConvert(cmd *cobra.Command, src source.ImageSource, engineName, prompt, out string, timeoutSec int) error {
	cfg := config.Load()

	engs := &engine.Engines{Default: cfg.DefaultEngine}
	if cfg.GeminiAPIKey != "" {
		engs.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if cfg.OpenAIAPIKey != "" || cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		engs.OpenAI = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}
	engs.Tesseract = tesseract.New(strings.Split(cfg.TesseractLangs, "+")...)

	eng, err := engs.GetEngine(engineName)
	if err != nil {
		return err
	}

	if prompt == "" {
		prompt = cfg.Prompt
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	p := pipeline.New(eng, cfg.FetchTimeout())
	outputs, err := p.Process(ctx, src, prompt)
	if err != nil {
		return err
	}

	if out != "" {
		return writeOutputs(out, outputs)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "===== DocTags =====")
	fmt.Fprintln(w, outputs.DocTags)
	fmt.Fprintln(w, "===== Markdown =====")
	fmt.Fprintln(w, outputs.Markdown)
	fmt.Fprintln(w, "===== HTML =====")
	fmt.Fprintln(w, outputs.HTML)
	fmt.Fprintln(w, "===== Plain Text =====")
	fmt.Fprintln(w, outputs.PlainText)
	if outputs.Degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: structural parse degraded to plain text")
	}
	return nil
}

func writeOutputs(dir string, outputs render.Outputs) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := map[string]string{
		"doctags.txt":   outputs.DocTags,
		"document.md":   outputs.Markdown,
		"document.html": outputs.HTML,
		"document.txt":  outputs.PlainText,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
