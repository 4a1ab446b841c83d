// Package tesseract is the no-model fallback backend: plain OCR wrapped as a
// minimal DocTags document, so the whole pipeline works without any network
// model configured.
package tesseract

import (
	"context"
	"errors"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

type Engine struct {
	Languages     []string
	clientFactory func() *gosseract.Client
}

func New(langs ...string) *Engine {
	return &Engine{
		Languages:     langs,
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string     { return "tesseract" }
func (e *Engine) GetModel() string { return strings.Join(e.Languages, "+") }

// Generate runs OCR and emits each non-empty paragraph as a text block. The
// prompt is ignored; tesseract has no instruction channel.
func (e *Engine) Generate(ctx context.Context, image []byte, mime, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()
	if len(e.Languages) > 0 {
		if err := c.SetLanguage(e.Languages...); err != nil {
			return "", err
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", err
	}
	text, err := c.Text()
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("tesseract: no text recognized")
	}
	return wrapDocTags(text), nil
}

func wrapDocTags(text string) string {
	var sb strings.Builder
	sb.WriteString("<doctag>")
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(strings.ReplaceAll(para, "\n", " "))
		if para == "" {
			continue
		}
		sb.WriteString("<text>")
		sb.WriteString(para)
		sb.WriteString("</text>")
	}
	sb.WriteString("</doctag>")
	return sb.String()
}
