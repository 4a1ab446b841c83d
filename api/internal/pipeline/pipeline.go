// Package pipeline wires the input normalizer, a model backend, and the
// output formatter into the single process operation the front ends call.
package pipeline

import (
	"context"
	"net/http"
	"time"

	"docling-web/api/internal/engine"
	"docling-web/api/internal/render"
	"docling-web/api/internal/source"
	"docling-web/api/internal/util"
)

type Pipeline struct {
	Engine engine.Engine
	HTTPC  *http.Client
}

func New(eng engine.Engine, fetchTimeout time.Duration) *Pipeline {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &Pipeline{
		Engine: eng,
		HTTPC:  &http.Client{Timeout: fetchTimeout},
	}
}

// Process runs one request to completion: resolve the image, call the model,
// derive the four outputs. Errors abort the request with no partial outputs.
func (p *Pipeline) Process(ctx context.Context, src source.ImageSource, prompt string) (render.Outputs, error) {
	resolved, err := source.Resolve(ctx, p.HTTPC, src)
	if err != nil {
		return render.Outputs{}, err
	}
	prompt = source.ResolvePrompt(prompt)

	raw, err := p.Engine.Generate(ctx, resolved.Data, resolved.MIME, prompt)
	if err != nil {
		return render.Outputs{}, &engine.ModelError{Engine: p.Engine.Name(), Err: err}
	}
	raw = engine.ClipDocTags(util.StripCodeFences(raw))
	if raw == "" {
		return render.Outputs{}, &engine.ModelError{Engine: p.Engine.Name()}
	}

	return render.Render(raw), nil
}
