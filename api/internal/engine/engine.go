// Package engine defines the model-backend contract consumed by the
// conversion pipeline and a small registry for the configured backends.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Engine is one vision model backend: a single encoded image plus a prompt
// string in, the raw DocTags text out.
type Engine interface {
	Name() string
	GetModel() string
	Generate(ctx context.Context, image []byte, mime, prompt string) (string, error)
}

// ModelError reports a failed or empty model call.
type ModelError struct {
	Engine string
	Err    error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model %s: %v", e.Engine, e.Err)
	}
	return fmt.Sprintf("model %s: empty output", e.Engine)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Engines holds the configured backends.
type Engines struct {
	Gemini    Engine
	OpenAI    Engine
	Tesseract Engine
	Default   string
}

func (e *Engines) GetEngine(name string) (Engine, error) {
	if name == "" {
		name = e.Default
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini":
		if e.Gemini != nil {
			return e.Gemini, nil
		}
	case "gpt", "openai":
		if e.OpenAI != nil {
			return e.OpenAI, nil
		}
	case "tesseract":
		if e.Tesseract != nil {
			return e.Tesseract, nil
		}
	default:
		return nil, fmt.Errorf("unknown engine %q; use gemini | openai | tesseract", name)
	}
	return nil, fmt.Errorf("engine %q is not configured", name)
}

// Names lists the configured backends in a stable order.
func (e *Engines) Names() []string {
	var names []string
	if e.Gemini != nil {
		names = append(names, "gemini")
	}
	if e.OpenAI != nil {
		names = append(names, "openai")
	}
	if e.Tesseract != nil {
		names = append(names, "tesseract")
	}
	return names
}

// Manager tracks a per-chat engine selection for the bot front end.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}

// ClipDocTags cuts the generation at the first closing document tag; models
// occasionally keep talking after the document is complete.
func ClipDocTags(s string) string {
	const end = "</doctag>"
	if i := strings.Index(s, end); i >= 0 {
		return s[:i+len(end)]
	}
	return s
}
