package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"docling-web/api/internal/engine"
	"docling-web/api/internal/pipeline"
	"docling-web/api/internal/source"
	"docling-web/api/internal/util"
)

// ConvertRequest is the JSON body of POST /v1/convert. Image carries base64
// or a data: URL for the upload/camera/clipboard sources; URL sources carry
// the address instead.
type ConvertRequest struct {
	Source string `json:"source"` // url | upload | camera | clipboard
	URL    string `json:"url,omitempty"`
	Image  string `json:"image,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Engine string `json:"engine,omitempty"`
}

func (h *Handle) Convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}

	src, err := req.imageSource()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.run(w, r, src, req.Prompt, req.Engine)
}

// ConvertUpload is the multipart variant used by the embedded UI for file,
// camera and clipboard inputs.
func (h *Handle) ConvertUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read image: "+err.Error(), http.StatusBadRequest)
		return
	}

	kind, ok := parseKind(r.FormValue("source"))
	if !ok {
		http.Error(w, fmt.Sprintf("unknown source %q; use upload | camera | clipboard", r.FormValue("source")), http.StatusBadRequest)
		return
	}
	if kind == source.KindURL {
		// the file itself was posted, whatever the form claims
		kind = source.KindUpload
	}
	src := source.ImageSource{Kind: kind, Data: data}
	h.run(w, r, src, r.FormValue("prompt"), r.FormValue("engine"))
}

func (h *Handle) run(w http.ResponseWriter, r *http.Request, src source.ImageSource, prompt, engineName string) {
	reqID := uuid.NewString()

	eng, err := h.engs.GetEngine(engineName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline(r))
	defer cancel()

	log.Printf("convert %s: source=%s engine=%s model=%s", reqID, src.Kind, eng.Name(), eng.GetModel())

	p := pipeline.New(eng, h.fetchTimeout)
	out, err := p.Process(ctx, src, prompt)
	if err != nil {
		log.Printf("convert %s: %v", reqID, err)
		http.Error(w, "convert error: "+err.Error(), statusFor(err))
		return
	}
	if out.Degraded {
		log.Printf("convert %s: structural parse degraded", reqID)
	}
	writeJSON(w, http.StatusOK, out)
}

func requestDeadline(r *http.Request) time.Duration {
	deadline := 180 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return deadline
}

func statusFor(err error) int {
	var fe *source.FetchError
	var de *source.DecodeError
	var me *engine.ModelError
	switch {
	case errors.As(err, &fe), errors.As(err, &de):
		return http.StatusUnprocessableEntity
	case errors.As(err, &me):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (req *ConvertRequest) imageSource() (source.ImageSource, error) {
	kind, ok := parseKind(req.Source)
	if !ok {
		return source.ImageSource{}, fmt.Errorf("unknown source %q; use url | upload | camera | clipboard", req.Source)
	}
	// An omitted source field is inferred from which payload was supplied.
	if req.Source == "" && req.Image == "" && req.URL != "" {
		kind = source.KindURL
	}
	if kind == source.KindURL {
		if req.URL == "" {
			return source.ImageSource{}, fmt.Errorf("url source needs a url")
		}
		return source.ImageSource{Kind: source.KindURL, URL: req.URL}, nil
	}
	if req.Image == "" {
		return source.ImageSource{}, fmt.Errorf("%s source needs image data", kind)
	}
	data, _, err := util.DecodeBase64MaybeDataURL(req.Image)
	if err != nil {
		return source.ImageSource{}, fmt.Errorf("bad image payload: %w", err)
	}
	return source.ImageSource{Kind: kind, Data: data}, nil
}

func parseKind(s string) (source.Kind, bool) {
	switch s {
	case "url":
		return source.KindURL, true
	case "", "upload":
		return source.KindUpload, true
	case "camera", "webcam":
		return source.KindCamera, true
	case "clipboard":
		return source.KindClipboard, true
	default:
		return "", false
	}
}
