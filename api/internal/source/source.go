// Package source normalizes the heterogeneous image inputs accepted by the
// converter (remote URL, file upload, camera frame, clipboard paste) into a
// single decoded raster image plus the encoded bytes handed to the model.
package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	// Stdlib decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Extended decoders for formats browsers and clipboards commonly produce.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"docling-web/api/internal/config"
	"docling-web/api/internal/util"
)

// Kind identifies where an image came from. The set is closed: the UI offers
// exactly these four inputs.
type Kind string

const (
	KindURL       Kind = "url"
	KindUpload    Kind = "upload"
	KindCamera    Kind = "camera"
	KindClipboard Kind = "clipboard"
)

// ImageSource is one user-supplied image. URL kinds carry URL; the byte kinds
// carry the already-acquired encoded image in Data.
type ImageSource struct {
	Kind Kind
	URL  string
	Data []byte
}

// Resolved is the normalized form every downstream consumer works with.
type Resolved struct {
	Image  image.Image
	Format string
	Data   []byte
	MIME   string
}

// FetchError reports a failed HTTP retrieval of a URL source.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports bytes that could not be interpreted as an image.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s image: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("decode %s image: empty input", e.Kind)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Resolve fetches (URL kind) and decodes the source. A single failure is
// surfaced immediately; nothing is retried.
func Resolve(ctx context.Context, httpc *http.Client, src ImageSource) (*Resolved, error) {
	data := src.Data
	if src.Kind == KindURL {
		var err error
		data, err = fetch(ctx, httpc, src.URL)
		if err != nil {
			return nil, err
		}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Kind: src.Kind}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Kind: src.Kind, Err: err}
	}
	return &Resolved{
		Image:  img,
		Format: format,
		Data:   data,
		MIME:   util.PickMIME("", "", data),
	}, nil
}

// ResolvePrompt returns the caller's prompt verbatim when non-empty, otherwise
// the fixed default conversion instruction.
func ResolvePrompt(s string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return config.DefaultPrompt
}

func fetch(ctx context.Context, httpc *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return data, nil
}
