package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"docling-web/api/internal/config"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolveURL(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	res, err := Resolve(context.Background(), srv.Client(), ImageSource{Kind: KindURL, URL: srv.URL})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Format != "png" {
		t.Fatalf("unexpected format: %q", res.Format)
	}
	if res.MIME != "image/png" {
		t.Fatalf("unexpected mime: %q", res.MIME)
	}
	if res.Image == nil || res.Image.Bounds().Dx() != 2 {
		t.Fatalf("unexpected image: %v", res.Image)
	}
	if !bytes.Equal(res.Data, data) {
		t.Fatalf("encoded bytes must pass through unchanged")
	}
}

func TestResolveURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Resolve(context.Background(), srv.Client(), ImageSource{Kind: KindURL, URL: srv.URL + "/missing.png"})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want FetchError, got %v", err)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", fe.StatusCode)
	}
}

func TestResolveURLNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := Resolve(context.Background(), http.DefaultClient, ImageSource{Kind: KindURL, URL: srv.URL})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want FetchError, got %v", err)
	}
}

func TestResolveURLBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	_, err := Resolve(context.Background(), srv.Client(), ImageSource{Kind: KindURL, URL: srv.URL})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want DecodeError, got %v", err)
	}
}

func TestResolveBytes(t *testing.T) {
	for _, kind := range []Kind{KindUpload, KindCamera, KindClipboard} {
		res, err := Resolve(context.Background(), http.DefaultClient, ImageSource{Kind: kind, Data: pngBytes(t)})
		if err != nil {
			t.Fatalf("%s: Resolve() error = %v", kind, err)
		}
		if res.Format != "png" {
			t.Fatalf("%s: unexpected format %q", kind, res.Format)
		}
	}
}

func TestResolveEmptyAndCorrupt(t *testing.T) {
	cases := []struct {
		name string
		src  ImageSource
	}{
		{"empty upload", ImageSource{Kind: KindUpload}},
		{"corrupt clipboard", ImageSource{Kind: KindClipboard, Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}}},
	}
	for _, tc := range cases {
		_, err := Resolve(context.Background(), http.DefaultClient, tc.src)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: want DecodeError, got %v", tc.name, err)
		}
	}
}

func TestResolvePrompt(t *testing.T) {
	if got := ResolvePrompt("Describe the table."); got != "Describe the table." {
		t.Fatalf("non-empty prompt must pass through, got %q", got)
	}
	if got := ResolvePrompt(""); got != config.DefaultPrompt {
		t.Fatalf("empty prompt must resolve to default, got %q", got)
	}
	if got := ResolvePrompt("   \n"); got != config.DefaultPrompt {
		t.Fatalf("blank prompt must resolve to default, got %q", got)
	}
}
