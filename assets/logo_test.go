package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestNormalize_ShrinksAndReencodes(t *testing.T) {
	img, err := Normalize(jpegBytes(t, 1200, 300))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if img.Width != MaxPixels || img.Height != 150 {
		t.Errorf("size = %dx%d, want %dx150", img.Width, img.Height, MaxPixels)
	}
	if !bytes.HasPrefix(img.Data, []byte("\x89PNG")) {
		t.Error("output is not PNG")
	}
	if img.Name == "" {
		t.Error("image needs a resource name")
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("definitely not an image")); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoad_Sources(t *testing.T) {
	raw := jpegBytes(t, 80, 40)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "logo.jpg")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"http", srv.URL + "/logo.jpg", false},
		{"http not found", srv.URL + "/missing.png", true},
		{"data uri", "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw), false},
		{"data uri not base64", "data:text/plain,hello", true},
		{"file", path, false},
		{"file scheme", "file://" + path, false},
		{"missing file", filepath.Join(dir, "nope.png"), true},
		{"empty", "  ", true},
	}
	l := NewLoader(2 * time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := l.Load(context.Background(), tt.src)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if img.Width != 80 || img.Height != 40 {
				t.Errorf("size = %dx%d", img.Width, img.Height)
			}
		})
	}
}

func TestLoad_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	l := NewLoader(50 * time.Millisecond)
	start := time.Now()
	if _, err := l.Load(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("load did not honour its timeout")
	}
}

func TestLoad_TooLarge(t *testing.T) {
	l := NewLoader(time.Second)
	l.MaxBytes = 10
	dir := t.TempDir()
	path := filepath.Join(dir, "big.jpg")
	_ = os.WriteFile(path, jpegBytes(t, 50, 50), 0o600)

	if _, err := l.Load(context.Background(), path); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}
