// Package assets loads the company logo for document headers. Sources may be
// http(s) URLs, data URIs or local file paths; every image is decoded,
// orientation-corrected, bounded in size and re-encoded as PNG.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"docportal/layout"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultMaxBytes = 4 << 20
	// MaxPixels bounds the longest edge of an embedded logo.
	MaxPixels = 600
)

var ErrTooLarge = errors.New("image exceeds size limit")

// Loader fetches and normalizes images.
type Loader struct {
	Client   *http.Client
	Timeout  time.Duration
	MaxBytes int64
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{
		Client:   &http.Client{Timeout: timeout},
		Timeout:  timeout,
		MaxBytes: DefaultMaxBytes,
	}
}

// Load reads src and returns a PNG-encoded image ready for layout.
func (l *Loader) Load(ctx context.Context, src string) (*layout.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("empty image source")
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	raw, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, src)
	case strings.HasPrefix(src, "data:"):
		return decodeDataURI(src)
	default:
		f, err := os.Open(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		return l.limitedRead(f)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	return l.limitedRead(resp.Body)
}

func (l *Loader) limitedRead(r io.Reader) ([]byte, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data uri")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("data uri must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	return data, nil
}

// Normalize decodes any supported format (PNG, JPEG, GIF, BMP, TIFF, WebP),
// applies EXIF orientation, shrinks it to MaxPixels and re-encodes as PNG.
func Normalize(raw []byte) (*layout.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxPixels || b.Dy() > MaxPixels {
		img = imaging.Fit(img, MaxPixels, MaxPixels, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	nb := img.Bounds()
	return &layout.Image{
		Name:   "img-" + uuid.NewString(),
		Data:   buf.Bytes(),
		Width:  nb.Dx(),
		Height: nb.Dy(),
	}, nil
}
