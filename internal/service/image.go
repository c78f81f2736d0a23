// Package service provides image loading and source discovery for the viewer.
package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxImageBytes bounds how much of a source is read into memory.
const MaxImageBytes = 256 << 20

// ErrTooLarge is returned for sources bigger than MaxImageBytes.
var ErrTooLarge = errors.New("image source too large")

// ImageInfo describes a decoded image. The camera fields are empty when the
// source carries no EXIF data.
type ImageInfo struct {
	Width       int
	Height      int
	Format      string
	Size        int64
	Orientation int

	Camera   string
	Aperture float64 // f-number
	Exposure string  // e.g. "1/200 s"
}

// Summary is a one-line description for status displays, such as
// "jpeg 2.4 MB  Pixel 7  f/1.9  1/120 s".
func (info *ImageInfo) Summary() string {
	parts := []string{info.Format, formatBytes(info.Size)}
	if info.Camera != "" {
		parts = append(parts, info.Camera)
	}
	if info.Aperture > 0 {
		parts = append(parts, fmt.Sprintf("f/%.1f", info.Aperture))
	}
	if info.Exposure != "" {
		parts = append(parts, info.Exposure)
	}
	return strings.Join(parts, "  ")
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// ImageService fetches and decodes images from paths and URIs.
type ImageService struct {
	Client *http.Client
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{Client: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch returns the raw bytes of source, which may be a file path, a
// file:// or http(s):// URL, or a data: URI.
func (is *ImageService) Fetch(ctx context.Context, source string) ([]byte, error) {
	scheme, _, _ := strings.Cut(source, ":")
	switch strings.ToLower(scheme) {
	case "data":
		return decodeDataURI(source)
	case "http", "https":
		return is.fetchHTTP(ctx, source)
	case "file":
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parsing file url: %w", err)
		}
		return readFile(u.Path)
	}
	return readFile(source)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return readLimited(f)
}

func (is *ImageService) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	client := is.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(source string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(source, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data uri: missing comma")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data uri: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data uri: %w", err)
	}
	return []byte(s), nil
}

// Decode fetches and fully decodes source. The returned info carries the
// EXIF orientation when present.
func (is *ImageService) Decode(ctx context.Context, source string) (image.Image, *ImageInfo, error) {
	data, err := is.Fetch(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	info := &ImageInfo{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Size:   int64(len(data)),
	}
	readEXIF(bytes.NewReader(data), info)
	return img, info, nil
}

// readEXIF fills orientation and a few camera fields. Missing or broken
// EXIF data is not an error.
func readEXIF(r io.Reader, info *ImageInfo) {
	x, err := exif.Decode(r)
	if err != nil {
		return
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil {
			info.Orientation = o
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			info.Camera = strings.TrimSpace(model)
		}
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			info.Aperture = float64(num) / float64(den)
		}
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			info.Exposure = fmt.Sprintf("%d/%d s", num, den)
		}
	}
}

// RotationForOrientation returns the rotation index that displays an image
// upright given its EXIF orientation. Mirrored orientations are treated as
// their unmirrored rotation.
func RotationForOrientation(orientation int) int {
	switch orientation {
	case 3, 4:
		return 2
	case 5, 6:
		return 3
	case 7, 8:
		return 1
	}
	return 0
}
