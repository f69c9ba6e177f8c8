package barcode

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"

	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/tickets/codegen"
)

const filePrefix = "barcode_"

// Renderer draws EAN-13 symbols for 12-digit payloads. The symbology adds
// its own check digit.
type Renderer struct {
	Dir    string
	Width  int
	Height int
}

func NewRenderer(dir string, width, height int) *Renderer {
	return &Renderer{Dir: dir, Width: width, Height: height}
}

// FileName is the image name for a payload. It depends only on the payload,
// so a repeated code overwrites the earlier image.
func FileName(payload string) string {
	return filePrefix + payload + ".png"
}

// CodeFromFileName reverses FileName.
func CodeFromFileName(name string) (string, bool) {
	name = filepath.Base(name)
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".png") {
		return "", false
	}
	code := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".png")
	return code, codegen.IsPayload(code)
}

// Path is where Render writes the image for payload.
func (r *Renderer) Path(payload string) string {
	return filepath.Join(r.Dir, FileName(payload))
}

// Encode returns the scaled EAN-13 image as PNG bytes.
func (r *Renderer) Encode(payload string) ([]byte, error) {
	symbol, err := encode(payload)
	if err != nil {
		return nil, err
	}

	scaled, err := bc.Scale(symbol, r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to scale barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render writes the PNG for payload and returns its path.
func (r *Renderer) Render(payload string) (string, error) {
	data, err := r.Encode(payload)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create barcode directory: %w", err)
	}

	path := r.Path(payload)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write barcode image: %w", err)
	}
	return path, nil
}

// Bars returns the symbol's modules as a line of full blocks and spaces, one
// rune per module, for drawing in a terminal.
func Bars(payload string) (string, error) {
	symbol, err := encode(payload)
	if err != nil {
		return "", err
	}

	bounds := symbol.Bounds()
	var sb strings.Builder
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		if isDark(symbol.At(x, bounds.Min.Y)) {
			sb.WriteRune('█')
		} else {
			sb.WriteRune(' ')
		}
	}
	return sb.String(), nil
}

func encode(payload string) (bc.BarcodeIntCS, error) {
	if !codegen.IsPayload(payload) {
		return nil, fmt.Errorf("invalid barcode payload %q: want %d digits", payload, codegen.PayloadLength)
	}
	symbol, err := ean.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode EAN-13: %w", err)
	}
	return symbol, nil
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

// ImageCache keeps rendered PNGs for serving.
type ImageCache interface {
	Put(ctx context.Context, code string, png []byte) error
}

// CachingRenderer renders to disk and copies the result into an ImageCache.
// Cache failures are logged; the file on disk is the image of record.
type CachingRenderer struct {
	*Renderer
	Cache  ImageCache
	Logger *logger.Logger
}

func (c *CachingRenderer) Render(payload string) (string, error) {
	path, err := c.Renderer.Render(payload)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		err = c.Cache.Put(context.Background(), payload, data)
	}
	if err != nil && c.Logger != nil {
		c.Logger.Warn("CACHE", fmt.Sprintf("Failed to cache barcode %s: %v", payload, err))
	}
	return path, nil
}
