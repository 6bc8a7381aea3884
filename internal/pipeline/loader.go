package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Loader struct {
	logger Logger
}

func NewLoader(log Logger) *Loader {
	return &Loader{logger: log}
}

// Load decodes the file at path. Nothing is cached: every call reads the
// file again so a re-captured image is always current.
func (l *Loader) Load(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}

	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":       path,
		"size_bytes": len(data),
	})

	img, format, err := decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	imageData := &ImageData{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
		Path:   path,
	}

	l.logger.Debug("ImageLoader", "image loaded", map[string]interface{}{
		"width":  imageData.Width,
		"height": imageData.Height,
		"format": format,
	})

	return imageData, nil
}

// LoadPNG returns the image at path re-encoded as PNG, so recognizers only
// ever see one format whatever the gallery handed us.
func (l *Loader) LoadPNG(path string) ([]byte, error) {
	data, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	if data.Format == "png" {
		if raw, err := os.ReadFile(path); err == nil {
			return raw, nil
		}
	}
	return EncodePNG(data.Image)
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, ext string) (image.Image, string, error) {
	ext = strings.ToLower(ext)

	switch {
	case isPDF(data) || ext == ".pdf":
		img, err := renderFirstPage(data)
		return img, "pdf", err
	case isHEIC(data) || ext == ".heic" || ext == ".heif":
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, "heic", nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if err == image.ErrFormat {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", err
	}
	return img, format, nil
}

func renderFirstPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// isHEIC checks the ISO BMFF ftyp box for a HEIF family brand
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}
