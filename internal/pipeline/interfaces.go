package pipeline

import (
	"errors"
	"image"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Logger is the subset of logger.Logger the pipeline needs
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Info(component string, message string, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// ImageLoader reads images from disk for display and recognition
type ImageLoader interface {
	Load(path string) (*ImageData, error)
	LoadPNG(path string) ([]byte, error)
}

// ImageData represents a decoded image and where it came from
type ImageData struct {
	Image  image.Image
	Width  int
	Height int
	Format string
	Path   string
}
