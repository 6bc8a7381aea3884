// Package ocr runs text recognition over a document image and pulls the
// dates out of what was recognized.
package ocr

import (
	"context"
	"errors"
	"image"
)

var ErrNoEngine = errors.New("no OCR engine configured")

// Fragment is one recognized piece of text, usually a line.
type Fragment struct {
	Box        image.Rectangle
	Text       string
	Confidence float64 // 0..1, zero when the engine does not report one
}

// Engine recognizes text in a PNG-encoded image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, png []byte) ([]Fragment, error)
	Close() error
}

// Texts returns the text of each fragment in order
func Texts(fragments []Fragment) []string {
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		out = append(out, f.Text)
	}
	return out
}
