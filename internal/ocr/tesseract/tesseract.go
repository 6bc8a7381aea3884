// Package tesseract adapts the Tesseract OCR engine to ocr.Engine.
//
// It needs libtesseract and the trained data for each configured language.
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"docdate/internal/ocr"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text lines. A gosseract client is not safe for
// concurrent use, so calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	closed bool
}

func New(languages []string) (*Engine, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("setting languages %s: %w", strings.Join(languages, "+"), err)
		}
	}
	return &Engine{client: client}, nil
}

func (e *Engine) Name() string { return "tesseract" }

func (e *Engine) Recognize(ctx context.Context, png []byte) ([]ocr.Fragment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("tesseract engine closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.client.SetImageFromBytes(png); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	return toFragments(boxes), nil
}

func toFragments(boxes []gosseract.BoundingBox) []ocr.Fragment {
	fragments := make([]ocr.Fragment, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		fragments = append(fragments, ocr.Fragment{
			Box:        b.Box,
			Text:       text,
			Confidence: b.Confidence / 100,
		})
	}
	return fragments
}

// Close releases the engine. Safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	return e.client.Close()
}
