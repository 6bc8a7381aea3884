package ocr

import (
	"context"
	"fmt"
	"time"

	"docdate/internal/dates"
	"docdate/internal/logger"
	"docdate/internal/pipeline"

	"github.com/google/uuid"
)

// ScanResult is what one date scan produced. Nothing here is persisted.
type ScanResult struct {
	ID        string
	Path      string
	Engine    string
	Fragments []Fragment
	Dates     []string
	Duration  time.Duration
}

// Text is the display form of the dates
func (r *ScanResult) Text() string {
	return dates.Format(r.Dates)
}

type Scanner struct {
	engine     Engine
	loader     pipeline.ImageLoader
	preprocess bool
	opts       PreprocessOptions
	logger     logger.Logger
}

type ScannerOption func(*Scanner)

func WithPreprocess(enabled bool) ScannerOption {
	return func(s *Scanner) { s.preprocess = enabled }
}

func WithPreprocessOptions(opts PreprocessOptions) ScannerOption {
	return func(s *Scanner) { s.opts = opts }
}

func NewScanner(engine Engine, loader pipeline.ImageLoader, log logger.Logger, options ...ScannerOption) *Scanner {
	s := &Scanner{
		engine:     engine,
		loader:     loader,
		preprocess: true,
		opts:       DefaultPreprocessOptions(),
		logger:     log,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Scan recognizes the image at path and extracts dates from each fragment.
func (s *Scanner) Scan(ctx context.Context, path string) (*ScanResult, error) {
	if s.engine == nil {
		return nil, ErrNoEngine
	}

	result := &ScanResult{
		ID:     uuid.NewString(),
		Path:   path,
		Engine: s.engine.Name(),
	}
	start := time.Now()

	s.logger.Info("Scanner", "scan started", map[string]interface{}{
		"scan_id": result.ID,
		"path":    path,
		"engine":  result.Engine,
	})

	png, err := s.encode(path)
	if err != nil {
		return nil, fmt.Errorf("preparing %s for OCR: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fragments, err := s.engine.Recognize(ctx, png)
	if err != nil {
		return nil, fmt.Errorf("%s recognition failed: %w", result.Engine, err)
	}

	result.Fragments = fragments
	result.Dates = dates.FromFragments(Texts(fragments))
	result.Duration = time.Since(start)

	s.logger.Info("Scanner", "scan finished", map[string]interface{}{
		"scan_id":     result.ID,
		"fragments":   len(fragments),
		"dates":       len(result.Dates),
		"duration_ms": result.Duration.Milliseconds(),
	})

	return result, nil
}

func (s *Scanner) encode(path string) ([]byte, error) {
	if !s.preprocess {
		return s.loader.LoadPNG(path)
	}

	data, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return pipeline.EncodePNG(Preprocess(data.Image, s.opts))
}

func (s *Scanner) Close() error {
	if s.engine == nil {
		return nil
	}
	return s.engine.Close()
}
