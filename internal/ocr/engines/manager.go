// Package engines maps engine names from configuration to constructors.
package engines

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docdate/internal/config"
	"docdate/internal/ocr"
	"docdate/internal/ocr/tesseract"
)

// Factory builds an engine from the runtime configuration.
type Factory func(ctx context.Context, cfg *config.Config) (ocr.Engine, error)

type Manager struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewManager returns a manager with the tesseract and gemini engines
// registered.
func NewManager() *Manager {
	m := &Manager{factories: make(map[string]Factory)}
	m.registerEngines()
	return m
}

func (m *Manager) registerEngines() {
	m.Register(config.EngineTesseract, func(ctx context.Context, cfg *config.Config) (ocr.Engine, error) {
		engine, err := tesseract.New(cfg.OCRLanguages)
		if err != nil {
			return nil, err
		}
		return engine, nil
	})
	m.Register(config.EngineGemini, func(ctx context.Context, cfg *config.Config) (ocr.Engine, error) {
		engine, err := ocr.NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.OCRLanguages)
		if err != nil {
			return nil, err
		}
		return engine, nil
	})
}

// Register adds or replaces the factory for name.
func (m *Manager) Register(name string, f Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = f
}

// Open builds the engine named by cfg.OCREngine.
func (m *Manager) Open(ctx context.Context, cfg *config.Config) (ocr.Engine, error) {
	m.mu.RLock()
	f, exists := m.factories[cfg.OCREngine]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown ocr engine: %s (available: %s)", cfg.OCREngine, strings.Join(m.Available(), ", "))
	}

	engine, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("starting %s engine: %w", cfg.OCREngine, err)
	}
	return engine, nil
}

func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.factories))
	for name := range m.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScannerOptions turns the pre-processing settings of cfg into scanner
// options.
func ScannerOptions(cfg *config.Config) []ocr.ScannerOption {
	opts := ocr.DefaultPreprocessOptions()
	opts.Binarize = cfg.OCRBinarize
	return []ocr.ScannerOption{
		ocr.WithPreprocess(cfg.OCRPreprocess),
		ocr.WithPreprocessOptions(opts),
	}
}
