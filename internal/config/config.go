// Package config collects the runtime settings of docdate from flags and
// DOCDATE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"
)

const EnvPrefix = "DOCDATE"

const (
	EngineTesseract = "tesseract"
	EngineGemini    = "gemini"
)

var flipModes = []string{"none", "vertical", "horizontal", "both"}

type Config struct {
	CapturePath string
	CameraIndex int
	CameraFPS   int
	CameraFlip  string

	OCREngine     string
	OCRLanguages  []string
	OCRPreprocess bool
	OCRBinarize   bool
	GeminiKey     string
	GeminiModel   string

	StartDir string

	LogLevel string
	LogJSON  bool
}

// FrameInterval is the preview tick derived from CameraFPS
func (c Config) FrameInterval() time.Duration {
	if c.CameraFPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.CameraFPS)
}

// NewFlagSet declares every flag on a fresh ff.FlagSet and returns the
// Config those flags populate once parsed.
func NewFlagSet(name string) (*ff.FlagSet, *Config, func() error) {
	fs := ff.NewFlagSet(name)
	var (
		capturePath  = fs.StringLong("capture-path", "photo.png", "file the camera writes each capture to")
		cameraIndex  = fs.IntLong("camera-index", 0, "capture device index")
		cameraFPS    = fs.IntLong("camera-fps", 30, "camera preview frames per second")
		cameraFlip   = fs.StringLong("camera-flip", "none", "preview orientation fix: none, vertical, horizontal, both")
		ocrEngine    = fs.StringLong("ocr-engine", EngineTesseract, "OCR engine: tesseract or gemini")
		ocrLang      = fs.StringLong("ocr-lang", "eng", "comma-separated OCR language list")
		noPreprocess = fs.BoolLong("no-preprocess", "skip the grayscale/contrast pass before OCR")
		binarize     = fs.BoolLong("ocr-binarize", "reduce pages to black and white (Otsu) before OCR")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		startDir     = fs.StringLong("start-dir", "", "directory the gallery chooser opens in (default: home)")
		logLevel     = fs.StringLong("log-level", "info", "log level: debug, info, warn, error")
		logJSON      = fs.BoolLong("log-json", "write JSON logs instead of console output")
	)

	cfg := &Config{}
	finish := func() error {
		cfg.CapturePath = *capturePath
		cfg.CameraIndex = *cameraIndex
		cfg.CameraFPS = *cameraFPS
		cfg.CameraFlip = strings.ToLower(*cameraFlip)
		cfg.OCREngine = strings.ToLower(*ocrEngine)
		cfg.OCRLanguages = splitList(*ocrLang)
		cfg.OCRPreprocess = !*noPreprocess
		cfg.OCRBinarize = *binarize
		cfg.GeminiKey = *geminiKey
		cfg.GeminiModel = *geminiModel
		cfg.StartDir = *startDir
		cfg.LogLevel = *logLevel
		cfg.LogJSON = *logJSON

		if cfg.GeminiKey == "" {
			cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")
		}
		if cfg.StartDir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				cfg.StartDir = home
			} else {
				cfg.StartDir = "."
			}
		}
		return cfg.Validate()
	}

	return fs, cfg, finish
}

// Parse reads args and the environment into a validated Config.
func Parse(name string, args []string) (*Config, *ff.FlagSet, error) {
	fs, cfg, finish := NewFlagSet(name)
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix(EnvPrefix)); err != nil {
		return nil, fs, err
	}
	if err := finish(); err != nil {
		return nil, fs, err
	}
	return cfg, fs, nil
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.CapturePath) == "" {
		errs = append(errs, errors.New("capture-path must not be empty"))
	}
	if c.CameraIndex < 0 {
		errs = append(errs, fmt.Errorf("camera-index must be >= 0, got %d", c.CameraIndex))
	}
	if c.CameraFPS <= 0 || c.CameraFPS > 120 {
		errs = append(errs, fmt.Errorf("camera-fps must be in 1..120, got %d", c.CameraFPS))
	}
	if !validFlip(c.CameraFlip) {
		errs = append(errs, fmt.Errorf("camera-flip must be one of %s, got %q", strings.Join(flipModes, ", "), c.CameraFlip))
	}
	switch c.OCREngine {
	case EngineTesseract:
	case EngineGemini:
		if c.GeminiKey == "" {
			errs = append(errs, errors.New("gemini engine needs --gemini-key or GEMINI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ocr-engine %q", c.OCREngine))
	}
	if len(c.OCRLanguages) == 0 {
		errs = append(errs, errors.New("ocr-lang must name at least one language"))
	}

	return errors.Join(errs...)
}

func validFlip(mode string) bool {
	for _, m := range flipModes {
		if m == mode {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
