package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

type PreprocessOptions struct {
	MaxWidth int
	MinWidth int
	Contrast float64
	Sharpen  float64
	Binarize bool
}

func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		MaxWidth: 2400,
		MinWidth: 1000,
		Contrast: 20,
		Sharpen:  1.0,
	}
}

// Preprocess normalises a photographed page for recognition: bring the
// width into [MinWidth, MaxWidth], drop colour, boost contrast, sharpen
// and, when asked, reduce to black and white with an Otsu threshold.
func Preprocess(img image.Image, opts PreprocessOptions) *image.NRGBA {
	w := img.Bounds().Dx()

	switch {
	case opts.MaxWidth > 0 && w > opts.MaxWidth:
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	case opts.MinWidth > 0 && w > 0 && w < opts.MinWidth:
		img = imaging.Resize(img, opts.MinWidth, 0, imaging.CatmullRom)
	}

	out := imaging.Grayscale(img)
	if opts.Contrast != 0 {
		out = imaging.AdjustContrast(out, opts.Contrast)
	}
	if opts.Sharpen > 0 {
		out = imaging.Sharpen(out, opts.Sharpen)
	}
	if opts.Binarize {
		Binarize(out)
	}
	return out
}
