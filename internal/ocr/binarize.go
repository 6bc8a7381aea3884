package ocr

import (
	"image"
	"image/color"
)

// Histogram counts the luma of every pixel of a grayscale NRGBA image;
// the red channel is taken as the gray level.
func Histogram(img *image.NRGBA) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x*4]]++
		}
	}
	return hist
}

// OtsuThreshold picks the gray level that maximizes between-class
// variance. An empty histogram yields 127.
func OtsuThreshold(hist [256]int) uint8 {
	total := 0
	sum := 0.0
	for i, count := range hist {
		total += count
		sum += float64(i) * float64(count)
	}
	if total == 0 {
		return 127
	}

	var (
		sumB        float64
		wB          int
		maxVariance float64
		best        = 127
	)
	for i := 0; i < 256; i++ {
		wB += hist[i]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += float64(i) * float64(hist[i])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)

		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > maxVariance {
			maxVariance = between
			best = i
		}
	}
	return uint8(best)
}

// Binarize maps every pixel above the Otsu threshold to white and the
// rest to black, in place.
func Binarize(img *image.NRGBA) uint8 {
	t := OtsuThreshold(Histogram(img))
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := img.NRGBAAt(x, y).R
			out := color.NRGBA{A: 255}
			if v > t {
				out.R, out.G, out.B = 255, 255, 255
			}
			img.SetNRGBA(x, y, out)
		}
	}
	return t
}
