package pipeline

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// WriteAtomic lets write produce the file at a temporary path in the
// destination directory, then renames it over path. Readers never see a
// half-written capture. The temporary name keeps path's extension so
// encoders that pick a codec by extension still work.
func WriteAtomic(path string, write func(tmpPath string) error) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(path)

	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+".*"+ext)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// SaveImage encodes img to path, JPEG for .jpg/.jpeg and PNG otherwise.
func SaveImage(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image data to save")
	}

	return WriteAtomic(path, func(tmpPath string) error {
		f, err := os.Create(tmpPath)
		if err != nil {
			return err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".jpg", ".jpeg":
			err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
		default:
			err = png.Encode(f, img)
		}
		if err != nil {
			f.Close()
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		return f.Close()
	})
}
