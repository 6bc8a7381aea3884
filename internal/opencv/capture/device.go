// Package capture adapts a gocv VideoCapture to camera.Device.
package capture

import (
	"fmt"
	"image"
	"sync"

	"docdate/internal/camera"
	"docdate/internal/logger"
	"docdate/internal/pipeline"

	"gocv.io/x/gocv"
)

const noFlip = 2

// FlipCode maps an orientation mode onto a gocv.Flip code. ok is false
// for "none", which skips the flip entirely.
func FlipCode(mode string) (code int, ok bool) {
	switch mode {
	case "vertical":
		return 0, true
	case "horizontal":
		return 1, true
	case "both":
		return -1, true
	default:
		return noFlip, false
	}
}

type Device struct {
	mu       sync.Mutex
	capture  *gocv.VideoCapture
	frame    gocv.Mat
	flipped  gocv.Mat
	flipCode int
	logger   logger.Logger
}

var _ camera.Device = (*Device)(nil)

// Open opens the capture device at index. Failure to open is logged and
// yields a Device that never produces frames.
func Open(index int, flipMode string, log logger.Logger) *Device {
	code, _ := FlipCode(flipMode)
	d := &Device{
		frame:    gocv.NewMat(),
		flipped:  gocv.NewMat(),
		flipCode: code,
		logger:   log,
	}

	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		log.Warning("CaptureDevice", "could not open camera, preview disabled", map[string]interface{}{
			"index": index,
			"error": err.Error(),
		})
		return d
	}
	if !vc.IsOpened() {
		vc.Close()
		log.Warning("CaptureDevice", "camera not opened, preview disabled", map[string]interface{}{
			"index": index,
		})
		return d
	}

	d.capture = vc
	log.Debug("CaptureDevice", "camera opened", map[string]interface{}{
		"index":  index,
		"width":  vc.Get(gocv.VideoCaptureFrameWidth),
		"height": vc.Get(gocv.VideoCaptureFrameHeight),
	})
	return d
}

// Opener returns a camera.Opener bound to the given device settings
func Opener(index int, flipMode string, log logger.Logger) camera.Opener {
	return func() camera.Device {
		return Open(index, flipMode, log)
	}
}

func (d *Device) readLocked() bool {
	if d.capture == nil {
		return false
	}
	if ok := d.capture.Read(&d.frame); !ok || d.frame.Empty() {
		return false
	}
	return true
}

func (d *Device) ReadFrame() (image.Image, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.readLocked() {
		return nil, false
	}

	src := d.frame
	if d.flipCode != noFlip {
		gocv.Flip(d.frame, &d.flipped, d.flipCode)
		src = d.flipped
	}

	img, err := src.ToImage()
	if err != nil {
		d.logger.Debug("CaptureDevice", "frame conversion failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}
	return img, true
}

// WriteFrame stores the frame as the device delivers it; the preview
// orientation fix is not applied to the file.
func (d *Device) WriteFrame(path string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.readLocked() {
		return false, nil
	}
	if err := saveMat(path, d.frame); err != nil {
		return false, err
	}
	return true, nil
}

// saveMat converts m and hands it to the pipeline saver, which picks the
// codec from path's extension.
func saveMat(path string, m gocv.Mat) error {
	img, err := m.ToImage()
	if err != nil {
		return fmt.Errorf("converting frame: %w", err)
	}
	return pipeline.SaveImage(path, img)
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.capture != nil {
		err = d.capture.Close()
		d.capture = nil
	}
	d.frame.Close()
	d.flipped.Close()
	return err
}
