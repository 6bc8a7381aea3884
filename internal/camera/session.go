// Package camera drives the live preview and still capture of the camera
// screen. The device itself sits behind Device so the loop can run against
// any capture backend.
package camera

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"docdate/internal/logger"
)

// Device is an open capture device. A device that failed to open behaves
// as one that never produces a frame.
type Device interface {
	// ReadFrame returns the next frame oriented for display.
	ReadFrame() (image.Image, bool)
	// WriteFrame reads one frame and writes it to path. It reports false
	// when no frame was available.
	WriteFrame(path string) (bool, error)
	Close() error
}

// Opener opens the configured capture device
type Opener func() Device

// Session owns the device while the camera screen is active.
type Session struct {
	open     Opener
	interval time.Duration
	onFrame  func(image.Image)
	logger   logger.Logger

	mu      sync.Mutex
	device  Device
	cancel  context.CancelFunc
	done    chan struct{}
	frames  uint64
	running bool
}

// DefaultInterval is the preview tick used when none is given.
const DefaultInterval = time.Second / 30

// NewSession builds a session that ticks every interval and hands each
// frame to onFrame from the preview goroutine. onFrame is responsible for
// getting back onto the UI thread. A non-positive interval means
// DefaultInterval.
func NewSession(open Opener, interval time.Duration, onFrame func(image.Image), log logger.Logger) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Session{
		open:     open,
		interval: interval,
		onFrame:  onFrame,
		logger:   log,
	}
}

// Start opens the device and begins the preview loop. Starting a running
// session does nothing.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Debug("CameraSession", "start ignored, already running", nil)
		return
	}

	s.device = s.open()
	s.frames = 0
	s.running = true

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(loopCtx, s.device, s.done)

	s.logger.Info("CameraSession", "preview started", map[string]interface{}{
		"interval_ms": s.interval.Milliseconds(),
	})
}

func (s *Session) loop(ctx context.Context, device Device, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, ok := s.read(device)
			if !ok {
				continue
			}
			if s.onFrame != nil {
				s.onFrame(frame)
			}
		}
	}
}

// read serializes device access with Capture and Stop.
func (s *Session) read(device Device) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device != device {
		return nil, false
	}
	frame, ok := device.ReadFrame()
	if ok {
		s.frames++
	}
	return frame, ok
}

// Capture reads one more frame and writes it to path. It returns false
// when the session is not running or no frame could be read.
func (s *Session) Capture(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.device == nil {
		return false, nil
	}

	ok, err := s.device.WriteFrame(path)
	if err != nil {
		return false, fmt.Errorf("capturing to %s: %w", path, err)
	}
	if ok {
		s.logger.Info("CameraSession", "photo captured", map[string]interface{}{
			"path": path,
		})
	}
	return ok, nil
}

// Stop ends the preview loop and releases the device. It always
// releases, whether or not a frame was ever read, and is safe to repeat.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}

	s.running = false
	cancel, done, device, frames := s.cancel, s.done, s.device, s.frames
	s.device = nil
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	<-done

	if err := device.Close(); err != nil {
		s.logger.Error("CameraSession", err, map[string]interface{}{
			"stage": "release",
		})
	}

	s.logger.Info("CameraSession", "preview stopped", map[string]interface{}{
		"frames": frames,
	})
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Shutdown satisfies shutdown.Shutdownable
func (s *Session) Shutdown() {
	s.Stop()
}
