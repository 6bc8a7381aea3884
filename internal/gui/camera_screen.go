package gui

import (
	"image"
	"time"

	"docdate/internal/camera"
	"docdate/internal/gui/components"
	"docdate/internal/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

type CameraScreen struct {
	deps    *Deps
	session *camera.Session
	preview *components.ImageView
	content fyne.CanvasObject

	CaptureButton *widget.Button
}

func NewCameraScreen(deps *Deps, open camera.Opener, interval time.Duration) *CameraScreen {
	s := &CameraScreen{
		deps:    deps,
		preview: components.NewImageView("Waiting for camera..."),
	}

	s.session = camera.NewSession(open, interval, s.showFrame, deps.Logger)

	s.CaptureButton = widget.NewButton("Capture", s.Capture)
	s.CaptureButton.Importance = widget.HighImportance

	s.content = container.NewBorder(nil, s.CaptureButton, nil, nil, s.preview.GetContainer())
	return s
}

func (s *CameraScreen) Content() fyne.CanvasObject { return s.content }

func (s *CameraScreen) Enter() {
	s.preview.Clear("Waiting for camera...")
	s.CaptureButton.Enable()
	s.session.Start(s.deps.ctx())
}

// Leave always releases the device, even if it never produced a frame.
func (s *CameraScreen) Leave() {
	s.session.Stop()
}

func (s *CameraScreen) showFrame(frame image.Image) {
	s.deps.post(func() {
		s.preview.SetImage(frame)
	})
}

// Capture writes one frame to the capture path off the UI goroutine and
// moves on to review when a frame was written. Without a frame nothing
// happens.
func (s *CameraScreen) Capture() {
	s.CaptureButton.Disable()
	path := s.deps.Selection.CapturePath()

	go func() {
		ok, err := s.session.Capture(path)

		s.deps.post(func() {
			s.CaptureButton.Enable()
			if err != nil {
				s.deps.Logger.Error("CameraScreen", err, map[string]interface{}{"stage": "capture"})
				dialog.ShowError(err, s.deps.Window)
				return
			}
			if !ok {
				s.deps.Logger.Debug("CameraScreen", "capture skipped, no frame", nil)
				return
			}
			s.deps.Selection.SetCaptured()
			s.deps.Nav.Go(nav.Review)
		})
	}()
}

func (s *CameraScreen) Session() *camera.Session {
	return s.session
}

func (s *CameraScreen) Preview() *components.ImageView {
	return s.preview
}
