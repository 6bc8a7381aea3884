package gui

import (
	"time"

	"docdate/internal/camera"
	"docdate/internal/nav"
)

type Screens struct {
	Main    *MainScreen
	Camera  *CameraScreen
	Review  *ReviewScreen
	Display *DisplayScreen
}

// Options carries the settings screens need beyond Deps
type Options struct {
	OpenCamera    camera.Opener
	FrameInterval time.Duration
	Scanner       DateScanner
	StartDir      string
}

// Register builds the four screens and registers them with deps.Nav.
func Register(deps *Deps, opts Options) *Screens {
	s := &Screens{
		Main:    NewMainScreen(deps, opts.StartDir),
		Camera:  NewCameraScreen(deps, opts.OpenCamera, opts.FrameInterval),
		Review:  NewReviewScreen(deps),
		Display: NewDisplayScreen(deps, opts.Scanner),
	}

	deps.Nav.Register(nav.Main, s.Main)
	deps.Nav.Register(nav.Camera, s.Camera)
	deps.Nav.Register(nav.Review, s.Review)
	deps.Nav.Register(nav.Display, s.Display)

	return s
}
