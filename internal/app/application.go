package app

import (
	"fmt"

	"docdate/internal/config"
	"docdate/internal/gui"
	"docdate/internal/logger"
	"docdate/internal/models"
	"docdate/internal/nav"
	"docdate/internal/ocr"
	"docdate/internal/ocr/engines"
	"docdate/internal/opencv/capture"
	"docdate/internal/pipeline"
	"docdate/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName         = "DocDate"
	AppID           = "com.docdate.scanner"
	AppVersion      = "1.0.0"
	MinWindowWidth  = 480
	MinWindowHeight = 760
)

type Application struct {
	fyneApp   fyne.App
	window    fyne.Window
	config    *config.Config
	logger    logger.Logger
	nav       *nav.Navigator
	screens   *gui.Screens
	lifecycle *Lifecycle
}

func NewApplication(cfg *config.Config, log logger.Logger) (*Application, error) {
	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	window.Resize(fyne.NewSize(MinWindowWidth, MinWindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":      AppVersion,
		"ocr_engine":   cfg.OCREngine,
		"capture_path": cfg.CapturePath,
		"camera_index": cfg.CameraIndex,
	})

	lifecycle := NewLifecycle(log)

	engine, err := engines.NewManager().Open(lifecycle.Context(), cfg)
	if err != nil {
		return nil, err
	}
	scanner := ocr.NewScanner(engine, pipeline.NewLoader(log), log, engines.ScannerOptions(cfg)...)
	lifecycle.Track("scanner", scanner.Close)

	watcher, err := watch.New(watch.DefaultDebounce, log)
	if err != nil {
		lifecycle.Shutdown()
		return nil, fmt.Errorf("starting image watcher: %w", err)
	}
	lifecycle.Register("watcher", watcher)

	navigator := nav.New(window.SetContent, log)

	deps := &gui.Deps{
		Context:   lifecycle.Context(),
		Window:    window,
		Nav:       navigator,
		Selection: models.NewSelection(cfg.CapturePath),
		Loader:    pipeline.NewLoader(log),
		Watcher:   watcher,
		Logger:    log,
	}

	screens := gui.Register(deps, gui.Options{
		OpenCamera:    capture.Opener(cfg.CameraIndex, cfg.CameraFlip, log),
		FrameInterval: cfg.FrameInterval(),
		Scanner:       scanner,
		StartDir:      cfg.StartDir,
	})
	lifecycle.Register("camera", screens.Camera.Session())

	log.Info("Application", "initialization complete", nil)

	return &Application{
		fyneApp:   fyneApp,
		window:    window,
		config:    cfg,
		logger:    log,
		nav:       navigator,
		screens:   screens,
		lifecycle: lifecycle,
	}, nil
}

// Run shows the main screen and blocks in the GUI loop until the window
// closes or a termination signal arrives.
func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.nav.Shutdown()
		a.lifecycle.Shutdown()
		a.window.Close()
	})

	a.lifecycle.Listen(func() {
		fyne.Do(func() {
			a.nav.Shutdown()
			a.fyneApp.Quit()
		})
	})

	if err := a.nav.Show(nav.Main); err != nil {
		return err
	}
	a.window.Show()

	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.lifecycle.Shutdown()
	return nil
}
