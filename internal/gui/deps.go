package gui

import (
	"context"

	"docdate/internal/logger"
	"docdate/internal/models"
	"docdate/internal/nav"
	"docdate/internal/pipeline"

	"fyne.io/fyne/v2"
)

// Deps is what every screen is built from. Selection replaces a process
// global: it is the one value shared between screens.
type Deps struct {
	Context   context.Context
	Window    fyne.Window
	Nav       *nav.Navigator
	Selection *models.Selection
	Loader    pipeline.ImageLoader
	Watcher   ImageWatcher
	Logger    logger.Logger

	// Post runs fn on the UI goroutine. Defaults to fyne.Do.
	Post func(fn func())
}

// ImageWatcher is satisfied by *watch.Watcher
type ImageWatcher interface {
	Watch(path string, onChange func()) error
	Stop()
}

func (d *Deps) post(fn func()) {
	if d.Post != nil {
		d.Post(fn)
		return
	}
	fyne.Do(fn)
}

func (d *Deps) ctx() context.Context {
	if d.Context != nil {
		return d.Context
	}
	return context.Background()
}
