package gui

import (
	"docdate/internal/gui/components"
)

// imageFollower keeps an ImageView in step with the selected image: it
// loads fresh on enter and reloads when the file changes while shown.
type imageFollower struct {
	deps      *Deps
	view      *components.ImageView
	component string
	path      string
}

func newImageFollower(deps *Deps, view *components.ImageView, component string) *imageFollower {
	return &imageFollower{deps: deps, view: view, component: component}
}

func (f *imageFollower) start() {
	f.path = f.deps.Selection.Current()
	f.reload()

	if f.deps.Watcher == nil {
		return
	}
	path := f.path
	err := f.deps.Watcher.Watch(path, func() {
		f.deps.post(func() {
			if f.path == path {
				f.deps.Logger.Debug(f.component, "image changed on disk", map[string]interface{}{
					"path": path,
				})
				f.reload()
			}
		})
	})
	if err != nil {
		f.deps.Logger.Warning(f.component, "cannot watch image", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func (f *imageFollower) stop() {
	f.path = ""
	if f.deps.Watcher != nil {
		f.deps.Watcher.Stop()
	}
}

func (f *imageFollower) reload() {
	data, err := f.deps.Loader.Load(f.path)
	if err != nil {
		f.deps.Logger.Error(f.component, err, map[string]interface{}{
			"path":  f.path,
			"stage": "load",
		})
		f.view.Clear("Could not load image")
		return
	}
	f.view.SetImage(data.Image)
}
