package gui

import (
	"docdate/internal/models"
	"docdate/internal/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	takePhotoLabel = "Take a Photo"
	galleryLabel   = "Choose from Gallery"
)

type MainScreen struct {
	deps     *Deps
	startDir string
	content  fyne.CanvasObject
	buttons  map[string]*widget.Button
	chooser  *FileChooser
}

func NewMainScreen(deps *Deps, startDir string) *MainScreen {
	s := &MainScreen{
		deps:     deps,
		startDir: startDir,
		buttons:  make(map[string]*widget.Button),
	}

	box := container.NewVBox()
	for _, category := range models.Categories {
		var btn *widget.Button
		btn = widget.NewButton(category, func() { s.showOptions(category, btn) })
		s.buttons[category] = btn
		box.Add(btn)
	}
	s.content = container.NewPadded(box)
	return s
}

func (s *MainScreen) Content() fyne.CanvasObject { return s.content }
func (s *MainScreen) Enter()                     {}
func (s *MainScreen) Leave()                     {}

// showOptions drops the capture-or-gallery menu under the category button.
func (s *MainScreen) showOptions(category string, anchor fyne.CanvasObject) {
	menu := fyne.NewMenu("",
		fyne.NewMenuItem(takePhotoLabel, func() { s.TakePhoto(category) }),
		fyne.NewMenuItem(galleryLabel, func() { s.ChooseFromGallery(category) }),
	)
	widget.ShowPopUpMenuAtRelativePosition(menu, s.deps.Window.Canvas(), fyne.NewPos(0, anchor.Size().Height), anchor)
}

func (s *MainScreen) TakePhoto(category string) {
	s.deps.Selection.SetCategory(category)
	s.deps.Nav.Go(nav.Camera)
}

func (s *MainScreen) ChooseFromGallery(category string) {
	s.deps.Selection.SetCategory(category)
	s.chooser = NewFileChooser(s.startDir, s.selectFile, s.deps.Logger)
	s.chooser.Show(s.deps.Window)
}

// selectFile takes the first highlighted path. With nothing highlighted
// the chooser stays open and the selection is untouched.
func (s *MainScreen) selectFile(c *FileChooser, dir string, selection []string) {
	if len(selection) == 0 {
		return
	}

	s.deps.Selection.SetChosen(selection[0])
	s.deps.Logger.Info("MainScreen", "image chosen from gallery", s.deps.Selection.Snapshot().Fields())

	c.Dismiss()
	s.deps.Nav.Go(nav.Review)
}

func (s *MainScreen) Button(category string) *widget.Button {
	return s.buttons[category]
}

func (s *MainScreen) Chooser() *FileChooser {
	return s.chooser
}
