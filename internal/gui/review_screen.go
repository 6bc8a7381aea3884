package gui

import (
	"docdate/internal/gui/components"
	"docdate/internal/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type ReviewScreen struct {
	deps     *Deps
	view     *components.ImageView
	follower *imageFollower
	content  fyne.CanvasObject

	YesButton *widget.Button
	NoButton  *widget.Button
}

func NewReviewScreen(deps *Deps) *ReviewScreen {
	s := &ReviewScreen{
		deps: deps,
		view: components.NewImageView("No image"),
	}
	s.follower = newImageFollower(deps, s.view, "ReviewScreen")

	question := widget.NewLabel("Is this photo okay?")
	question.Alignment = fyne.TextAlignCenter

	s.YesButton = widget.NewButton("Yes", func() { deps.Nav.Go(nav.Display) })
	s.NoButton = widget.NewButton("No", func() { deps.Nav.Go(nav.Camera) })

	s.content = container.NewBorder(
		nil,
		container.NewVBox(question, container.NewGridWithColumns(2, s.YesButton, s.NoButton)),
		nil, nil,
		s.view.GetContainer(),
	)
	return s
}

func (s *ReviewScreen) Content() fyne.CanvasObject { return s.content }

// Enter reloads from disk so a fresh capture is never shown stale.
func (s *ReviewScreen) Enter() { s.follower.start() }
func (s *ReviewScreen) Leave() { s.follower.stop() }

func (s *ReviewScreen) View() *components.ImageView {
	return s.view
}
