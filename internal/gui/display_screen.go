package gui

import (
	"context"

	"docdate/internal/gui/components"
	"docdate/internal/nav"
	"docdate/internal/ocr"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// DateScanner is satisfied by *ocr.Scanner
type DateScanner interface {
	Scan(ctx context.Context, path string) (*ocr.ScanResult, error)
}

type DisplayScreen struct {
	deps     *Deps
	scanner  DateScanner
	view     *components.ImageView
	follower *imageFollower
	content  fyne.CanvasObject

	ScanButton   *widget.Button
	ManualButton *widget.Button
	BackButton   *widget.Button
	DatesLabel   *widget.Label

	scanning bool
	scanGen  int
	cancel   context.CancelFunc
}

func NewDisplayScreen(deps *Deps, scanner DateScanner) *DisplayScreen {
	s := &DisplayScreen{
		deps:    deps,
		scanner: scanner,
		view:    components.NewImageView("No image"),
	}
	s.follower = newImageFollower(deps, s.view, "DisplayScreen")

	s.ScanButton = widget.NewButton("Scan for dates", s.ScanForDates)
	s.ManualButton = widget.NewButton("Enter Manual", s.EnterManual)
	s.BackButton = widget.NewButton("Back to Main", func() { deps.Nav.Go(nav.Main) })
	s.DatesLabel = widget.NewLabel("")
	s.DatesLabel.Wrapping = fyne.TextWrapWord

	s.content = container.NewBorder(
		nil,
		container.NewVBox(
			s.DatesLabel,
			container.NewGridWithColumns(2, s.ScanButton, s.ManualButton),
			s.BackButton,
		),
		nil, nil,
		s.view.GetContainer(),
	)
	return s
}

func (s *DisplayScreen) Content() fyne.CanvasObject { return s.content }

func (s *DisplayScreen) Enter() {
	s.DatesLabel.SetText("")
	s.follower.start()
}

// Leave abandons a scan still in flight; its result is dropped.
func (s *DisplayScreen) Leave() {
	s.follower.stop()
	s.scanGen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.scanning = false
	s.ScanButton.Enable()
}

// ScanForDates runs recognition on the selected image off the UI
// goroutine. Only one scan runs at a time.
func (s *DisplayScreen) ScanForDates() {
	if s.scanning {
		return
	}
	if s.scanner == nil {
		dialog.ShowError(ocr.ErrNoEngine, s.deps.Window)
		return
	}

	path := s.deps.Selection.Current()
	ctx, cancel := context.WithCancel(s.deps.ctx())
	s.cancel = cancel
	s.scanGen++
	gen := s.scanGen
	s.scanning = true
	s.ScanButton.Disable()
	s.DatesLabel.SetText("Scanning...")

	go func() {
		result, err := s.scanner.Scan(ctx, path)

		s.deps.post(func() {
			cancel()
			if gen != s.scanGen {
				return
			}
			s.cancel = nil
			s.scanning = false
			s.ScanButton.Enable()

			if err != nil {
				s.DatesLabel.SetText("")
				s.deps.Logger.Error("DisplayScreen", err, map[string]interface{}{
					"path":  path,
					"stage": "scan",
				})
				dialog.ShowError(err, s.deps.Window)
				return
			}
			s.DatesLabel.SetText(result.Text())
		})
	}()
}

// EnterManual is a placeholder: manual date entry does nothing yet.
func (s *DisplayScreen) EnterManual() {
	s.deps.Logger.Debug("DisplayScreen", "manual date entry requested", nil)
}

func (s *DisplayScreen) View() *components.ImageView {
	return s.view
}
