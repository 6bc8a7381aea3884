package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 480
	ImageAreaHeight = 360
)

// ImageView shows one image scaled to fit, or a message when there is none
type ImageView struct {
	container   *fyne.Container
	image       *canvas.Image
	placeholder *widget.Label
}

func NewImageView(placeholder string) *ImageView {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

	label := widget.NewLabel(placeholder)
	label.Alignment = fyne.TextAlignCenter

	return &ImageView{
		container:   container.NewStack(container.NewCenter(label), img),
		image:       img,
		placeholder: label,
	}
}

func (v *ImageView) GetContainer() fyne.CanvasObject {
	return v.container
}

func (v *ImageView) SetImage(img image.Image) {
	v.image.Image = img
	v.image.Refresh()
	if img == nil {
		v.placeholder.Show()
	} else {
		v.placeholder.Hide()
	}
}

// Clear removes the image and shows message instead
func (v *ImageView) Clear(message string) {
	v.placeholder.SetText(message)
	v.SetImage(nil)
}

func (v *ImageView) Image() image.Image {
	return v.image.Image
}

func (v *ImageView) Placeholder() string {
	return v.placeholder.Text
}
