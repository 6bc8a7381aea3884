package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionDefaultsToCapturePath(t *testing.T) {
	sel := NewSelection("photo.png")

	assert.False(t, sel.IsSet())
	assert.Equal(t, "photo.png", sel.Current())
	assert.Equal(t, SourceNone, sel.Source())
}

func TestSelectionLastWriterWins(t *testing.T) {
	sel := NewSelection("photo.png")

	sel.SetChosen("/docs/license.jpg")
	assert.Equal(t, "/docs/license.jpg", sel.Current())
	assert.Equal(t, SourceGallery, sel.Source())

	sel.SetCaptured()
	assert.Equal(t, "photo.png", sel.Current())
	assert.Equal(t, SourceCamera, sel.Source())
	assert.True(t, sel.IsSet())
}

func TestSelectionSnapshot(t *testing.T) {
	sel := NewSelection("photo.png")
	sel.SetCategory("Driver License")
	sel.SetChosen("/tmp/a.png")

	snap := sel.Snapshot()
	assert.Equal(t, "/tmp/a.png", snap.Path)
	assert.Equal(t, "Driver License", snap.Category)
	assert.False(t, snap.UpdatedAt.IsZero())
	assert.Equal(t, "gallery", snap.Fields()["source"])
}
