package tesseract

import (
	"context"
	"image"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFragmentsNormalisesConfidenceAndSkipsBlanks(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(0, 0, 100, 20), Word: "Valid until 05/10/2023\n", Confidence: 91},
		{Box: image.Rect(0, 20, 100, 40), Word: "   ", Confidence: 10},
		{Box: image.Rect(0, 40, 100, 60), Word: "Policy", Confidence: 50},
	}

	got := toFragments(boxes)
	require.Len(t, got, 2)
	assert.Equal(t, "Valid until 05/10/2023", got[0].Text)
	assert.InDelta(t, 0.91, got[0].Confidence, 1e-9)
	assert.Equal(t, image.Rect(0, 0, 100, 20), got[0].Box)
	assert.Equal(t, "Policy", got[1].Text)
}

func TestCloseIsIdempotent(t *testing.T) {
	engine, err := New([]string{"eng"})
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	require.NoError(t, engine.Close())
	require.NoError(t, engine.Close())

	_, err = engine.Recognize(context.Background(), nil)
	assert.Error(t, err)
}
