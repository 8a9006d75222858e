package compositor

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePadsWithTransparentPixels(t *testing.T) {
	// Wide source: fits to 64x32 inside a 64x64 square, leaving transparent
	// bands top and bottom.
	src := image.NewNRGBA(image.Rect(0, 0, 128, 64))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+0] = 90
		src.Pix[i+3] = 255
	}

	out := Normalize(src, 64)
	require.Equal(t, image.Rect(0, 0, 64, 64), out.Bounds())

	assert.EqualValues(t, 0, out.Pix[3], "top-left padding must be transparent")
	assert.EqualValues(t, 255, out.Pix[32*out.Stride+32*4+3], "center must keep the asset alpha")
}

func TestPlaceOnCanvasCentersScaledAsset(t *testing.T) {
	asset := circleAsset(100, 50)

	placed, inner := PlaceOnCanvas(asset, 200, 0.5)
	require.Equal(t, image.Rect(0, 0, 200, 200), placed.Bounds())
	require.Equal(t, image.Rect(75, 75, 125, 125), inner)

	// Outside the inner box the canvas stays transparent.
	assert.EqualValues(t, 0, placed.Pix[3])
	// The scaled circle center lands at the canvas center, opaque.
	assert.EqualValues(t, 255, placed.Pix[100*placed.Stride+100*4+3])
}

func TestFlattenProducesOpaqueCanvas(t *testing.T) {
	placed, _ := PlaceOnCanvas(circleAsset(64, 20), 128, 0.5)
	flat := Flatten(placed)

	for i := 3; i < len(flat.Pix); i += 4 {
		if flat.Pix[i] != 255 {
			t.Fatalf("flattened canvas has transparent pixel at offset %d", i)
		}
	}
	// Background pixels became white.
	assert.EqualValues(t, 255, flat.Pix[0])
}

func TestIsOpaque(t *testing.T) {
	opaque := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 255
	}
	assert.True(t, IsOpaque(opaque))

	withAlpha := circleAsset(8, 2)
	assert.False(t, IsOpaque(withAlpha))
}
