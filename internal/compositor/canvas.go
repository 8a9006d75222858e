// Package compositor implements the deterministic local image operations of
// the pipeline: scale-to-canvas, alpha-aware paste, protection-mask synthesis,
// aspect-ratio cropping, and text overlay with auto-fit. It performs no
// external calls.
package compositor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Normalize scales src to fit inside a size×size square, preserving aspect
// ratio, and pads the remainder with fully transparent pixels. The source
// alpha survives the paste untouched so the protection mask can still be
// derived from it.
func Normalize(src image.Image, size int) *image.NRGBA {
	fitted := imaging.Fit(src, size, size, imaging.Lanczos)
	canvas := imaging.New(size, size, color.NRGBA{})
	return imaging.PasteCenter(canvas, fitted)
}

// PlaceOnCanvas scales the asset by scale and centers it on a transparent
// size×size canvas. It returns the placed canvas and the inner rectangle the
// asset occupies. The canvas keeps the asset's alpha so BuildMask sees the
// asset pixels at their final position.
func PlaceOnCanvas(asset image.Image, size int, scale float64) (*image.NRGBA, image.Rectangle) {
	b := asset.Bounds()
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	scaled := imaging.Resize(asset, w, h, imaging.Lanczos)

	x := (size - w) / 2
	y := (size - h) / 2
	inner := image.Rect(x, y, x+w, y+h)

	canvas := imaging.New(size, size, color.NRGBA{})
	return imaging.Paste(canvas, scaled, image.Pt(x, y)), inner
}

// Flatten composites placed onto an opaque white backdrop of the same size,
// producing the canvas sent to the edit call.
func Flatten(placed *image.NRGBA) *image.NRGBA {
	backdrop := imaging.New(placed.Bounds().Dx(), placed.Bounds().Dy(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return imaging.Overlay(backdrop, placed, image.Pt(0, 0), 1.0)
}

// IsOpaque reports whether the image carries no usable transparency: every
// pixel fully opaque. Assets like JPEG photos land here and get degraded
// protection (the whole placed region is treated as the asset).
func IsOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
