package compositor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Ratio names one of the supported output aspect ratios.
type Ratio string

const (
	Ratio1x1  Ratio = "1x1"
	Ratio16x9 Ratio = "16x9"
	Ratio9x16 Ratio = "9x16"
)

// AllRatios lists the ratios every product is rendered in.
var AllRatios = []Ratio{Ratio1x1, Ratio16x9, Ratio9x16}

// Dimensions returns the canonical output resolution for the ratio.
func (r Ratio) Dimensions() (int, int) {
	switch r {
	case Ratio1x1:
		return 1024, 1024
	case Ratio16x9:
		return 1536, 864
	case Ratio9x16:
		return 864, 1536
	}
	return 0, 0
}

// CropToRatio derives one aspect-ratio variant from a square scene. Policy:
// upscale-then-crop. The scene is first resized to a square whose side is the
// variant's longest edge, then center-cropped to the target dimensions. The
// two orderings are not visually equivalent; this one matches the generation
// canvas workflow and is applied uniformly.
//
// The result is always a freshly allocated buffer, never a view into the
// scene, so variants stay mutually independent.
func CropToRatio(scene image.Image, r Ratio) (*image.NRGBA, error) {
	w, h := r.Dimensions()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("unsupported ratio: %s", r)
	}
	side := w
	if h > side {
		side = h
	}
	var square *image.NRGBA
	if b := scene.Bounds(); b.Dx() == side && b.Dy() == side {
		// Same-size passthrough keeps the 1:1 variant byte-identical to the
		// scene instead of running it through the resampler.
		square = imaging.Clone(scene)
	} else {
		square = imaging.Resize(scene, side, side, imaging.Lanczos)
	}
	return imaging.CropCenter(square, w, h), nil
}
