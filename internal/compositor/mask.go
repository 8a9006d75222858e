package compositor

import (
	"image"
)

// BuildMask derives the protection mask from the asset's alpha channel. The
// mask is a full RGBA image aligned pixel-for-pixel with the input: where the
// source alpha exceeds threshold the mask pixel is fully opaque white (edit
// forbidden), everywhere else it is fully transparent (edit allowed).
//
// Note the polarity: opaque means protected. The edit endpoint regenerates
// only the transparent mask region, which is the inverse of the visually
// intuitive reading.
func BuildMask(src *image.NRGBA, threshold uint8) *image.NRGBA {
	b := src.Bounds()
	mask := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		dstRow := mask.Pix[y*mask.Stride : y*mask.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			if srcRow[x*4+3] > threshold {
				dstRow[x*4+0] = 255
				dstRow[x*4+1] = 255
				dstRow[x*4+2] = 255
				dstRow[x*4+3] = 255
			}
		}
	}
	return mask
}

// Dilate grows the protected region by one pixel in every direction (3×3 max
// filter on the mask alpha) so antialiased asset borders stay protected.
func Dilate(mask *image.NRGBA) *image.NRGBA {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if maskNeighborhoodProtected(mask, x, y, w, h) {
				i := y*out.Stride + x*4
				out.Pix[i+0] = 255
				out.Pix[i+1] = 255
				out.Pix[i+2] = 255
				out.Pix[i+3] = 255
			}
		}
	}
	return out
}

func maskNeighborhoodProtected(mask *image.NRGBA, x, y, w, h int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if mask.Pix[ny*mask.Stride+nx*4+3] == 255 {
				return true
			}
		}
	}
	return false
}

// MaxMaskedDelta returns the largest per-channel difference between a and b
// over the protected (opaque) region of the mask. The synthesizer uses it to
// verify the edit call actually left the asset pixels alone, within the
// re-encoding tolerance.
func MaxMaskedDelta(a, b, mask *image.NRGBA) int {
	bounds := mask.Bounds()
	maxDelta := 0
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			mi := y*mask.Stride + x*4
			if mask.Pix[mi+3] != 255 {
				continue
			}
			ai := y*a.Stride + x*4
			bi := y*b.Stride + x*4
			for c := 0; c < 3; c++ {
				d := int(a.Pix[ai+c]) - int(b.Pix[bi+c])
				if d < 0 {
					d = -d
				}
				if d > maxDelta {
					maxDelta = d
				}
			}
		}
	}
	return maxDelta
}
