package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"cmaker/internal/domain"
)

const backingPadding = 10

// TextStyle bounds the auto-fit loop and the overlay placement.
type TextStyle struct {
	MaxFontSize   int
	MinFontSize   int
	FontSizeStep  int
	MarginPercent float64
	Opacity       uint8
}

// TextRenderer draws a single line of localized copy onto image variants,
// shrinking the font until the text fits the allowed box. Text rendering never
// aborts the pipeline: when no configured font loads, a built-in bitmap face
// takes over.
type TextRenderer struct {
	style TextStyle
	otf   *opentype.Font
}

// NewTextRenderer loads the first usable font from fontPaths. When none can
// be parsed it still returns a working renderer on the built-in face, along
// with domain.ErrFontUnavailable so the caller can log the degradation.
func NewTextRenderer(style TextStyle, fontPaths []string) (*TextRenderer, error) {
	for _, path := range fontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if f, err := opentype.Parse(data); err == nil {
			return &TextRenderer{style: style, otf: f}, nil
		}
		if c, err := opentype.ParseCollection(data); err == nil && c.NumFonts() > 0 {
			if f, err := c.Font(0); err == nil {
				return &TextRenderer{style: style, otf: f}, nil
			}
		}
	}
	return &TextRenderer{style: style}, domain.ErrFontUnavailable
}

// UsingBuiltinFace reports whether the renderer fell back to the bitmap face.
func (r *TextRenderer) UsingBuiltinFace() bool {
	return r.otf == nil
}

// Render draws text onto a duplicate of base, anchored bottom-right inside
// the configured margins, behind a translucent backing rectangle. The source
// image is never mutated. Single-line text only; input with newlines is drawn
// as-is, a known limitation.
func (r *TextRenderer) Render(base image.Image, text string) *image.NRGBA {
	img := imaging.Clone(base)
	if strings.TrimSpace(text) == "" {
		return img
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	mx := int(float64(w) * r.style.MarginPercent)
	my := int(float64(h) * r.style.MarginPercent)

	face, tb := r.fit(text, w-2*mx, h-2*my)
	tw := (tb.Max.X - tb.Min.X).Ceil()
	th := (tb.Max.Y - tb.Min.Y).Ceil()

	x := w - tw - mx
	y := h - th - my

	overlay := image.NewNRGBA(image.Rect(0, 0, w, h))
	backing := image.Rect(x-backingPadding, y-backingPadding, x+tw+backingPadding, y+th+backingPadding)
	draw.Draw(overlay, backing.Intersect(overlay.Bounds()), image.NewUniform(color.NRGBA{A: 100}), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  overlay,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: r.style.Opacity}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - tb.Min.X,
			Y: fixed.I(y) - tb.Min.Y,
		},
	}
	drawer.DrawString(text)

	return imaging.Overlay(img, overlay, image.Pt(0, 0), 1.0)
}

// fit measures text at decreasing font sizes until it fits the allowed box.
// The size is strictly decreasing, so the loop runs at most
// (max-min)/step + 1 times. When even the floor size overflows, the floor
// face is returned anyway: text is drawn oversized rather than dropped.
func (r *TextRenderer) fit(text string, maxW, maxH int) (font.Face, fixed.Rectangle26_6) {
	for size := r.style.MaxFontSize; size >= r.style.MinFontSize; size -= r.style.FontSizeStep {
		face := r.faceFor(size)
		bounds, _ := font.BoundString(face, text)
		tw := (bounds.Max.X - bounds.Min.X).Ceil()
		th := (bounds.Max.Y - bounds.Min.Y).Ceil()
		if tw <= maxW && th <= maxH {
			return face, bounds
		}
	}
	face := r.faceFor(r.style.MinFontSize)
	bounds, _ := font.BoundString(face, text)
	return face, bounds
}

func (r *TextRenderer) faceFor(size int) font.Face {
	if r.otf == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(r.otf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
