package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"cmaker/internal/compositor"
	"cmaker/internal/domain"
	"cmaker/internal/infra"
	"cmaker/internal/providers/openai"
	"cmaker/internal/providers/prompt"
)

// SceneSynthesizer orchestrates the outpainting edit: the asset is placed on
// a blank square canvas, the protection mask is derived from its alpha at the
// final position, and the external edit call regenerates everything outside
// the mask.
type SceneSynthesizer struct {
	gen    ImageGenerator
	cfg    infra.Config
	logger infra.Logger
}

// NewSceneSynthesizer wires a SceneSynthesizer.
func NewSceneSynthesizer(gen ImageGenerator, cfg infra.Config, logger infra.Logger) *SceneSynthesizer {
	return &SceneSynthesizer{gen: gen, cfg: cfg, logger: logger}
}

// Synthesize produces the square base scene for one product. The edit prompt
// is cut to the service's hard character cap before the call (raw cut, can
// split a word). Any call or decode failure aborts this product only.
func (s *SceneSynthesizer) Synthesize(ctx context.Context, asset *domain.Asset, editPrompt string) (*image.NRGBA, error) {
	placed, inner := compositor.PlaceOnCanvas(asset.Image, s.cfg.CanvasSize, s.cfg.ScaleFactor)
	mask := compositor.Dilate(compositor.BuildMask(placed, s.cfg.AlphaThreshold))
	canvas := compositor.Flatten(placed)

	s.logger.Debug().
		Str("asset", asset.Name).
		Str("inner_box", inner.String()).
		Msg("pipeline: asset positioned on canvas")

	if s.cfg.SaveMask && asset.Path != "" {
		maskPath := strings.TrimSuffix(asset.Path, filepath.Ext(asset.Path)) + "_mask.png"
		if err := imaging.Save(mask, maskPath); err != nil {
			s.logger.Warn().Err(err).Str("path", maskPath).Msg("pipeline: failed to dump mask")
		} else {
			s.logger.Debug().Str("path", maskPath).Msg("pipeline: saved protection mask")
		}
	}

	canvasPNG, err := encodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("pipeline: encode canvas: %w", err)
	}
	maskPNG, err := encodePNG(mask)
	if err != nil {
		return nil, fmt.Errorf("pipeline: encode mask: %w", err)
	}

	data, err := s.gen.EditImage(ctx, openai.EditImageRequest{
		Image:     canvasPNG,
		Mask:      maskPNG,
		Prompt:    prompt.TruncateRaw(editPrompt, s.cfg.HardEditPromptCap),
		Size:      canvasSize(s.cfg.CanvasSize),
		RequestID: uuid.NewString(),
	})
	if err != nil {
		return nil, &domain.GenerationError{Stage: "outpaint", Err: err}
	}

	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.GenerationError{Stage: "scene decode", Err: err}
	}

	scene := imaging.Clone(decoded)
	if scene.Bounds().Dx() != s.cfg.CanvasSize || scene.Bounds().Dy() != s.cfg.CanvasSize {
		scene = imaging.Resize(scene, s.cfg.CanvasSize, s.cfg.CanvasSize, imaging.Lanczos)
	}

	// The service re-encodes the canvas, so the protected region is checked
	// against a tolerance instead of assumed pixel-perfect.
	if delta := compositor.MaxMaskedDelta(canvas, scene, mask); delta > s.cfg.ProtectionTolerance {
		s.logger.Warn().
			Str("asset", asset.Name).
			Int("delta", delta).
			Int("tolerance", s.cfg.ProtectionTolerance).
			Msg("pipeline: protected region drifted beyond tolerance")
	}

	return scene, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
