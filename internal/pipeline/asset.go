// Package pipeline chains the campaign stages: asset resolution, scene
// synthesis, aspect splitting, and localization. Stages run strictly
// sequentially; each is a pure function of its predecessor's output plus
// brief-derived parameters.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
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

// ImageGenerator is the slice of the API client the pipeline consumes.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req openai.GenerateImageRequest) ([]byte, error)
	EditImage(ctx context.Context, req openai.EditImageRequest) ([]byte, error)
}

// AssetResolver produces a normalized transparent asset for a product,
// loading a declared file when present and synthesizing one otherwise.
type AssetResolver struct {
	gen     ImageGenerator
	prompts *prompt.SceneWriter
	cfg     infra.Config
	logger  infra.Logger
}

// NewAssetResolver wires an AssetResolver.
func NewAssetResolver(gen ImageGenerator, prompts *prompt.SceneWriter, cfg infra.Config, logger infra.Logger) *AssetResolver {
	return &AssetResolver{gen: gen, prompts: prompts, cfg: cfg, logger: logger}
}

// Resolve returns the product's asset. A declared asset file wins; otherwise
// a previously generated asset at the deterministic path is reused, and only
// when neither exists is the generation endpoint called. Idempotency is by
// path existence, not content hash.
func (r *AssetResolver) Resolve(ctx context.Context, brief domain.Brief, product domain.Product) (*domain.Asset, error) {
	assetsDir := filepath.Join(brief.CampaignPath, r.cfg.AssetsDir)

	if product.AssetFile != "" {
		path := filepath.Join(assetsDir, product.AssetFile)
		if _, err := os.Stat(path); err == nil {
			r.logger.Info().Str("product", product.Name).Str("asset", path).Msg("pipeline: using existing asset")
			return r.loadAsset(path)
		}
		r.logger.Warn().Str("product", product.Name).Str("asset", path).Msg("pipeline: declared asset not found, generating one")
	}

	path := filepath.Join(assetsDir, product.SafeName()+".png")
	if _, err := os.Stat(path); err == nil {
		r.logger.Info().Str("product", product.Name).Str("asset", path).Msg("pipeline: reusing previously generated asset")
		return r.loadAsset(path)
	}

	description := r.prompts.AssetDescription(ctx, product, product.Name)
	r.logger.Info().Str("product", product.Name).Msg("pipeline: generating asset")

	data, err := r.gen.GenerateImage(ctx, openai.GenerateImageRequest{
		Prompt:     description,
		Size:       canvasSize(r.cfg.CanvasSize),
		Background: "transparent",
		RequestID:  uuid.NewString(),
	})
	if err != nil {
		return nil, &domain.GenerationError{Stage: "asset generation", Err: err}
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, &domain.GenerationError{Stage: "asset decode", Err: err}
	}

	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: ensure assets dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("pipeline: persist asset: %w", err)
	}
	r.logger.Info().Str("product", product.Name).Str("asset", path).Msg("pipeline: asset generated and saved")

	return r.loadAsset(path)
}

// loadAsset decodes and normalizes an asset file. A source without
// transparency information is tolerated: it is logged and treated as fully
// opaque, which degrades protection to the whole placed region.
func (r *AssetResolver) loadAsset(path string) (*domain.Asset, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &domain.AssetFormatError{Path: path, Reason: fmt.Sprintf("decode: %v", err)}
	}

	opaque := compositor.IsOpaque(img)
	if opaque {
		formatErr := &domain.AssetFormatError{Path: path, Reason: "no transparency information"}
		r.logger.Warn().Err(formatErr).Msg("pipeline: protection degraded to fully-opaque mask")
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &domain.Asset{
		Image:  compositor.Normalize(img, r.cfg.CanvasSize),
		Name:   name,
		Path:   path,
		Opaque: opaque,
	}, nil
}

func canvasSize(size int) string {
	return fmt.Sprintf("%dx%d", size, size)
}
