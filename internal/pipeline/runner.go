package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"cmaker/internal/briefio"
	"cmaker/internal/compositor"
	"cmaker/internal/domain"
	"cmaker/internal/infra"
	"cmaker/internal/providers/prompt"
	"cmaker/internal/storage"
)

// Runner drives one campaign end to end: per product it resolves the asset,
// synthesizes the scene, splits it into ratio variants, and renders every
// language set. Products are isolated from each other; one failing product
// marks itself failed and the run moves on.
type Runner struct {
	cfg    infra.Config
	logger infra.Logger

	resolver    *AssetResolver
	synthesizer *SceneSynthesizer
	prompts     *prompt.SceneWriter
	localizer   *Localizer
}

// NewRunner wires the full pipeline from the run configuration and the two
// external capabilities. A failed font load is logged and degrades to the
// built-in face; it never prevents the run.
func NewRunner(cfg infra.Config, logger infra.Logger, gen ImageGenerator, completer prompt.TextCompleter) *Runner {
	prompts := prompt.NewSceneWriter(completer, cfg, logger)

	text, err := compositor.NewTextRenderer(compositor.TextStyle{
		MaxFontSize:   cfg.MaxFontSize,
		MinFontSize:   cfg.MinFontSize,
		FontSizeStep:  cfg.FontSizeStep,
		MarginPercent: cfg.MarginPercent,
		Opacity:       cfg.TextOpacity,
	}, cfg.FontPaths)
	if errors.Is(err, domain.ErrFontUnavailable) {
		logger.Warn().Msg("pipeline: no configured font loaded, using built-in face")
	}

	return &Runner{
		cfg:         cfg,
		logger:      logger,
		resolver:    NewAssetResolver(gen, prompts, cfg, logger),
		synthesizer: NewSceneSynthesizer(gen, cfg, logger),
		prompts:     prompts,
		localizer:   NewLocalizer(prompt.NewTranslator(completer, logger), text, logger),
	}
}

// ProcessCampaign runs every pending product of one campaign and persists
// progress to the campaign's status sidecar after each transition, so an
// interrupted run resumes where it stopped.
func (r *Runner) ProcessCampaign(ctx context.Context, brief domain.Brief) error {
	status, err := briefio.LoadStatus(brief.CampaignPath)
	if err != nil {
		return err
	}

	store, err := storage.NewFileStore(filepath.Join(brief.CampaignPath, r.cfg.ResultsDir))
	if err != nil {
		return err
	}

	status.Status = briefio.StateInProgress
	if err := status.Save(); err != nil {
		return err
	}

	r.logger.Info().
		Str("campaign", brief.CampaignName).
		Int("products", len(brief.Products)).
		Int("languages", len(brief.Languages)).
		Msg("pipeline: campaign started")

	for i := range brief.Products {
		if err := ctx.Err(); err != nil {
			return err
		}

		product := brief.ProductAt(i)
		if !status.ShouldRun(product.Name) {
			r.logger.Info().Str("product", product.Name).Msg("pipeline: product already done, skipping")
			continue
		}

		status.SetProduct(product.Name, briefio.StateInProgress)
		if err := status.Save(); err != nil {
			return err
		}

		if err := r.processProduct(ctx, store, brief, product); err != nil {
			r.logger.Error().Err(err).Str("product", product.Name).Msg("pipeline: product failed")
			status.SetProduct(product.Name, briefio.StateFailed)
		} else {
			status.SetProduct(product.Name, briefio.StateDone)
		}
		if err := status.Save(); err != nil {
			return err
		}
	}

	status.Finalize()
	if err := status.Save(); err != nil {
		return err
	}

	r.logger.Info().
		Str("campaign", brief.CampaignName).
		Str("status", string(status.Status)).
		Msg("pipeline: campaign finished")
	return nil
}

// processProduct runs the four stages for one product. Failures up to and
// including the base-image writes fail the product; a localized write failure
// is logged per ratio and language and the rest of the set still renders.
func (r *Runner) processProduct(ctx context.Context, store *storage.FileStore, brief domain.Brief, product domain.Product) error {
	asset, err := r.resolver.Resolve(ctx, brief, product)
	if err != nil {
		return err
	}

	scenePrompt := r.prompts.ScenePrompt(ctx, brief, product)
	editPrompt := r.prompts.EditPrompt(ctx, scenePrompt)

	scene, err := r.synthesizer.Synthesize(ctx, asset, editPrompt)
	if err != nil {
		return err
	}

	variants, err := SplitScene(scene, compositor.AllRatios)
	if err != nil {
		return err
	}

	safeName := product.SafeName()
	for _, ratio := range compositor.AllRatios {
		key := storage.BaseImageKey(safeName, string(ratio), asset.Name)
		if _, err := store.WriteImage(ctx, key, variants[ratio]); err != nil {
			return fmt.Errorf("pipeline: write base image %s: %w", key, err)
		}
	}
	r.logger.Info().Str("product", product.Name).Int("ratios", len(variants)).Msg("pipeline: base images written")

	for _, lang := range brief.Languages {
		code, localized := r.localizer.Render(ctx, variants, lang, brief.Message)
		for _, ratio := range compositor.AllRatios {
			key := storage.LocalizedImageKey(safeName, code, string(ratio), asset.Name)
			if _, err := store.WriteImage(ctx, key, localized[ratio]); err != nil {
				r.logger.Error().Err(err).
					Str("language", lang).
					Str("ratio", string(ratio)).
					Msg("pipeline: failed to write localized image")
			}
		}
	}

	return nil
}
