package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"cmaker/internal/briefio"
	"cmaker/internal/infra"
	"cmaker/internal/pipeline"
	"cmaker/internal/providers/openai"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger("development")
		bootLogger.Fatal().Err(err).Msg("main: invalid configuration")
	}

	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := openai.NewClient(openai.Options{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		ImageModel: cfg.ImageModel,
		TextModel:  cfg.TextModel,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("main: api client init failed")
	}

	runner := pipeline.NewRunner(cfg, logger, client, client)

	briefs, err := briefio.LoadBriefs(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("main: loading briefs failed")
	}
	if len(briefs) == 0 {
		logger.Info().Str("dir", cfg.CampaignsDir).Msg("main: nothing to do")
		return
	}

	// Campaigns run sequentially; a failed campaign is recorded in its own
	// status sidecar and never blocks the next one.
	for _, brief := range briefs {
		if ctx.Err() != nil {
			logger.Warn().Msg("main: interrupted, stopping after current campaign")
			break
		}
		if err := runner.ProcessCampaign(ctx, brief); err != nil {
			logger.Error().Err(err).Str("campaign", brief.CampaignName).Msg("main: campaign aborted")
		}
	}

	logger.Info().Msg("main: all campaigns processed")
}
