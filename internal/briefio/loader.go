package briefio

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cmaker/internal/domain"
	"cmaker/internal/infra"
)

// LoadBriefs scans the campaigns directory for subdirectories holding a brief
// file and returns one Brief per campaign that still needs work. Campaigns
// already marked done and campaigns with unreadable or invalid briefs are
// logged and skipped; a bad campaign never blocks its siblings.
func LoadBriefs(cfg infra.Config, logger infra.Logger) ([]domain.Brief, error) {
	entries, err := os.ReadDir(cfg.CampaignsDir)
	if err != nil {
		return nil, fmt.Errorf("briefio: read campaigns dir: %w", err)
	}

	var briefs []domain.Brief
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		campaignPath := filepath.Join(cfg.CampaignsDir, entry.Name())
		briefPath := filepath.Join(campaignPath, cfg.BriefFile)
		if _, err := os.Stat(briefPath); err != nil {
			continue
		}

		status, err := LoadStatus(campaignPath)
		if err != nil {
			logger.Warn().Err(err).Str("campaign", entry.Name()).Msg("briefio: unreadable status, skipping campaign")
			continue
		}
		if status.Done() {
			logger.Info().Str("campaign", entry.Name()).Msg("briefio: campaign already done, skipping")
			continue
		}

		brief, err := parseBrief(briefPath)
		if err != nil {
			logger.Warn().Err(err).Str("campaign", entry.Name()).Msg("briefio: invalid brief, skipping campaign")
			continue
		}
		brief.CampaignName = entry.Name()
		brief.CampaignPath = campaignPath
		briefs = append(briefs, brief)
	}

	logger.Info().Int("campaigns", len(briefs)).Msg("briefio: briefs loaded")
	return briefs, nil
}

func parseBrief(path string) (domain.Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Brief{}, fmt.Errorf("briefio: read brief: %w", err)
	}

	var brief domain.Brief
	if err := yaml.Unmarshal(data, &brief); err != nil {
		return domain.Brief{}, fmt.Errorf("briefio: parse brief: %w", err)
	}

	// English output is always produced, even for briefs that name none.
	if len(brief.Languages) == 0 {
		brief.Languages = []string{"English"}
	}

	if err := brief.Validate(); err != nil {
		return domain.Brief{}, err
	}
	return brief, nil
}
