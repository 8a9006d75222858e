package briefio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"cmaker/internal/infra"
)

func writeCampaign(t *testing.T, root, name, brief string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brief.yaml"), []byte(brief), 0o644))
	return dir
}

const validBrief = `region: EU
market: Germany
audience: Outdoor enthusiasts
message: Stay hydrated on every trail
products:
  - Water Bottle
assets:
  - bottle.png
languages:
  - English
  - German
`

func TestLoadBriefs(t *testing.T) {
	root := t.TempDir()
	cfg := infra.Config{CampaignsDir: root, BriefFile: "brief.yaml"}
	logger := zerolog.Nop()

	writeCampaign(t, root, "summer-launch", validBrief)

	// Already finished: skipped.
	doneDir := writeCampaign(t, root, "finished", validBrief)
	require.NoError(t, os.WriteFile(filepath.Join(doneDir, "meta.yaml"), []byte("status: done\n"), 0o644))

	// Broken YAML: skipped.
	writeCampaign(t, root, "broken", "products: [unclosed")

	// No products: skipped.
	writeCampaign(t, root, "empty", "message: hello\n")

	// Stray file in the campaigns dir: ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.txt"), []byte("notes"), 0o644))

	briefs, err := LoadBriefs(cfg, logger)
	require.NoError(t, err)
	require.Len(t, briefs, 1)

	b := briefs[0]
	require.Equal(t, "summer-launch", b.CampaignName)
	require.Equal(t, filepath.Join(root, "summer-launch"), b.CampaignPath)
	require.Equal(t, []string{"Water Bottle"}, b.Products)
	require.Equal(t, []string{"English", "German"}, b.Languages)
}

func TestLoadBriefsDefaultsLanguages(t *testing.T) {
	root := t.TempDir()
	cfg := infra.Config{CampaignsDir: root, BriefFile: "brief.yaml"}

	writeCampaign(t, root, "minimal", "products:\n  - Mug\n")

	briefs, err := LoadBriefs(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, briefs, 1)
	require.Equal(t, []string{"English"}, briefs[0].Languages)
}

func TestLoadBriefsMissingDir(t *testing.T) {
	cfg := infra.Config{CampaignsDir: filepath.Join(t.TempDir(), "nope"), BriefFile: "brief.yaml"}

	_, err := LoadBriefs(cfg, zerolog.Nop())
	require.Error(t, err)
}
