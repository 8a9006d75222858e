// Package prompt turns campaign briefs into scene descriptions, condensed
// edit prompts, asset descriptions, and localized copy. Every operation
// degrades to a deterministic fallback when the text model call fails; prompt
// generation never aborts the pipeline.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cmaker/internal/domain"
	"cmaker/internal/infra"
	"cmaker/internal/providers/openai"
)

// TextCompleter is the slice of the API client the prompt layer consumes.
type TextCompleter interface {
	Complete(ctx context.Context, req openai.CompleteRequest) (string, error)
}

const fallbackScenePrompt = "A professional product photography scene, clean studio lighting, high quality, commercial photography style"

const assetPromptSuffix = ", transparent background, PNG format with alpha channel, isolated object only, no background, no shadows, no reflections, clean transparent cutout, professional product photography, high detail, studio lighting"

// SceneWriter produces the prompts fed into the image endpoints.
type SceneWriter struct {
	completer      TextCompleter
	maxSceneLength int
	maxEditLength  int
	logger         infra.Logger
}

// NewSceneWriter wires a SceneWriter from the run configuration.
func NewSceneWriter(completer TextCompleter, cfg infra.Config, logger infra.Logger) *SceneWriter {
	return &SceneWriter{
		completer:      completer,
		maxSceneLength: cfg.MaxScenePromptLength,
		maxEditLength:  cfg.MaxEditPromptLength,
		logger:         logger,
	}
}

// ScenePrompt asks the text model for a detailed product-photography scene
// description derived from the brief. On failure it falls back to a neutral
// studio prompt so the product still renders.
func (w *SceneWriter) ScenePrompt(ctx context.Context, brief domain.Brief, product domain.Product) string {
	request := fmt.Sprintf(`Create a professional product photography scene prompt for this campaign, not more than %d characters:

Campaign Brief:
- Region: %s
- Market: %s
- Audience: %s
- Message: %s
- Product: %s

Requirements:
- Focus on the main product as hero element
- Reflect target audience lifestyle
- Include brand message and values
- Consider regional/market context
- Use professional photography terms
- Optimize for AI image generation
- No text or typography
- Commercial quality scene

Return a detailed scene description with lighting, composition, setting, mood, and visual style.
Return ONLY the prompt, no additional text.

Use the provided asset exactly as-is, unchanged, pixel-perfect.
Do not move, open, modify, or alter the product in any way.
Only extend or generate the background scene around it.
No text, no logos, no subtitles, no labels.`,
		w.maxSceneLength,
		orUnspecified(brief.Region),
		orUnspecified(brief.Market),
		orUnspecified(brief.Audience),
		orUnspecified(brief.Message),
		orUnspecified(product.Name),
	)

	text, err := w.completer.Complete(ctx, openai.CompleteRequest{
		Prompt:      request,
		Temperature: 0.7,
		RequestID:   uuid.NewString(),
	})
	if err != nil {
		w.logger.Warn().Err(err).Str("product", product.Name).Msg("prompt: scene prompt generation failed, using fallback")
		return fallbackScenePrompt
	}
	return text
}

// EditPrompt condenses a detailed scene description to fit the edit
// endpoint's budget. When the model call fails, the scene prompt is cut at a
// raw character count, which can land mid-word; the hosted service enforces
// the same style of hard limit, so the behavior is kept rather than fixed.
func (w *SceneWriter) EditPrompt(ctx context.Context, scenePrompt string) string {
	request := fmt.Sprintf(`Convert this detailed scene description into a concise image-generation prompt (max %d characters):

%s

Requirements:
- Keep only essential visual elements
- Focus on composition, lighting, and key objects
- Remove technical photography details
- Remove post-production notes
- Keep it under %d characters
- Make it optimized for AI image generation

Return ONLY the concise prompt, no additional text.`, w.maxEditLength, scenePrompt, w.maxEditLength)

	text, err := w.completer.Complete(ctx, openai.CompleteRequest{
		Prompt:    request,
		RequestID: uuid.NewString(),
	})
	if err != nil {
		w.logger.Warn().Err(err).Msg("prompt: edit prompt condensing failed, truncating scene prompt")
		if len([]rune(scenePrompt)) > w.maxEditLength {
			return TruncateRaw(scenePrompt, w.maxEditLength) + "..."
		}
		return scenePrompt
	}
	return text
}

// AssetDescription extracts the main object from a scene prompt and extends
// it with the transparency requirements of the asset-generation call. The
// fallback is the title-cased product name.
func (w *SceneWriter) AssetDescription(ctx context.Context, product domain.Product, scenePrompt string) string {
	request := fmt.Sprintf(`Analyze this scene description and extract the main object/asset that should be the focal point:

"%s"

Return ONLY a concise description of the main object/asset that should be isolated and used as a product shot.
Focus on the primary subject, not the background or environment.
Examples: "a porcelain tea service", "a luxury watch", "a modern chair", "a vintage camera".

Response:`, scenePrompt)

	description, err := w.completer.Complete(ctx, openai.CompleteRequest{
		Prompt:    request,
		RequestID: uuid.NewString(),
	})
	if err != nil {
		w.logger.Warn().Err(err).Str("product", product.Name).Msg("prompt: asset extraction failed, using product name")
		description = cases.Title(language.English).String(product.Name)
	}
	return description + assetPromptSuffix
}

// TruncateRaw cuts s to at most n characters (runes), with no regard for word
// boundaries. Documented behavior: a cut can split a word.
func TruncateRaw(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
