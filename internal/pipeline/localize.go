package pipeline

import (
	"context"
	"image"

	"cmaker/internal/compositor"
	"cmaker/internal/infra"
	"cmaker/internal/langcode"
	"cmaker/internal/providers/prompt"
)

// Localizer produces the per-language output set: the campaign message is
// translated once per language and drawn onto a duplicate of every ratio
// variant. Source variants are never mutated, so they stay reusable across
// languages.
type Localizer struct {
	translator *prompt.Translator
	text       *compositor.TextRenderer
	logger     infra.Logger
}

// NewLocalizer wires a Localizer.
func NewLocalizer(translator *prompt.Translator, text *compositor.TextRenderer, logger infra.Logger) *Localizer {
	return &Localizer{translator: translator, text: text, logger: logger}
}

// Render returns the language code and one overlaid image per ratio. An empty
// message yields untouched copies, so the language set is still emitted.
func (l *Localizer) Render(ctx context.Context, variants map[compositor.Ratio]*image.NRGBA, language, message string) (string, map[compositor.Ratio]*image.NRGBA) {
	code := langcode.Code(language)
	translated := l.translator.Translate(ctx, message, language)

	out := make(map[compositor.Ratio]*image.NRGBA, len(variants))
	for ratio, variant := range variants {
		out[ratio] = l.text.Render(variant, translated)
	}

	l.logger.Info().
		Str("language", language).
		Str("code", code).
		Int("ratios", len(out)).
		Msg("pipeline: rendered localized set")

	return code, out
}
