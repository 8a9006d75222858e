package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cmaker/internal/infra"
	"cmaker/internal/providers/openai"
)

// Translator localizes the campaign message. Failures never block
// localization: the original message is used as-is.
type Translator struct {
	completer TextCompleter
	logger    infra.Logger
}

// NewTranslator wires a Translator.
func NewTranslator(completer TextCompleter, logger infra.Logger) *Translator {
	return &Translator{completer: completer, logger: logger}
}

// Translate renders message in the target language. English and empty
// messages pass through untouched.
func (t *Translator) Translate(ctx context.Context, message, targetLanguage string) string {
	if strings.TrimSpace(message) == "" || strings.EqualFold(targetLanguage, "english") {
		return message
	}

	request := fmt.Sprintf(`Translate the following marketing message to %s.
Keep the tone professional and marketing-appropriate.
Preserve the emotional impact and brand voice.
Return ONLY the translated text, no additional commentary.

Message to translate: "%s"

Translation:`, targetLanguage, message)

	translated, err := t.completer.Complete(ctx, openai.CompleteRequest{
		Prompt:    request,
		RequestID: uuid.NewString(),
	})
	if err != nil {
		t.logger.Warn().Err(err).Str("language", targetLanguage).Msg("prompt: translation failed, keeping original message")
		return message
	}

	translated = strings.Trim(translated, `"'`)
	t.logger.Info().Str("language", targetLanguage).Str("message", translated).Msg("prompt: translated campaign message")
	return translated
}
