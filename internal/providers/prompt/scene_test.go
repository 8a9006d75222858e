package prompt

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmaker/internal/domain"
	"cmaker/internal/infra"
	"cmaker/internal/providers/openai"
)

type fakeCompleter struct {
	response string
	err      error
	lastReq  openai.CompleteRequest
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, req openai.CompleteRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func testConfig() infra.Config {
	return infra.Config{
		MaxScenePromptLength: 80000,
		MaxEditPromptLength:  20,
	}
}

func discardLogger() infra.Logger {
	return zerolog.New(io.Discard)
}

func TestScenePromptEmbedsBriefFields(t *testing.T) {
	completer := &fakeCompleter{response: "a bottle on a mossy rock at dawn"}
	w := NewSceneWriter(completer, testConfig(), discardLogger())

	brief := domain.Brief{Region: "DACH", Market: "outdoor retail", Audience: "hikers", Message: "Taste the wild"}
	out := w.ScenePrompt(context.Background(), brief, domain.Product{Name: "Water Bottle"})

	require.Equal(t, "a bottle on a mossy rock at dawn", out)
	assert.Contains(t, completer.lastReq.Prompt, "DACH")
	assert.Contains(t, completer.lastReq.Prompt, "Water Bottle")
	assert.Contains(t, completer.lastReq.Prompt, "Taste the wild")
	assert.NotEmpty(t, completer.lastReq.RequestID)
}

func TestScenePromptFallsBackOnError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("boom")}
	w := NewSceneWriter(completer, testConfig(), discardLogger())

	out := w.ScenePrompt(context.Background(), domain.Brief{}, domain.Product{Name: "Water Bottle"})
	assert.Equal(t, fallbackScenePrompt, out)
}

func TestEditPromptTruncatesOnFallback(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("boom")}
	w := NewSceneWriter(completer, testConfig(), discardLogger())

	long := strings.Repeat("abcde ", 10) // 60 chars, budget 20
	out := w.EditPrompt(context.Background(), long)

	require.Equal(t, "abcde abcde abcde ab...", out, "raw cut can split a word")
}

func TestEditPromptShortFallbackPassesThrough(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("boom")}
	w := NewSceneWriter(completer, testConfig(), discardLogger())

	out := w.EditPrompt(context.Background(), "short prompt")
	assert.Equal(t, "short prompt", out)
}

func TestAssetDescriptionAppendsTransparencySuffix(t *testing.T) {
	completer := &fakeCompleter{response: "a stainless steel water bottle"}
	w := NewSceneWriter(completer, testConfig(), discardLogger())

	out := w.AssetDescription(context.Background(), domain.Product{Name: "Water Bottle"}, "scene")
	assert.True(t, strings.HasPrefix(out, "a stainless steel water bottle,"))
	assert.Contains(t, out, "transparent background")
}

func TestAssetDescriptionFallsBackToProductName(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("boom")}
	w := NewSceneWriter(completer, testConfig(), discardLogger())

	out := w.AssetDescription(context.Background(), domain.Product{Name: "water bottle"}, "scene")
	assert.True(t, strings.HasPrefix(out, "Water Bottle,"))
}

func TestTruncateRawHandlesMultibyteRunes(t *testing.T) {
	assert.Equal(t, "héllo", TruncateRaw("héllo wörld", 5))
	assert.Equal(t, "", TruncateRaw("anything", 0))
	assert.Equal(t, "short", TruncateRaw("short", 99))
}

func TestTranslateSkipsEnglishAndEmpty(t *testing.T) {
	completer := &fakeCompleter{response: "should not be used"}
	tr := NewTranslator(completer, discardLogger())

	assert.Equal(t, "Taste the wild", tr.Translate(context.Background(), "Taste the wild", "English"))
	assert.Equal(t, "", tr.Translate(context.Background(), "", "German"))
	assert.Zero(t, completer.calls)
}

func TestTranslateStripsQuotes(t *testing.T) {
	completer := &fakeCompleter{response: `"Schmecke die Wildnis"`}
	tr := NewTranslator(completer, discardLogger())

	out := tr.Translate(context.Background(), "Taste the wild", "German")
	assert.Equal(t, "Schmecke die Wildnis", out)
	assert.Contains(t, completer.lastReq.Prompt, "German")
}

func TestTranslateFallsBackToOriginal(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("boom")}
	tr := NewTranslator(completer, discardLogger())

	out := tr.Translate(context.Background(), "Taste the wild", "German")
	assert.Equal(t, "Taste the wild", out)
}
