// Package langcode maps brief language names to short ISO codes used in the
// results directory layout.
package langcode

import (
	"strings"

	"golang.org/x/text/language"
)

var byName = map[string]string{
	"english":    "en",
	"german":     "de",
	"french":     "fr",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"russian":    "ru",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
}

// Code resolves a language name like "German" to "de". Unknown names fall
// back to the lowercased first two letters, normalized through the BCP 47
// parser when they form a valid base tag.
func Code(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if code, ok := byName[lower]; ok {
		return code
	}
	if lower == "" {
		return "en"
	}
	code := lower
	if len(code) > 2 {
		code = code[:2]
	}
	if tag, err := language.Parse(code); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	return code
}
