package domain

import "testing"

func TestValidateRejectsEmptyProducts(t *testing.T) {
	b := &Brief{Languages: []string{"English"}}
	if err := b.Validate(); err == nil {
		t.Fatalf("expected error for empty products")
	}
}

func TestValidateRejectsEmptyLanguages(t *testing.T) {
	b := &Brief{Products: []string{"Water Bottle"}}
	if err := b.Validate(); err == nil {
		t.Fatalf("expected error for empty languages")
	}
}

func TestProductAtMatchesAssetByIndex(t *testing.T) {
	b := &Brief{
		Products:  []string{"Water Bottle", "Tea Set"},
		Assets:    []string{"bottle.png"},
		Languages: []string{"English"},
	}

	first := b.ProductAt(0)
	if first.AssetFile != "bottle.png" {
		t.Fatalf("AssetFile = %q, want bottle.png", first.AssetFile)
	}
	second := b.ProductAt(1)
	if second.AssetFile != "" {
		t.Fatalf("AssetFile = %q, want empty", second.AssetFile)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Water Bottle":      "water_bottle",
		"Café! Crème":       "caf_crme",
		"  spaced   out  ":  "spaced_out",
		"Multi-Tool (Pro+)": "multi-tool_pro",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
