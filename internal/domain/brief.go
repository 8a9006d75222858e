package domain

import (
	"regexp"
	"strings"
)

// Brief is one campaign's declarative input: market metadata, the message to
// localize, the product list, and the target languages. Constructed once by
// the loader and immutable afterwards.
type Brief struct {
	CampaignName string `yaml:"-"`
	CampaignPath string `yaml:"-"`

	Region   string `yaml:"region"`
	Market   string `yaml:"market"`
	Audience string `yaml:"audience"`
	Message  string `yaml:"message"`

	Products  []string `yaml:"products"`
	Assets    []string `yaml:"assets"`
	Languages []string `yaml:"languages"`
}

// Validate checks the container invariants: at least one product and a
// non-empty language set. The loader applies the English default before
// calling this, so an empty language set here is a real brief defect.
func (b *Brief) Validate() error {
	if len(b.Products) == 0 {
		return &ConfigurationError{Field: "products", Reason: "at least one product is required"}
	}
	if len(b.Languages) == 0 {
		return &ConfigurationError{Field: "languages", Reason: "language set must not be empty"}
	}
	for _, p := range b.Products {
		if strings.TrimSpace(p) == "" {
			return &ConfigurationError{Field: "products", Reason: "product name must not be blank"}
		}
	}
	return nil
}

// ProductAt pairs the i-th product with its asset by array index. Assets
// shorter than products simply yield products without a declared asset.
// Index-based matching is fragile under list reordering; it is kept as-is
// because briefs in the wild rely on it.
func (b *Brief) ProductAt(i int) Product {
	p := Product{Name: b.Products[i]}
	if i < len(b.Assets) {
		p.AssetFile = b.Assets[i]
	}
	return p
}

// Product is one brief entry: a name and an optional pre-existing asset
// reference. Immutable once constructed.
type Product struct {
	Name      string
	AssetFile string
}

// SafeName converts the product name into a filesystem-safe directory name.
func (p Product) SafeName() string {
	return SanitizeName(p.Name)
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeName strips special characters and collapses whitespace into
// underscores, lowercased.
func SanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "_")
	return strings.ToLower(s)
}
