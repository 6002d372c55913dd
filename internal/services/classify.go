package services

import (
	"strings"

	"github.com/atelierzuzka/backend/internal/types"
)

type tagTypePair struct {
	tag         string
	productType types.ProductType
}

// visionToProductType is scanned in order against the tag list; the
// first hit wins. Tag order carries the vision confidence ranking, so
// this must stay an ordered sequence, not a map.
var visionToProductType = []tagTypePair{
	{"náramek", types.ProductTypeBracelet},
	{"náramky", types.ProductTypeBracelet},
	{"náramek na nohu", types.ProductTypeBracelet},
	{"šperk", types.ProductTypeBracelet},
	{"šperk na tělo", types.ProductTypeBracelet},
	{"svíčka", types.ProductTypeCandle},
	{"svíčky", types.ProductTypeCandle},
	{"náhrdelník", types.ProductTypeNecklace},
	{"náhrdelníky", types.ProductTypeNecklace},
	{"přívěsek", types.ProductTypeNecklace},
	{"náušnice", types.ProductTypeEarrings},
	{"dekorace", types.ProductTypeDecor},
	{"klíčenka", types.ProductTypeKeychain},
	{"samolepka", types.ProductTypeSticker},
	{"dárková kartička", types.ProductTypeGiftCard},
	{"dárkový poukaz", types.ProductTypeGiftVoucher},
}

// DetectProductType returns the category of the first tag present in
// the vision→type table, scanning tags in their translated order.
func DetectProductType(tags []string) types.ProductType {
	if len(tags) == 0 {
		return types.ProductTypeOther
	}
	for _, tag := range tags {
		low := strings.ToLower(tag)
		for _, pair := range visionToProductType {
			if low == pair.tag {
				return pair.productType
			}
		}
	}
	return types.ProductTypeOther
}

// isProductWord reports whether a tag names an article rather than a
// color, material, or motif.
func isProductWord(tag string) bool {
	low := strings.ToLower(tag)
	for _, pair := range visionToProductType {
		if low == pair.tag {
			return true
		}
	}
	return false
}

// articleByType is the canonical Czech article word per category; every
// draft title must contain it.
var articleByType = map[types.ProductType]string{
	types.ProductTypeBracelet:    "náramek",
	types.ProductTypeCandle:      "svíčka",
	types.ProductTypeNecklace:    "náhrdelník",
	types.ProductTypeEarrings:    "náušnice",
	types.ProductTypeDecor:       "dekorace",
	types.ProductTypeKeychain:    "klíčenka",
	types.ProductTypeSticker:     "samolepka",
	types.ProductTypeGiftCard:    "dárková kartička",
	types.ProductTypeGiftVoucher: "dárkový poukaz",
	types.ProductTypeOther:       "dekorace",
}

// ArticleFor returns the canonical article word for a category,
// falling back to the first tag that is not a color or material, then
// to the generic article.
func ArticleFor(productType types.ProductType, tags []string) string {
	if article, ok := articleByType[productType]; ok {
		return article
	}
	for _, tag := range tags {
		if colorTags[tag] || materialTags[tag] {
			continue
		}
		return tag
	}
	return "dekorace"
}

type categoryTypePair struct {
	keyword     string
	productType types.ProductType
}

// categoryToProductType maps catalog category names/slugs onto
// drafting categories; substring match, first hit wins.
var categoryToProductType = []categoryTypePair{
	{"náramek", types.ProductTypeBracelet},
	{"náramky", types.ProductTypeBracelet},
	{"bracelet", types.ProductTypeBracelet},
	{"svíčka", types.ProductTypeCandle},
	{"svíčky", types.ProductTypeCandle},
	{"candle", types.ProductTypeCandle},
	{"náhrdelník", types.ProductTypeNecklace},
	{"náhrdelníky", types.ProductTypeNecklace},
	{"necklace", types.ProductTypeNecklace},
	{"náušnice", types.ProductTypeEarrings},
	{"earrings", types.ProductTypeEarrings},
	{"dekorace", types.ProductTypeDecor},
	{"dekor", types.ProductTypeDecor},
	{"decor", types.ProductTypeDecor},
	{"klíčenka", types.ProductTypeKeychain},
	{"keychain", types.ProductTypeKeychain},
	{"samolepka", types.ProductTypeSticker},
	{"sticker", types.ProductTypeSticker},
}

// CategoryToProductType maps a catalog category (by name or slug) to a
// drafting category.
func CategoryToProductType(name, slug string) types.ProductType {
	n := strings.ToLower(name)
	s := strings.ToLower(slug)
	for _, pair := range categoryToProductType {
		if strings.Contains(n, pair.keyword) || strings.Contains(s, pair.keyword) {
			return pair.productType
		}
	}
	return types.ProductTypeOther
}

// ParseProductType normalizes a caller-supplied category hint; unknown
// values collapse to "other".
func ParseProductType(hint string) (types.ProductType, bool) {
	switch types.ProductType(strings.ToLower(strings.TrimSpace(hint))) {
	case types.ProductTypeBracelet:
		return types.ProductTypeBracelet, true
	case types.ProductTypeCandle:
		return types.ProductTypeCandle, true
	case types.ProductTypeNecklace:
		return types.ProductTypeNecklace, true
	case types.ProductTypeEarrings:
		return types.ProductTypeEarrings, true
	case types.ProductTypeDecor:
		return types.ProductTypeDecor, true
	case types.ProductTypeKeychain:
		return types.ProductTypeKeychain, true
	case types.ProductTypeSticker:
		return types.ProductTypeSticker, true
	case types.ProductTypeGiftCard:
		return types.ProductTypeGiftCard, true
	case types.ProductTypeGiftVoucher:
		return types.ProductTypeGiftVoucher, true
	case types.ProductTypeOther:
		return types.ProductTypeOther, true
	}
	return types.ProductTypeOther, false
}
