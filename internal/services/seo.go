package services

import "strings"

const (
	seoTitleMaxRunes       = 60
	seoDescriptionMaxRunes = 155
	seoKeywordLimit        = 10
)

// SeoFields are the search-engine fields derived from a draft.
type SeoFields struct {
	Title       string
	Description string
	Keywords    string
}

// BuildSeoFields derives plain-text SEO metadata from the draft: emoji
// and formatting stripped, title and description truncated to engine
// limits, keywords taken from the leading tags.
func BuildSeoFields(title, description string, tags []string) SeoFields {
	cleanTitle := collapseWhitespace(stripEmoji(title))
	cleanDescription := collapseWhitespace(stripEmoji(strings.ReplaceAll(description, "-", " ")))

	keywords := make([]string, 0, seoKeywordLimit)
	for _, tag := range dedupe(tags) {
		tag = strings.TrimSpace(strings.TrimSuffix(tag, untranslatedMarker))
		if tag == "" {
			continue
		}
		keywords = append(keywords, tag)
		if len(keywords) == seoKeywordLimit {
			break
		}
	}

	return SeoFields{
		Title:       truncateAtWord(cleanTitle, seoTitleMaxRunes),
		Description: truncateAtWord(cleanDescription, seoDescriptionMaxRunes),
		Keywords:    strings.Join(keywords, ", "),
	}
}

// truncateAtWord shortens text to at most maxRunes runes including the
// appended ellipsis, cutting at the last word boundary so no word is
// split mid-way.
func truncateAtWord(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	cut := string(runes[:maxRunes-1])
	if idx := strings.LastIndexAny(cut, " \t"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
