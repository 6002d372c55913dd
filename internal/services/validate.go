package services

import (
	"fmt"
	"strings"
	"unicode"
)

// bannedPhrases are marketing boilerplate the shop never publishes.
// Matched as substrings against the folded draft text.
var bannedPhrases = []string{
	"ideální dárek pro každou příležitost",
	"skvělý dárek pro každého",
	"nejlepší na trhu",
	"vysoce kvalitní produkt",
	"stoprocentní spokojenost",
	"100% spokojenost",
	"neváhejte a objednejte",
	"objednejte ještě dnes",
	"perfektní volba",
	"zaručená kvalita",
}

// bannedKeywords are single words that must not appear anywhere in the
// draft; matched whole-word after diacritics folding, so "luxusni"
// catches "luxusní" too.
var bannedKeywords = []string{
	"luxusni",
	"exkluzivni",
	"premiovy",
	"premiova",
	"bestseller",
	"vyprodej",
	"sleva",
	"akce",
	"garantujeme",
}

// forbiddenBareHeaders are section labels the model tends to emit as
// raw bullet headers instead of prose.
var forbiddenBareHeaders = []string{
	"viditelné prvky",
	"materiál:",
	"typ:",
}

const (
	structureMarkerDescription = "popis produktu"
	structureMarkerStyle       = "styl"

	minDescriptionChars = 50
	maxTemplateOverlap  = 0.5
)

// ValidationInput carries one draft candidate plus the context the
// rules need: the template it may have been adapted from, the raw
// (untranslated) vision vocabulary, and the required article word.
type ValidationInput struct {
	Title              string
	Description        string
	TemplateText       string
	RawTags            []string
	Article            string
	RequireOriginality bool
}

// ValidateDraft applies the acceptance rules in a fixed order and
// returns the first failure. Ok means the draft is publishable as-is.
func ValidateDraft(in ValidationInput) (bool, string, string) {
	if ok, detail := checkStructure(in.Description); !ok {
		return false, "structure", detail
	}
	if ok, detail := checkLanguagePurity(in.Title, in.Description, in.RawTags); !ok {
		return false, "language", detail
	}
	if ok, detail := checkBannedContent(in.Title, in.Description); !ok {
		return false, "banned", detail
	}
	if ok, detail := checkTitle(in.Title, in.Article); !ok {
		return false, "title", detail
	}
	if in.RequireOriginality {
		if ok, detail := checkOriginality(in.Description, in.TemplateText); !ok {
			return false, "originality", detail
		}
	}
	return true, "", ""
}

// ValidateRelaxed is the last-attempt acceptance gate: only banned
// content and structure can still reject a draft.
func ValidateRelaxed(in ValidationInput) (bool, string, string) {
	if ok, detail := checkBannedContent(in.Title, in.Description); !ok {
		return false, "banned", detail
	}
	if ok, detail := checkStructure(in.Description); !ok {
		return false, "structure", detail
	}
	return true, "", ""
}

func checkStructure(description string) (bool, string) {
	desc := strings.TrimSpace(description)
	if len([]rune(desc)) < minDescriptionChars {
		return false, fmt.Sprintf("description too short (%d chars)", len([]rune(desc)))
	}

	low := strings.ToLower(desc)
	for _, header := range forbiddenBareHeaders {
		for _, line := range strings.Split(low, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), header) {
				return false, fmt.Sprintf("bare header %q", header)
			}
		}
	}

	// Both section markers present: structurally compliant as-is. One
	// without the other means a half-finished layout. No markers at all
	// falls back to requiring prose of at least two sentences.
	hasDescription := hasSectionMarker(desc, structureMarkerDescription)
	hasStyle := hasSectionMarker(desc, structureMarkerStyle)
	switch {
	case hasDescription && hasStyle:
		return true, ""
	case hasDescription:
		return false, "missing style section"
	case hasStyle:
		return false, "missing product description section"
	}

	if n := sentenceCount(desc); n < 2 {
		return false, fmt.Sprintf("only %d sentences", n)
	}
	return true, ""
}

// hasSectionMarker reports whether a line opens the named section: the
// marker word at the start of a line (decorating emoji allowed),
// followed by a colon or dash. Prose that merely mentions the word
// ("stylový", "o stylu") does not count.
func hasSectionMarker(description, marker string) bool {
	for _, line := range strings.Split(strings.ToLower(description), "\n") {
		line = strings.TrimLeftFunc(line, func(r rune) bool {
			return unicode.IsSpace(r) || isEmojiRune(r) || r == 0xFE0F || r == 0x200D
		})
		if !strings.HasPrefix(line, marker) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, marker))
		if rest == "" || strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "-") ||
			strings.HasPrefix(rest, "–") || strings.HasPrefix(rest, "—") {
			return true
		}
	}
	return false
}

func checkLanguagePurity(title, description string, rawTags []string) (bool, string) {
	combined := title + "\n" + description
	if strings.Contains(combined, strings.TrimSpace(untranslatedMarker)) {
		return false, "untranslated tag marker in text"
	}
	for _, raw := range rawTags {
		raw = strings.TrimSpace(raw)
		if raw == "" || LooksCzech(raw) {
			continue
		}
		// Loanwords whose Czech form equals the English label
		// (e.g. "hologram") are legitimate in Czech copy.
		if cz, known := tagCZ[strings.ToLower(raw)]; known && strings.EqualFold(cz, raw) {
			continue
		}
		if containsWholeWord(combined, raw) {
			return false, fmt.Sprintf("english vocabulary %q", raw)
		}
	}
	return true, ""
}

func checkBannedContent(title, description string) (bool, string) {
	folded := foldForMatch(title + "\n" + description)
	for _, phrase := range bannedPhrases {
		if strings.Contains(folded, foldForMatch(phrase)) {
			return false, fmt.Sprintf("banned phrase %q", phrase)
		}
	}
	for _, kw := range bannedKeywords {
		if containsWholeWord(folded, kw) {
			return false, fmt.Sprintf("banned keyword %q", kw)
		}
	}
	return true, ""
}

func checkTitle(title, article string) (bool, string) {
	if strings.TrimSpace(title) == "" {
		return false, "empty title"
	}
	if article != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(article)) {
		return false, fmt.Sprintf("title missing article word %q", article)
	}
	if !containsEmoji(title) {
		return false, "title missing emoji"
	}
	return true, ""
}

func checkOriginality(description, templateText string) (bool, string) {
	if strings.TrimSpace(templateText) == "" {
		return true, ""
	}
	overlap := bigramJaccard(description, templateText)
	if overlap > maxTemplateOverlap {
		return false, fmt.Sprintf("template overlap %.2f", overlap)
	}
	return true, ""
}
