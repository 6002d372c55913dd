package services

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/atelierzuzka/backend/internal/types"
)

// genericTags are vision labels too broad to carry into copy; they are
// filtered out before a draft is assembled.
var genericTags = map[string]bool{
	"ruční tvorba":  true,
	"šperk":         true,
	"výroba šperků": true,
	"produkt":       true,
	"móda":          true,
	"doplněk":       true,
	"doplňky":       true,
	"plast":         true,
}

var colorTags = map[string]bool{
	"modrá":    true,
	"zelená":   true,
	"černá":    true,
	"bílá":     true,
	"červená":  true,
	"žlutá":    true,
	"hnědá":    true,
	"růžová":   true,
	"fialová":  true,
	"oranžová": true,
	"šedá":     true,
	"stříbrná": true,
	"zlatá":    true,
}

var materialTags = map[string]bool{
	"přírodní materiál": true,
	"kov":               true,
	"stříbrná":          true,
	"zlatá":             true,
	"drahokam":          true,
	"křišťál":           true,
	"sklo":              true,
	"dřevo":             true,
	"dřevěný":           true,
	"vosk":              true,
	"kámen":             true,
	"kameny":            true,
	"perla":             true,
	"perly":             true,
}

type motifEmojiPair struct {
	motif string
	emoji string
}

// emojiByMotif is scanned in table order; the first motif found as a
// substring of any tag picks the title emoji.
var emojiByMotif = []motifEmojiPair{
	{"motýl", "🦋"}, {"motýli", "🦋"}, {"butterfly", "🦋"},
	{"květ", "🌸"}, {"květy", "🌸"}, {"květina", "🌸"}, {"květiny", "🌸"},
	{"flower", "🌸"}, {"flowers", "🌸"}, {"růže", "🌷"}, {"tulipán", "🌷"},
	{"sedmikráska", "🌼"}, {"pampeliška", "🌼"},
	{"list", "🍃"}, {"listy", "🍃"}, {"příroda", "🌿"}, {"přírodní", "🌿"},
	{"leaf", "🍃"}, {"leaves", "🍃"}, {"bylina", "🌿"}, {"bylinky", "🌿"},
	{"srdce", "💖"}, {"hearts", "💖"}, {"láska", "💖"}, {"love", "❤️"},
	{"kočka", "🐱"}, {"kočky", "🐱"}, {"cat", "🐱"},
	{"tlapka", "🐾"}, {"paw", "🐾"}, {"paws", "🐾"},
	{"náramek", "💎"}, {"šperk", "💎"}, {"náhrdelník", "📿"}, {"jewelry", "💎"},
	{"svíčka", "🕯️"}, {"svíčky", "🕯️"}, {"candle", "🕯️"},
	{"přívěsek", "🔗"}, {"pendant", "🔗"}, {"charm", "🔗"},
	{"hvězda", "⭐"}, {"hvězdy", "⭐"}, {"star", "⭐"}, {"stars", "⭐"},
	{"třpyt", "✨"}, {"sparkle", "✨"},
	{"anděl", "👼"}, {"andělé", "👼"}, {"angel", "👼"},
	{"perla", "🤍"}, {"perly", "🤍"}, {"pearl", "🤍"}, {"pearls", "🤍"},
	{"strom", "🌳"}, {"stromy", "🌳"}, {"tree", "🌳"}, {"dřevo", "🌳"},
	{"moře", "🌊"}, {"oceán", "🌊"}, {"sea", "🌊"}, {"ocean", "🌊"},
	{"slunce", "☀️"}, {"sun", "☀️"},
	{"měsíc", "🌙"}, {"moon", "🌙"},
	{"kůň", "🐴"}, {"horse", "🐴"}, {"hřebec", "🐴"},
	{"skřítek", "🧙‍♂️"}, {"skřítci", "🧙‍♂️"}, {"gnome", "🧙‍♂️"},
	{"lesní skřítek", "🧚"}, {"lesní", "🍄"}, {"houba", "🍄"}, {"mushroom", "🍄"},
	{"elf", "🧝‍♂️"}, {"elfové", "🧝‍♂️"},
	{"víla", "🧚"}, {"víly", "🧚"}, {"fairy", "🧚"},
}

var emojiDefaultPool = []string{
	"🦋", "🌸", "🍃", "💖", "🐱", "🐾", "💎", "🌙", "⭐", "🌊",
	"🌿", "🌼", "🕯️", "🔗", "🧙‍♂️", "🧚", "🤍", "☀️", "📿", "✨",
}

// RandomEmoji returns a decorative emoji for copy that found no motif.
func RandomEmoji() string {
	return emojiDefaultPool[rand.Intn(len(emojiDefaultPool))]
}

func emojiForTags(tags []string) string {
	for _, pair := range emojiByMotif {
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), pair.motif) {
				return pair.emoji
			}
		}
	}
	return RandomEmoji()
}

// filterTags drops generic labels and untranslated leftovers, keeping
// order and de-duplicating.
func filterTags(tags []string) []string {
	kept := make([]string, 0, len(tags))
	for _, tag := range tags {
		clean := strings.TrimSpace(tag)
		if clean == "" {
			continue
		}
		if genericTags[strings.ToLower(clean)] {
			continue
		}
		if strings.HasSuffix(clean, untranslatedMarker) {
			continue
		}
		kept = append(kept, clean)
	}
	return dedupe(kept)
}

// DeterministicDraftBuilder assembles a structured draft from tags
// alone. Its output always satisfies the draft validation rules, so it
// is safe as the terminal fallback when generation never converges.
type DeterministicDraftBuilder struct{}

// BuildStructuredDraft renders the canonical two-section layout:
// a bullet list of visible elements under "✨ Popis produktu:" and a
// style line under "💎 Styl:".
func (DeterministicDraftBuilder) BuildStructuredDraft(productType types.ProductType, tags []string) types.DraftCandidate {
	usable := filterTags(tags)
	article := ArticleFor(productType, usable)
	emoji := emojiForTags(usable)

	first := article
	if len(usable) > 0 && !strings.EqualFold(usable[0], article) {
		first = usable[0]
	}
	title := fmt.Sprintf("%s %s – %s", emoji, capitalizeFirst(first), article)
	if strings.EqualFold(first, article) {
		title = fmt.Sprintf("%s Ručně vyráběný %s", emoji, article)
	}

	bullets := usable
	if len(bullets) > 5 {
		bullets = bullets[:5]
	}
	if len(bullets) == 0 {
		bullets = []string{article}
	}

	styleTags := []string{"přírodní", "jemný"}
	if len(usable) >= 3 {
		styleTags = usable[2:]
		if len(styleTags) > 3 {
			styleTags = styleTags[:3]
		}
	} else if len(usable) > 0 {
		styleTags = append([]string{}, usable...)
		styleTags = append(styleTags, "jemný")
	}

	var b strings.Builder
	b.WriteString("✨ Popis produktu:\n")
	for _, tag := range bullets {
		b.WriteString("- Ručně zpracovaný prvek: ")
		b.WriteString(tag)
		b.WriteString(".\n")
	}
	b.WriteString("\n💎 Styl: ")
	b.WriteString(strings.Join(styleTags, ", "))
	b.WriteString(". Každý kus vzniká ručně a je proto originál.")

	return types.DraftCandidate{
		Title:       title,
		Description: b.String(),
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
