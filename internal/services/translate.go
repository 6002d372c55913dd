package services

import "strings"

// tagCZ maps the vision tagger's English vocabulary to the curated
// Czech catalog vocabulary. Lookup is by lowercased, trimmed key.
var tagCZ = map[string]string{
	"natural material": "přírodní materiál",
	"metal":            "kov",
	"silver":           "stříbrná",
	"gold":             "zlatá",
	"gemstone":         "drahokam",
	"crystal":          "křišťál",
	"glass":            "sklo",
	"wood":             "dřevo",
	"wax":              "vosk",

	"butterfly":   "motýl",
	"butterflies": "motýli",

	"bead":   "korálek",
	"beads":  "korálky",
	"beaded": "korálkový",

	"bracelet":    "náramek",
	"wristband":   "náramek",
	"anklet":      "náramek na nohu",
	"necklace":    "náhrdelník",
	"pendant":     "přívěsek",
	"charm":       "přívěsek",
	"keychain":    "klíčenka",
	"key ring":    "klíčenka",
	"lanyard":     "šňůrka na telefon",
	"phone strap": "šňůrka na telefon",
	"car pendant": "přívěsek do auta",
	"car charm":   "přívěsek do auta",
	"earring":     "náušnice",
	"earrings":    "náušnice",
	"jewelry":     "šperk",
	"jewellery":   "šperk",
	"jewelry set": "šperkový set",

	"candle":     "svíčka",
	"candles":    "svíčky",
	"decor":      "dekorace",
	"decoration": "dekorace",
	"ornament":   "dekorace",
	"gnome":      "skřítek",

	"sticker":       "samolepka",
	"stickers":      "samolepky",
	"decal":         "samolepka",
	"decals":        "samolepky",
	"adhesive":      "samolepka",
	"sheet":         "arch",
	"set":           "sada",
	"pack":          "sada",
	"gift card":     "dárková kartička",
	"greeting card": "dárková kartička",
	"voucher":       "dárkový poukaz",
	"gift voucher":  "dárkový poukaz",

	"pacifier clip": "provázek na dudlík",
	"teether clip":  "provázek na kousátko",
	"diy kit":       "kreativní sada",
	"craft kit":     "kreativní sada",

	"handmade":      "ruční tvorba",
	"craft":         "ruční tvorba",
	"creative arts": "ruční tvorba",

	"blue":   "modrá",
	"green":  "zelená",
	"black":  "černá",
	"white":  "bílá",
	"red":    "červená",
	"yellow": "žlutá",
	"brown":  "hnědá",
	"pink":   "růžová",
	"purple": "fialová",
	"orange": "oranžová",
	"gray":   "šedá",

	"flower":         "květ",
	"flowers":        "květy",
	"floral":         "květinový",
	"leaf":           "list",
	"leaves":         "listy",
	"heart":          "srdce",
	"hearts":         "srdce",
	"star":           "hvězda",
	"stars":          "hvězdy",
	"moon":           "měsíc",
	"sun":            "slunce",
	"hologram":       "hologram",
	"glitter":        "třpyt",
	"sparkle":        "třpyt",
	"pearl":          "perla",
	"pearls":         "perly",
	"stone":          "kámen",
	"stones":         "kameny",
	"ribbon":         "stuha",
	"string":         "šňůrka",
	"thread":         "nit",
	"wooden":         "dřevěný",
	"bone":           "kost",
	"dog collar":     "obojek pro psa",
	"collar":         "obojek",
	"paw":            "tlapka",
	"love":           "láska",
	"jewelry making": "výroba šperků",
	"plastic":        "plast",
}

const czechChars = "ěščřžýáíéúůďťňĚŠČŘŽÝÁÍÉÚŮĎŤŇ"

// untranslatedMarker flags labels the dictionary does not know and
// that do not look Czech. Downstream validation treats its presence
// in generated text as a language-purity failure.
const untranslatedMarker = " (EN)"

// LooksCzech reports whether a tag already reads as Czech catalog
// vocabulary (carries Czech diacritics, or is a dimension annotation).
func LooksCzech(tag string) bool {
	if tag == "" {
		return false
	}
	if strings.ContainsAny(tag, czechChars) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(tag), "rozměr ")
}

func fallbackTranslate(tag string) string {
	clean := strings.TrimSpace(tag)
	if clean == "" {
		return clean
	}
	if LooksCzech(clean) {
		return clean
	}
	if strings.HasSuffix(strings.ToLower(clean), "(en)") {
		return clean
	}
	return clean + untranslatedMarker
}

// TranslateTags maps raw vision labels to Czech tags. The result has
// the same length and order as the input; unknown labels are never
// dropped, only annotated.
func TranslateTags(tags []string) []string {
	translated := make([]string, 0, len(tags))
	for _, t := range tags {
		low := strings.ToLower(strings.TrimSpace(t))
		if cz, ok := tagCZ[low]; ok {
			translated = append(translated, cz)
			continue
		}
		translated = append(translated, fallbackTranslate(t))
	}
	return translated
}
