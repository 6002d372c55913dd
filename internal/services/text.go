package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func isEmojiRune(r rune) bool {
	if r >= 0x1F300 && r <= 0x1FAFF {
		return true
	}
	if r >= 0x2600 && r <= 0x27BF {
		return true
	}
	// Misc symbols and arrows block, notably ⭐.
	return r >= 0x2B00 && r <= 0x2BFF
}

func containsEmoji(text string) bool {
	for _, r := range text {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

func stripEmoji(text string) string {
	var b strings.Builder
	for _, r := range text {
		if isEmojiRune(r) || r == 0xFE0F || r == 0x200D {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// dedupe removes duplicates while preserving first occurrence order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}

// collapseWhitespace folds all whitespace runs (newlines included)
// into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, " ", " ")), " ")
}

var diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripDiacritics folds "náramek" to "naramek" so banned-keyword
// matching catches both spellings.
func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsStripper, s)
	if err != nil {
		return s
	}
	return out
}

// foldForMatch lowercases, strips diacritics, and replaces punctuation
// with spaces, leaving a plain word sequence.
func foldForMatch(s string) string {
	s = stripDiacritics(strings.ToLower(s))
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// containsWholeWord reports whether needle occurs in haystack bounded
// by non-letter/digit runes. Both sides are matched case-insensitively.
func containsWholeWord(haystack, needle string) bool {
	haystack = strings.ToLower(haystack)
	needle = strings.ToLower(needle)
	if needle == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isWordRune(lastRuneBefore(haystack, idx))
		afterOK := end == len(haystack) || !isWordRune(firstRuneAt(haystack, end))
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
		if start >= len(haystack) {
			return false
		}
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lastRuneBefore(s string, idx int) rune {
	r := rune(0)
	for _, c := range s[:idx] {
		r = c
	}
	return r
}

func firstRuneAt(s string, idx int) rune {
	for _, c := range s[idx:] {
		return c
	}
	return 0
}

// sentenceCount counts sentence-like segments (non-trivial runs split
// on terminal punctuation or line breaks).
func sentenceCount(s string) int {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	n := 0
	for _, seg := range segments {
		if len(strings.Fields(seg)) >= 2 {
			n++
		}
	}
	return n
}

// bigramSet tokenizes text into lowercased words and returns its word
// bigram set.
func bigramSet(text string) map[string]struct{} {
	words := strings.Fields(foldForMatch(text))
	set := make(map[string]struct{}, len(words))
	for i := 0; i+1 < len(words); i++ {
		set[words[i]+" "+words[i+1]] = struct{}{}
	}
	return set
}

// bigramJaccard measures overlap between the bigram sets of two texts;
// 1.0 means identical word sequences, 0 means disjoint.
func bigramJaccard(a, b string) float64 {
	setA := bigramSet(a)
	setB := bigramSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	inter := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
