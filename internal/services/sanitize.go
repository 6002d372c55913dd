package services

import (
	"regexp"
	"strings"
)

var (
	markdownHeaderRe = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	markdownBoldRe   = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	markdownItalicRe = regexp.MustCompile(`\*([^*]*)\*`)
	excessNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

// SanitizeGeneratedText strips model formatting artifacts: markdown
// markers, code fences, and newline runs. Section emojis and bullet
// dashes are kept.
func SanitizeGeneratedText(text string) string {
	text = strings.ReplaceAll(text, "```", "")
	text = markdownHeaderRe.ReplaceAllString(text, "")
	text = markdownBoldRe.ReplaceAllString(text, "$1")
	text = markdownItalicRe.ReplaceAllString(text, "$1")
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// StripTitleEcho removes a leading description line that repeats the
// title, a common model habit when both are requested at once.
func StripTitleEcho(title, description string) string {
	lines := strings.SplitN(strings.TrimSpace(description), "\n", 2)
	if len(lines) < 2 {
		return description
	}
	first := collapseWhitespace(stripEmoji(lines[0]))
	want := collapseWhitespace(stripEmoji(title))
	if want != "" && strings.EqualFold(first, want) {
		return strings.TrimSpace(lines[1])
	}
	return description
}
