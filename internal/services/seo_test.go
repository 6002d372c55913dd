package services

import (
	"strings"
	"testing"
)

func TestBuildSeoFieldsStripsEmojiAndFormatting(t *testing.T) {
	fields := BuildSeoFields(validTitle, validDescription, []string{"motýl", "modrá"})

	if containsEmoji(fields.Title) || containsEmoji(fields.Description) {
		t.Fatalf("emoji survived: %q / %q", fields.Title, fields.Description)
	}
	if strings.Contains(fields.Description, "\n") {
		t.Fatalf("newlines survived: %q", fields.Description)
	}
	if !strings.Contains(fields.Title, "Motýlí náramek") {
		t.Fatalf("title content lost: %q", fields.Title)
	}
}

func TestBuildSeoFieldsTruncation(t *testing.T) {
	longWord := strings.Repeat("korálkový náramek ", 20)
	fields := BuildSeoFields(longWord, longWord, nil)

	titleRunes := []rune(fields.Title)
	if len(titleRunes) > seoTitleMaxRunes {
		t.Fatalf("title %d runes, max %d", len(titleRunes), seoTitleMaxRunes)
	}
	if !strings.HasSuffix(fields.Title, "…") {
		t.Fatalf("truncated title missing ellipsis: %q", fields.Title)
	}

	descRunes := []rune(fields.Description)
	if len(descRunes) > seoDescriptionMaxRunes {
		t.Fatalf("description %d runes, max %d", len(descRunes), seoDescriptionMaxRunes)
	}
	if !strings.HasSuffix(fields.Description, "…") {
		t.Fatalf("truncated description missing ellipsis: %q", fields.Description)
	}

	// No word is cut mid-way: everything before the ellipsis must be a
	// prefix of the source ending at a word boundary.
	body := strings.TrimSuffix(fields.Description, "…")
	if !strings.HasPrefix(longWord, body+" ") && !strings.HasPrefix(longWord, body) {
		t.Fatalf("description not cut at word boundary: %q", body)
	}
	if strings.HasSuffix(body, " ") {
		t.Fatalf("trailing space before ellipsis: %q", body)
	}
}

func TestBuildSeoFieldsShortTextUntouched(t *testing.T) {
	fields := BuildSeoFields("Krátký název", "Krátký popis bez emoji.", nil)
	if fields.Title != "Krátký název" {
		t.Fatalf("title changed: %q", fields.Title)
	}
	if strings.Contains(fields.Description, "…") {
		t.Fatalf("short description truncated: %q", fields.Description)
	}
}

func TestBuildSeoFieldsKeywords(t *testing.T) {
	tags := []string{
		"motýl", "modrá", "korálky", "náramek", "ruční tvorba",
		"dárek", "léto", "třpyt", "stuha", "květ", "jedenáctý", "dvanáctý",
	}
	fields := BuildSeoFields("t", "d", tags)

	parts := strings.Split(fields.Keywords, ", ")
	if len(parts) != seoKeywordLimit {
		t.Fatalf("got %d keywords, want %d", len(parts), seoKeywordLimit)
	}
	if parts[0] != "motýl" || parts[9] != "květ" {
		t.Fatalf("keywords = %q", fields.Keywords)
	}
}

func TestBuildSeoFieldsKeywordsStripMarker(t *testing.T) {
	fields := BuildSeoFields("t", "d", []string{"steampunk (EN)", "modrá"})
	if fields.Keywords != "steampunk, modrá" {
		t.Fatalf("keywords = %q", fields.Keywords)
	}
}
