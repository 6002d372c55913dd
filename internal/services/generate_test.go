package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/atelierzuzka/backend/internal/types"
)

// scriptedGenerator replays canned responses and records prompts.
type scriptedGenerator struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (g *scriptedGenerator) GenerateChat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	idx := g.calls
	g.calls++
	g.prompts = append(g.prompts, userPrompt)
	if idx < len(g.errs) && g.errs[idx] != nil {
		return "", g.errs[idx]
	}
	if idx < len(g.responses) {
		return g.responses[idx], nil
	}
	return "", fmt.Errorf("no scripted response for call %d", idx+1)
}

var validRawResponse = validTitle + "\n\n" + validDescription

func braceletInput() GenerationInput {
	return GenerationInput{
		ProductType: types.ProductTypeBracelet,
		Tags:        []string{"motýl", "modrá", "korálky"},
		RawTags:     []string{"butterfly", "blue", "beads"},
	}
}

func newTestController(t *testing.T, gen TextGenerator) *GenerationController {
	t.Helper()
	c, err := NewGenerationController(testLogger(t), gen)
	if err != nil {
		t.Fatalf("controller init: %v", err)
	}
	return c
}

func TestGenerateAcceptsFirstValidDraft(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validRawResponse}}
	c := newTestController(t, gen)

	got := c.Generate(context.Background(), braceletInput())

	if gen.calls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls)
	}
	if got.UsedFallback || got.Attempts != 1 {
		t.Fatalf("result = %+v", got)
	}
	if got.Title != validTitle {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Description != validDescription {
		t.Fatalf("description = %q", got.Description)
	}
}

func TestGenerateRetriesWithCorrectiveInstruction(t *testing.T) {
	banned := validTitle + "\n\n" + validDescription + "\nLuxusní kousek se slevou."
	gen := &scriptedGenerator{responses: []string{banned, validRawResponse}}
	c := newTestController(t, gen)

	got := c.Generate(context.Background(), braceletInput())

	if gen.calls != 2 {
		t.Fatalf("generator called %d times, want 2", gen.calls)
	}
	if got.Attempts != 2 || got.UsedFallback {
		t.Fatalf("result = %+v", got)
	}
	if !strings.Contains(gen.prompts[1], "neprošel kontrolou") {
		t.Fatal("second prompt missing corrective instruction")
	}
	if strings.Contains(gen.prompts[0], "neprošel kontrolou") {
		t.Fatal("first prompt must not carry a corrective instruction")
	}
}

func TestGenerateFallsBackAfterBudget(t *testing.T) {
	banned := validTitle + "\n\n" + validDescription + "\nZaručená kvalita, neváhejte a objednejte."
	gen := &scriptedGenerator{responses: []string{banned, banned, banned}}
	c := newTestController(t, gen)

	in := braceletInput()
	got := c.Generate(context.Background(), in)

	if gen.calls != 3 {
		t.Fatalf("generator called %d times, want 3", gen.calls)
	}
	if !got.UsedFallback {
		t.Fatalf("expected fallback, got %+v", got)
	}

	ok, reason, detail := ValidateDraft(ValidationInput{
		Title:       got.Title,
		Description: got.Description,
		RawTags:     in.RawTags,
		Article:     ArticleFor(in.ProductType, filterTags(in.Tags)),
	})
	if !ok {
		t.Fatalf("fallback draft invalid: %s (%s)", reason, detail)
	}
}

func TestGenerateRelaxedAcceptanceOnLastAttempt(t *testing.T) {
	// A near-verbatim template copy fails originality every attempt but
	// passes the relaxed gate on the last one.
	in := braceletInput()
	in.Retrieval = types.RetrievalResult{
		Template: validDescription,
		Matched:  true,
	}
	copycat := validTitle + "\n\n" + validDescription
	gen := &scriptedGenerator{responses: []string{copycat, copycat, copycat}}
	c := newTestController(t, gen)

	got := c.Generate(context.Background(), in)

	if got.UsedFallback {
		t.Fatal("relaxed acceptance should avoid the fallback")
	}
	if got.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", got.Attempts)
	}
	if !got.Adapted {
		t.Fatal("matched retrieval must mark the draft adapted")
	}
	if !containsEmoji(got.Title) || !strings.Contains(strings.ToLower(got.Title), "náramek") {
		t.Fatalf("relaxed title not repaired: %q", got.Title)
	}
}

func TestGenerateFallbackOnGeneratorErrors(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{
		fmt.Errorf("timeout"), fmt.Errorf("timeout"), fmt.Errorf("timeout"),
	}}
	c := newTestController(t, gen)

	got := c.Generate(context.Background(), braceletInput())
	if !got.UsedFallback {
		t.Fatalf("expected fallback, got %+v", got)
	}
}

func TestGenerateWithoutGenerator(t *testing.T) {
	c := newTestController(t, nil)
	got := c.Generate(context.Background(), braceletInput())
	if !got.UsedFallback {
		t.Fatalf("expected fallback, got %+v", got)
	}
	if got.Title == "" || got.Description == "" {
		t.Fatal("fallback draft must be complete")
	}
}

func TestGenerateAdaptsMatchedTemplate(t *testing.T) {
	in := braceletInput()
	in.Retrieval = types.RetrievalResult{
		Template: "💎 Styl: zcela jiná šablona o svíčkách ze sojového vosku, ručně litá do skleněné dózy.",
		Matched:  true,
	}
	gen := &scriptedGenerator{responses: []string{validRawResponse}}
	c := newTestController(t, gen)

	got := c.Generate(context.Background(), in)
	if !got.Adapted || got.UsedFallback {
		t.Fatalf("result = %+v", got)
	}
	if !strings.Contains(gen.prompts[0], "Uprav následující šablonu") {
		t.Fatal("adaptation prompt missing template instruction")
	}
}

func TestSplitDraft(t *testing.T) {
	title, desc := splitDraft("\n\n# " + validTitle + "\n\n**tučné**\n" + validDescription)
	if title != validTitle {
		t.Fatalf("title = %q", title)
	}
	if strings.Contains(desc, "**") || strings.Contains(desc, "#") {
		t.Fatalf("markdown not stripped: %q", desc)
	}
	if !strings.Contains(desc, "tučné") {
		t.Fatalf("content lost: %q", desc)
	}
}
