package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/types"
	"github.com/atelierzuzka/backend/internal/utils"
)

// TextGenerator is the chat completion surface the controller needs.
type TextGenerator interface {
	GenerateChat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const maxGenerationAttempts = 3

// systemPrompt fixes the register: Czech copy for a handmade e-shop,
// no superlatives, no markdown.
const systemPrompt = `Jsi copywriter českého e-shopu s ručně vyráběnými doplňky.
Píšeš výhradně česky, věcně a srdečně, bez superlativů a bez prodejních frází.
Nikdy nepoužíváš markdown ani anglická slova.
Výstup: první řádek je název produktu (začíná emoji a obsahuje slovo pro druh výrobku),
pak prázdný řádek a popis produktu ve struktuře podle šablony.`

// mandatoryStructureTemplate is the canonical description layout. It is
// shown to the model verbatim as the shape every draft must follow and
// doubles as the retrieval fallback when no stored template matches.
const mandatoryStructureTemplate = `🦋 Motýlí náramek – náramek

✨ Popis produktu:
- Ručně navlékané skleněné korálky v modrých tónech.
- Přívěsek ve tvaru motýla z chirurgické oceli.
- Nastavitelná délka, sedne na každé zápěstí.

💎 Styl: jemný, přírodní, hravý. Každý kus vzniká ručně a je proto originál.`

// GenerationInput is one drafting request after tagging, translation,
// and retrieval have run.
type GenerationInput struct {
	ProductType             types.ProductType
	Tags                    []string
	RawTags                 []string
	Retrieval               types.RetrievalResult
	CategoryDefaultTemplate string
}

// GenerationResult is the accepted draft plus how it was reached.
type GenerationResult struct {
	Title        string
	Description  string
	Attempts     int
	Adapted      bool
	UsedFallback bool
}

// GenerationController drives the generate→validate→retry loop and
// guarantees a publishable draft: after the attempt budget it falls
// back to the deterministic builder, whose output always validates.
type GenerationController struct {
	log       *logger.Logger
	generator TextGenerator
	fallback  DeterministicDraftBuilder
	attempts  int
}

func NewGenerationController(log *logger.Logger, generator TextGenerator) (*GenerationController, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &GenerationController{
		log:       log.With("service", "GenerationController"),
		generator: generator,
		attempts:  utils.GetEnvAsInt("DRAFT_MAX_ATTEMPTS", maxGenerationAttempts, log),
	}, nil
}

// Generate produces a validated draft. When the retrieval matched, the
// stored template is adapted and originality is enforced; otherwise the
// category default (or the mandatory structure) only shapes the output.
func (g *GenerationController) Generate(ctx context.Context, in GenerationInput) GenerationResult {
	template, adapting := g.pickTemplate(in)
	article := ArticleFor(in.ProductType, filterTags(in.Tags))

	if g.generator == nil {
		return g.buildFallback(in, 0)
	}

	var lastReason, lastDetail string
	for attempt := 1; attempt <= g.attempts; attempt++ {
		userPrompt := g.buildUserPrompt(in, template, article, attempt, lastReason, lastDetail)

		raw, err := g.generator.GenerateChat(ctx, systemPrompt, userPrompt)
		if err != nil {
			g.log.Warn("generation call failed", "attempt", attempt, "error", err)
			lastReason, lastDetail = "generation", err.Error()
			continue
		}

		title, description := splitDraft(raw)
		description = StripTitleEcho(title, description)

		input := ValidationInput{
			Title:              title,
			Description:        description,
			TemplateText:       template,
			RawTags:            in.RawTags,
			Article:            article,
			RequireOriginality: adapting,
		}

		ok, reason, detail := ValidateDraft(input)
		if ok {
			return GenerationResult{
				Title:       title,
				Description: description,
				Attempts:    attempt,
				Adapted:     adapting,
			}
		}

		if attempt == g.attempts {
			if relaxedOK, _, _ := ValidateRelaxed(input); relaxedOK {
				title = g.ensureTitle(title, in, article)
				return GenerationResult{
					Title:       title,
					Description: description,
					Attempts:    attempt,
					Adapted:     adapting,
				}
			}
		}

		g.log.Debug("draft rejected", "attempt", attempt, "reason", reason, "detail", detail)
		lastReason, lastDetail = reason, detail
	}

	return g.buildFallback(in, g.attempts)
}

func (g *GenerationController) pickTemplate(in GenerationInput) (string, bool) {
	if in.Retrieval.Matched && strings.TrimSpace(in.Retrieval.Template) != "" {
		return in.Retrieval.Template, true
	}
	if strings.TrimSpace(in.CategoryDefaultTemplate) != "" {
		return in.CategoryDefaultTemplate, false
	}
	return mandatoryStructureTemplate, false
}

func (g *GenerationController) buildUserPrompt(in GenerationInput, template, article string, attempt int, lastReason, lastDetail string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Druh výrobku: %s (název musí obsahovat slovo %q).\n", in.ProductType, article)
	fmt.Fprintf(&b, "Štítky z fotografií: %s.\n", strings.Join(filterTags(in.Tags), ", "))
	if len(in.RawTags) > 0 {
		fmt.Fprintf(&b, "Původní štítky (jen pomůcka k překladu, v textu je nepoužívej): %s.\n", strings.Join(in.RawTags, ", "))
	}
	b.WriteString("\n")

	if in.Retrieval.Matched {
		b.WriteString("Uprav následující šablonu pro tento konkrétní výrobek. ")
		b.WriteString("Zachovej strukturu, ale přepiš obsah vlastními slovy podle štítků:\n\n")
	} else {
		b.WriteString("Napiš nový popis přesně v této struktuře:\n\n")
	}
	b.WriteString(template)

	if attempt > 1 && lastReason != "" {
		fmt.Fprintf(&b, "\n\nPředchozí pokus neprošel kontrolou (%s: %s). Oprav to.", lastReason, lastDetail)
	}
	return b.String()
}

// ensureTitle repairs a relaxed-accepted draft whose title lost its
// emoji or article word.
func (g *GenerationController) ensureTitle(title string, in GenerationInput, article string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return g.fallback.BuildStructuredDraft(in.ProductType, in.Tags).Title
	}
	if article != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(article)) {
		title = title + " – " + article
	}
	if !containsEmoji(title) {
		title = emojiForTags(filterTags(in.Tags)) + " " + title
	}
	return title
}

func (g *GenerationController) buildFallback(in GenerationInput, attempts int) GenerationResult {
	draft := g.fallback.BuildStructuredDraft(in.ProductType, in.Tags)
	return GenerationResult{
		Title:        draft.Title,
		Description:  draft.Description,
		Attempts:     attempts,
		UsedFallback: true,
	}
}

// splitDraft separates the first non-empty line (title) from the rest
// (description) and sanitizes both.
func splitDraft(raw string) (string, string) {
	clean := SanitizeGeneratedText(raw)
	lines := strings.Split(clean, "\n")

	title := ""
	rest := ""
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		title = strings.TrimSpace(line)
		rest = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		break
	}
	return title, rest
}
