package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atelierzuzka/backend/internal/clients/chroma"
	apperrors "github.com/atelierzuzka/backend/internal/pkg/errors"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/repos"
	"github.com/atelierzuzka/backend/internal/types"
)

// TemplateCurator grows the retrieval collection: freshly generated
// descriptions that did not come from a stored template are saved back
// as future templates, and the catalog can be mined for seed templates.
type TemplateCurator struct {
	log      *logger.Logger
	store    *TemplateStore
	products repos.ProductRepo
}

func NewTemplateCurator(log *logger.Logger, store *TemplateStore, products repos.ProductRepo) (*TemplateCurator, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("template store required")
	}
	return &TemplateCurator{
		log:      log.With("service", "TemplateCurator"),
		store:    store,
		products: products,
	}, nil
}

// SaveAutoTemplate stores a newly generated draft as a template for its
// category. The template text is the title and description joined by a
// blank line, so a future match presents the full exemplar including
// its title line. The retrieval query text and embedding are reused
// when present so the save costs no extra embedding call.
func (c *TemplateCurator) SaveAutoTemplate(ctx context.Context, productType types.ProductType, title, description string, tags []string, retrieval types.RetrievalResult) (string, error) {
	text := strings.TrimSpace(strings.TrimSpace(title) + "\n\n" + strings.TrimSpace(description))
	if text == "" {
		return "", fmt.Errorf("empty template text")
	}

	id := fmt.Sprintf("auto_%s_%s", sanitizeTypeForID(productType), strings.ReplaceAll(uuid.NewString(), "-", ""))

	embedding := retrieval.Embedding
	if len(embedding) == 0 || isZeroVector(embedding) {
		embedding = c.store.EmbedText(ctx, text)
	}

	doc := chroma.Document{
		ID:        id,
		Text:      text,
		Embedding: embedding,
		Metadata: map[string]any{
			"product_type": string(productType),
			"source":       "auto",
			"tags":         strings.Join(tags, ","),
			"query_text":   retrieval.QueryText,
			"created_at":   time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := c.store.Upsert(ctx, []chroma.Document{doc}); err != nil {
		return "", fmt.Errorf("save auto template: %w", err)
	}

	c.log.Info("auto template saved", "id", id, "product_type", productType)
	return id, nil
}

// SeedFromCatalog mines the product catalog for one exemplar
// description per category and stores it under a stable seed id, so
// re-running the seed is idempotent. Returns the number of templates
// written.
func (c *TemplateCurator) SeedFromCatalog(ctx context.Context) (int, error) {
	if c.products == nil {
		return 0, fmt.Errorf("product repository: %w", apperrors.ErrNotConfigured)
	}

	products, err := c.products.ListDescribed(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list described products: %w", err)
	}

	docs := make([]chroma.Document, 0)
	seen := make(map[types.ProductType]bool)
	for _, p := range products {
		var name, slug string
		if p.Category != nil {
			name = p.Category.Name
			slug = p.Category.Slug
		}
		productType := CategoryToProductType(name, slug)
		if seen[productType] {
			continue
		}
		seen[productType] = true

		text := strings.TrimSpace(p.Description)
		if text == "" {
			continue
		}

		docs = append(docs, chroma.Document{
			ID:        fmt.Sprintf("template_%s", sanitizeTypeForID(productType)),
			Text:      text,
			Embedding: c.store.EmbedText(ctx, text),
			Metadata: map[string]any{
				"product_type": string(productType),
				"source":       "seed",
				"product_id":   p.ID.String(),
				"created_at":   time.Now().UTC().Format(time.RFC3339),
			},
		})
	}

	if len(docs) == 0 {
		return 0, nil
	}
	if err := c.store.Upsert(ctx, docs); err != nil {
		return 0, fmt.Errorf("seed templates: %w", err)
	}

	c.log.Info("catalog templates seeded", "count", len(docs))
	return len(docs), nil
}

func sanitizeTypeForID(productType types.ProductType) string {
	return strings.ReplaceAll(string(productType), " ", "_")
}
