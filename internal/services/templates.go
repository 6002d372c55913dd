package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atelierzuzka/backend/internal/clients/chroma"
	apperrors "github.com/atelierzuzka/backend/internal/pkg/errors"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/repos"
	"github.com/atelierzuzka/backend/internal/types"
	"github.com/atelierzuzka/backend/internal/utils"
)

const defaultPriceThreshold = 0.6

// TemplateAdminService manages the product-template collection: admin
// curated descriptions tied to catalog products. It also powers price
// suggestion, which looks up the nearest priced product template.
type TemplateAdminService struct {
	log            *logger.Logger
	store          *TemplateStore
	products       repos.ProductRepo
	priceThreshold float64
}

// TemplateRecord is the admin-facing view of one stored template.
type TemplateRecord struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	ProductType string   `json:"product_type,omitempty"`
	ProductID   string   `json:"product_id,omitempty"`
	Source      string   `json:"source,omitempty"`
	PriceCZK    *float64 `json:"price_czk,omitempty"`
}

func NewTemplateAdminService(log *logger.Logger, store *TemplateStore, products repos.ProductRepo) (*TemplateAdminService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("template store required")
	}
	return &TemplateAdminService{
		log:            log.With("service", "TemplateAdminService"),
		store:          store,
		products:       products,
		priceThreshold: utils.GetEnvAsFloat("PRICE_DISTANCE_THRESHOLD", defaultPriceThreshold, log),
	}, nil
}

// StoreTemplateForProduct snapshots a product's published description
// as a reusable template. Each call writes a fresh id, so a product can
// accumulate template versions over time.
func (s *TemplateAdminService) StoreTemplateForProduct(ctx context.Context, productID uuid.UUID) (*TemplateRecord, error) {
	if s.products == nil {
		return nil, fmt.Errorf("product repository: %w", apperrors.ErrNotConfigured)
	}

	product, err := s.products.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	text := strings.TrimSpace(product.Description)
	if text == "" {
		return nil, fmt.Errorf("product %s has no description", productID)
	}

	var name, slug string
	if product.Category != nil {
		name = product.Category.Name
		slug = product.Category.Slug
	}
	productType := CategoryToProductType(name, slug)

	id := fmt.Sprintf("tpl_%s_%s", productID, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	meta := map[string]any{
		"product_type": string(productType),
		"product_id":   productID.String(),
		"source":       "product",
	}
	if product.PriceCZK != nil {
		meta["price_czk"] = *product.PriceCZK
	}

	doc := chroma.Document{
		ID:        id,
		Text:      text,
		Embedding: s.store.EmbedText(ctx, text),
		Metadata:  meta,
	}
	if err := s.store.Upsert(ctx, []chroma.Document{doc}); err != nil {
		return nil, fmt.Errorf("store product template: %w", err)
	}

	s.log.Info("product template stored", "id", id, "product_id", productID)
	return &TemplateRecord{
		ID:          id,
		Text:        text,
		ProductType: string(productType),
		ProductID:   productID.String(),
		Source:      "product",
		PriceCZK:    product.PriceCZK,
	}, nil
}

// ListTemplates returns every stored product template.
func (s *TemplateAdminService) ListTemplates(ctx context.Context) ([]TemplateRecord, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	records := make([]TemplateRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, recordFromDocument(d))
	}
	return records, nil
}

// CategoryDefault returns the newest stored template for a category, or
// empty when none exists. Used as a soft style reference when retrieval
// finds no close match.
func (s *TemplateAdminService) CategoryDefault(ctx context.Context, productType types.ProductType) string {
	docs, err := s.store.List(ctx)
	if err != nil {
		s.log.Warn("category default lookup failed", "error", err)
		return ""
	}
	for i := len(docs) - 1; i >= 0; i-- {
		if metaString(docs[i].Metadata, "product_type") == string(productType) {
			return docs[i].Text
		}
	}
	return ""
}

// SuggestPrice looks up the single template nearest to the query text
// and returns its price. No suggestion is made when that hit is farther
// than the price threshold or carries no price; a farther template is
// never consulted.
func (s *TemplateAdminService) SuggestPrice(ctx context.Context, productType types.ProductType, tags []string) (*float64, error) {
	queryText := BuildQueryText(productType, tags)
	embedding := s.store.EmbedText(ctx, queryText)
	if isZeroVector(embedding) {
		return nil, nil
	}

	where := map[string]any{"product_type": string(productType)}
	hits, err := s.store.Query(ctx, embedding, 1, where)
	if err != nil {
		return nil, fmt.Errorf("price query: %w", err)
	}
	if hits == nil || len(hits.IDs) == 0 {
		return nil, nil
	}
	if len(hits.Distances) == 0 || hits.Distances[0] > s.priceThreshold {
		return nil, nil
	}
	if len(hits.Metadatas) == 0 {
		return nil, nil
	}
	if price, ok := metaFloat(hits.Metadatas[0], "price_czk"); ok {
		return &price, nil
	}
	return nil, nil
}

func recordFromDocument(d chroma.Document) TemplateRecord {
	rec := TemplateRecord{
		ID:          d.ID,
		Text:        d.Text,
		ProductType: metaString(d.Metadata, "product_type"),
		ProductID:   metaString(d.Metadata, "product_id"),
		Source:      metaString(d.Metadata, "source"),
	}
	if price, ok := metaFloat(d.Metadata, "price_czk"); ok {
		rec.PriceCZK = &price
	}
	return rec
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaFloat(meta map[string]any, key string) (float64, bool) {
	if meta == nil {
		return 0, false
	}
	switch v := meta[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}
