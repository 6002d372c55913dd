package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierzuzka/backend/internal/repos"
	"github.com/atelierzuzka/backend/internal/types"
)

type fakeProductRepo struct {
	products []*types.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("product %s not found", id)
}

func (f *fakeProductRepo) ListDescribed(ctx context.Context, tx *gorm.DB) ([]*types.Product, error) {
	return f.products, nil
}

func describedProduct(category, slug, description string, price *float64) *types.Product {
	return &types.Product{
		ID:          uuid.New(),
		Name:        "test product",
		Description: description,
		PriceCZK:    price,
		Active:      true,
		Category:    &types.Category{ID: uuid.New(), Name: category, Slug: slug},
	}
}

func newTestCurator(t *testing.T, store *fakeVectorStore, products *fakeProductRepo) *TemplateCurator {
	t.Helper()
	ts, err := NewTemplateStore(testLogger(t), store, &fakeEmbedder{}, "rag_templates")
	if err != nil {
		t.Fatalf("template store init: %v", err)
	}
	var repo repos.ProductRepo
	if products != nil {
		repo = products
	}
	c, err := NewTemplateCurator(testLogger(t), ts, repo)
	if err != nil {
		t.Fatalf("curator init: %v", err)
	}
	return c
}

func TestSaveAutoTemplate(t *testing.T) {
	store := newFakeVectorStore()
	c := newTestCurator(t, store, nil)

	retrieval := types.RetrievalResult{
		QueryText: "bracelet | motýl, modrá",
		Embedding: []float32{0.1, 0.2, 0.3},
	}
	id, err := c.SaveAutoTemplate(context.Background(), types.ProductTypeBracelet, validTitle, validDescription, []string{"motýl", "modrá"}, retrieval)
	if err != nil {
		t.Fatalf("SaveAutoTemplate: %v", err)
	}
	if !strings.HasPrefix(id, "auto_bracelet_") {
		t.Fatalf("id = %q, want auto_bracelet_ prefix", id)
	}

	docs := store.docs["col-rag_templates"]
	if len(docs) != 1 {
		t.Fatalf("stored %d docs, want 1", len(docs))
	}
	doc := docs[0]
	if doc.Text != validTitle+"\n\n"+validDescription {
		t.Fatalf("stored text = %q, want title and description joined by a blank line", doc.Text)
	}
	if doc.Metadata["product_type"] != "bracelet" || doc.Metadata["source"] != "auto" {
		t.Fatalf("metadata = %v", doc.Metadata)
	}
	if doc.Metadata["query_text"] != retrieval.QueryText {
		t.Fatalf("query text not carried: %v", doc.Metadata)
	}
	if len(doc.Embedding) != 3 {
		t.Fatalf("retrieval embedding not reused: %v", doc.Embedding)
	}
}

func TestSaveAutoTemplateSpacedCategoryID(t *testing.T) {
	store := newFakeVectorStore()
	c := newTestCurator(t, store, nil)

	id, err := c.SaveAutoTemplate(context.Background(), types.ProductTypeGiftCard, validTitle, validDescription, nil, types.RetrievalResult{})
	if err != nil {
		t.Fatalf("SaveAutoTemplate: %v", err)
	}
	if !strings.HasPrefix(id, "auto_gift_card_") {
		t.Fatalf("id = %q, want auto_gift_card_ prefix", id)
	}
}

func TestSaveAutoTemplateRejectsEmpty(t *testing.T) {
	c := newTestCurator(t, newFakeVectorStore(), nil)
	if _, err := c.SaveAutoTemplate(context.Background(), types.ProductTypeBracelet, "", "   ", nil, types.RetrievalResult{}); err == nil {
		t.Fatal("expected error for empty template text")
	}
}

func TestSeedFromCatalog(t *testing.T) {
	products := &fakeProductRepo{products: []*types.Product{
		describedProduct("Náramky", "naramky", "První náramek z korálků, ručně navlékaný.", nil),
		describedProduct("Náramky", "naramky", "Druhý náramek, nesmí přepsat první.", nil),
		describedProduct("Svíčky", "svicky", "Sojová svíčka s vůní levandule, ručně litá.", nil),
	}}

	store := newFakeVectorStore()
	c := newTestCurator(t, store, products)

	count, err := c.SeedFromCatalog(context.Background())
	if err != nil {
		t.Fatalf("SeedFromCatalog: %v", err)
	}
	if count != 2 {
		t.Fatalf("seeded %d, want 2 (one per category)", count)
	}

	docs := store.docs["col-rag_templates"]
	byID := make(map[string]string, len(docs))
	for _, d := range docs {
		byID[d.ID] = d.Text
	}
	if byID["template_bracelet"] != "První náramek z korálků, ručně navlékaný." {
		t.Fatalf("bracelet seed = %q", byID["template_bracelet"])
	}
	if _, ok := byID["template_candle"]; !ok {
		t.Fatal("candle seed missing")
	}
}

func TestSeedFromCatalogWithoutRepo(t *testing.T) {
	c := newTestCurator(t, newFakeVectorStore(), nil)
	if _, err := c.SeedFromCatalog(context.Background()); err == nil {
		t.Fatal("expected error without product repository")
	}
}
