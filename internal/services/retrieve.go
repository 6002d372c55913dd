package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atelierzuzka/backend/internal/clients/chroma"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/types"
	"github.com/atelierzuzka/backend/internal/utils"
)

// Embedder produces one embedding vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

const (
	defaultRagThreshold  = 0.25
	defaultRagTopK       = 5
	fallbackEmbeddingDim = 384

	storeInitTimeout = 15 * time.Second
)

// TemplateStore wraps one Chroma collection of description templates.
// Embedding failures degrade to a zero vector so a dead embedding
// backend never blocks writes; reads treat that vector as unmatched.
type TemplateStore struct {
	log          *logger.Logger
	store        chroma.Client
	embedder     Embedder
	collection   string
	collectionID string
}

func NewTemplateStore(log *logger.Logger, store chroma.Client, embedder Embedder, collection string) (*TemplateStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("chroma client required")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, fmt.Errorf("collection name required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeInitTimeout)
	defer cancel()
	id, err := store.EnsureCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("ensure collection %q: %w", collection, err)
	}

	return &TemplateStore{
		log:          log.With("service", "TemplateStore", "collection", collection),
		store:        store,
		embedder:     embedder,
		collection:   collection,
		collectionID: id,
	}, nil
}

// EmbedText returns the embedding for one text, or a zero vector when
// no embedder is wired or the call fails.
func (s *TemplateStore) EmbedText(ctx context.Context, text string) []float32 {
	if s.embedder != nil {
		vectors, err := s.embedder.Embed(ctx, []string{text})
		if err == nil && len(vectors) == 1 && len(vectors[0]) > 0 {
			return vectors[0]
		}
		if err != nil {
			s.log.Warn("embedding failed, using zero vector", "error", err)
		}
	}
	return make([]float32, fallbackEmbeddingDim)
}

func (s *TemplateStore) Upsert(ctx context.Context, docs []chroma.Document) error {
	return s.store.Add(ctx, s.collectionID, docs)
}

func (s *TemplateStore) Query(ctx context.Context, embedding []float32, topK int, where map[string]any) (*chroma.QueryResult, error) {
	return s.store.Query(ctx, s.collectionID, embedding, topK, where)
}

func (s *TemplateStore) Get(ctx context.Context, ids []string) ([]chroma.Document, error) {
	return s.store.Get(ctx, s.collectionID, ids)
}

func (s *TemplateStore) List(ctx context.Context) ([]chroma.Document, error) {
	return s.store.List(ctx, s.collectionID)
}

// TemplateRetriever finds the closest stored template for a tag set.
// Any backend failure degrades to an unmatched result; drafting then
// proceeds on the mandatory structure template.
type TemplateRetriever struct {
	log       *logger.Logger
	store     *TemplateStore
	threshold float64
	topK      int
}

func NewTemplateRetriever(log *logger.Logger, store *TemplateStore) (*TemplateRetriever, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("template store required")
	}
	return &TemplateRetriever{
		log:       log.With("service", "TemplateRetriever"),
		store:     store,
		threshold: utils.GetEnvAsFloat("RAG_DISTANCE_THRESHOLD", defaultRagThreshold, log),
		topK:      utils.GetEnvAsInt("RAG_TOP_K", defaultRagTopK, log),
	}, nil
}

func (r *TemplateRetriever) Threshold() float64 { return r.threshold }

// BuildQueryText renders the retrieval key: the category followed by
// the comma-joined tags. Untranslated markers are stripped so English
// leftovers do not skew the embedding.
func BuildQueryText(productType types.ProductType, tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimSuffix(tag, untranslatedMarker))
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	cleaned = dedupe(cleaned)
	if len(cleaned) == 0 {
		return string(productType)
	}
	return fmt.Sprintf("%s | %s", productType, strings.Join(cleaned, ", "))
}

// Retrieve queries the template collection filtered to the product
// category and returns the nearest hit. Matched is true only when the
// best distance is within the threshold.
func (r *TemplateRetriever) Retrieve(ctx context.Context, productType types.ProductType, tags []string) types.RetrievalResult {
	queryText := BuildQueryText(productType, tags)
	result := types.RetrievalResult{QueryText: queryText}

	embedding := r.store.EmbedText(ctx, queryText)
	result.Embedding = embedding
	if isZeroVector(embedding) {
		r.log.Warn("zero query embedding, skipping retrieval", "query", queryText)
		return result
	}

	where := map[string]any{"product_type": string(productType)}
	hits, err := r.store.Query(ctx, embedding, r.topK, where)
	if err != nil {
		r.log.Warn("template query failed", "error", err)
		return result
	}
	if hits == nil || len(hits.IDs) == 0 {
		return result
	}

	best := 0
	for i := range hits.Distances {
		if hits.Distances[i] < hits.Distances[best] {
			best = i
		}
	}
	if best < len(hits.Documents) {
		result.Template = hits.Documents[best]
	}
	if best < len(hits.Distances) {
		d := hits.Distances[best]
		result.Distance = &d
		result.Matched = d <= r.threshold && strings.TrimSpace(result.Template) != ""
	}
	return result
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
