package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/atelierzuzka/backend/internal/clients/chroma"
	"github.com/atelierzuzka/backend/internal/clients/gcp"
	"github.com/atelierzuzka/backend/internal/clients/redis"
	"github.com/atelierzuzka/backend/internal/types"
)

type fakeVision struct {
	labels []string
	calls  int
}

func (f *fakeVision) LabelImageBytes(ctx context.Context, img []byte) (*gcp.VisionLabelResult, error) {
	f.calls++
	out := &gcp.VisionLabelResult{Provider: "fake"}
	for _, l := range f.labels {
		out.Labels = append(out.Labels, gcp.VisionLabel{Description: l, Score: 0.9})
	}
	return out, nil
}

func (f *fakeVision) Close() error { return nil }

type memoryTagCache struct {
	data map[string][]string
	hits int
}

func newMemoryTagCache() *memoryTagCache {
	return &memoryTagCache{data: make(map[string][]string)}
}

func (m *memoryTagCache) GetTags(ctx context.Context, key string) ([]string, bool, error) {
	tags, ok := m.data[key]
	if ok {
		m.hits++
	}
	return tags, ok, nil
}

func (m *memoryTagCache) SetTags(ctx context.Context, key string, tags []string) error {
	m.data[key] = tags
	return nil
}

func (m *memoryTagCache) Close() error { return nil }

type draftFixture struct {
	service *DraftService
	store   *fakeVectorStore
	gen     *scriptedGenerator
}

func newDraftFixture(t *testing.T, store *fakeVectorStore, gen *scriptedGenerator, vision gcp.Vision, cache *memoryTagCache) *draftFixture {
	t.Helper()
	log := testLogger(t)

	ts, err := NewTemplateStore(log, store, &fakeEmbedder{}, "rag_templates")
	if err != nil {
		t.Fatalf("template store init: %v", err)
	}
	retriever, err := NewTemplateRetriever(log, ts)
	if err != nil {
		t.Fatalf("retriever init: %v", err)
	}
	curator, err := NewTemplateCurator(log, ts, nil)
	if err != nil {
		t.Fatalf("curator init: %v", err)
	}
	var generator TextGenerator
	if gen != nil {
		generator = gen
	}
	controller, err := NewGenerationController(log, generator)
	if err != nil {
		t.Fatalf("controller init: %v", err)
	}

	var tagCache redis.TagCache
	if cache != nil {
		tagCache = cache
	}

	svc, err := NewDraftService(log, vision, tagCache, retriever, controller, curator, nil)
	if err != nil {
		t.Fatalf("draft service init: %v", err)
	}
	return &draftFixture{service: svc, store: store, gen: gen}
}

func TestBuildDraftFromTagsEndToEnd(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validRawResponse}}
	fx := newDraftFixture(t, newFakeVectorStore(), gen, nil, nil)

	draft, err := fx.service.BuildDraftFromTags(context.Background(), []string{"bracelet", "blue", "beads"}, "")
	if err != nil {
		t.Fatalf("BuildDraftFromTags: %v", err)
	}

	if draft.ProductType != types.ProductTypeBracelet {
		t.Fatalf("product type = %q", draft.ProductType)
	}
	if !strings.Contains(strings.ToLower(draft.Title), "náramek") {
		t.Fatalf("title = %q", draft.Title)
	}
	if !containsEmoji(draft.Title) {
		t.Fatalf("title missing emoji: %q", draft.Title)
	}
	if len(draft.CombinedTags) != 3 || draft.CombinedTags[0] != "náramek" {
		t.Fatalf("combined tags = %v", draft.CombinedTags)
	}
	if draft.RagMatched {
		t.Fatal("empty store must not match")
	}
	if draft.RagThreshold != 0.25 {
		t.Fatalf("threshold = %v", draft.RagThreshold)
	}
	if draft.RagStatus != types.RagStatusNewSaved || !draft.RagSaved {
		t.Fatalf("status = %q saved = %v", draft.RagStatus, draft.RagSaved)
	}
	savedDocs := fx.store.docs["col-rag_templates"]
	if len(savedDocs) != 1 {
		t.Fatal("new description not saved as template")
	}
	if !strings.HasPrefix(savedDocs[0].Text, draft.Title+"\n\n") {
		t.Fatalf("saved template must carry the title line, got %q", savedDocs[0].Text)
	}
	if draft.SeoTitle == nil || containsEmoji(*draft.SeoTitle) {
		t.Fatalf("seo title = %v", draft.SeoTitle)
	}
	if draft.SeoKeywords == nil || !strings.HasPrefix(*draft.SeoKeywords, "náramek") {
		t.Fatalf("seo keywords = %v", draft.SeoKeywords)
	}
}

func TestBuildDraftFromTagsAdaptedTemplate(t *testing.T) {
	store := newFakeVectorStore()
	store.queryResult = &chroma.QueryResult{
		IDs:       []string{"template_bracelet"},
		Documents: []string{"💎 Styl: zcela jiná šablona o svíčkách ze sojového vosku, ručně litá do skleněné dózy."},
		Metadatas: []map[string]any{{"product_type": "bracelet"}},
		Distances: []float64{0.1},
	}

	gen := &scriptedGenerator{responses: []string{validRawResponse}}
	fx := newDraftFixture(t, store, gen, nil, nil)

	draft, err := fx.service.BuildDraftFromTags(context.Background(), []string{"bracelet", "butterfly"}, "")
	if err != nil {
		t.Fatalf("BuildDraftFromTags: %v", err)
	}

	if !draft.RagMatched {
		t.Fatal("retrieval should match")
	}
	if draft.RagDistance == nil || *draft.RagDistance != 0.1 {
		t.Fatalf("distance = %v", draft.RagDistance)
	}
	if draft.RagStatus != types.RagStatusAdapted || draft.RagSaved {
		t.Fatalf("status = %q saved = %v", draft.RagStatus, draft.RagSaved)
	}
	if len(fx.store.docs["col-rag_templates"]) != 0 {
		t.Fatal("adapted drafts must not be saved back")
	}
}

func TestBuildDraftFromTagsEmptyInput(t *testing.T) {
	fx := newDraftFixture(t, newFakeVectorStore(), nil, nil, nil)

	draft, err := fx.service.BuildDraftFromTags(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("BuildDraftFromTags: %v", err)
	}
	if draft.ProductType != types.ProductTypeOther {
		t.Fatalf("product type = %q", draft.ProductType)
	}
	if draft.Title == "" || draft.Description == "" {
		t.Fatal("empty input must still produce a complete draft")
	}
	if draft.RagStatus != types.RagStatusNewSaved || !draft.RagSaved {
		t.Fatalf("status = %q saved = %v", draft.RagStatus, draft.RagSaved)
	}
	if len(fx.store.docs["col-rag_templates"]) != 1 {
		t.Fatal("structured fallback draft must be saved as a template")
	}
}

func TestBuildDraftFromTagsDeduplicatesTranslatedTags(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validRawResponse}}
	fx := newDraftFixture(t, newFakeVectorStore(), gen, nil, nil)

	draft, err := fx.service.BuildDraftFromTags(context.Background(), []string{"glitter", "sparkle", "bracelet"}, "")
	if err != nil {
		t.Fatalf("BuildDraftFromTags: %v", err)
	}
	want := []string{"třpyt", "náramek"}
	if !reflect.DeepEqual(draft.CombinedTags, want) {
		t.Fatalf("combined tags = %v, want %v", draft.CombinedTags, want)
	}
}

func TestBuildDraftFromTagsCategoryHint(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		"🕯️ Sojová svíčka – svíčka\n\n✨ Popis produktu:\n- Ručně litá sojová svíčka s vůní levandule.\n- Hoří rovnoměrně a dlouho.\n\n💎 Styl: přírodní, jemný. Každý kus vzniká ručně a je proto originál.",
	}}
	fx := newDraftFixture(t, newFakeVectorStore(), gen, nil, nil)

	draft, err := fx.service.BuildDraftFromTags(context.Background(), []string{"wax", "flower"}, "candle")
	if err != nil {
		t.Fatalf("BuildDraftFromTags: %v", err)
	}
	if draft.ProductType != types.ProductTypeCandle {
		t.Fatalf("hint ignored: %q", draft.ProductType)
	}
}

func TestBuildDraftUsesVisionAndCache(t *testing.T) {
	vision := &fakeVision{labels: []string{"bracelet", "blue", "beads"}}
	cache := newMemoryTagCache()
	gen := &scriptedGenerator{responses: []string{validRawResponse, validRawResponse}}
	fx := newDraftFixture(t, newFakeVectorStore(), gen, vision, cache)

	img := []byte("fake-image-bytes")
	draft, err := fx.service.BuildDraft(context.Background(), DraftRequest{Images: [][]byte{img}})
	if err != nil {
		t.Fatalf("BuildDraft: %v", err)
	}
	if draft.ImageCount != 1 {
		t.Fatalf("image count = %d", draft.ImageCount)
	}
	if vision.calls != 1 {
		t.Fatalf("vision calls = %d, want 1", vision.calls)
	}

	// Same image again: served from cache.
	if _, err := fx.service.BuildDraft(context.Background(), DraftRequest{Images: [][]byte{img}}); err != nil {
		t.Fatalf("BuildDraft (cached): %v", err)
	}
	if vision.calls != 1 {
		t.Fatalf("vision called again despite cache: %d", vision.calls)
	}
	if cache.hits != 1 {
		t.Fatalf("cache hits = %d, want 1", cache.hits)
	}
}

func TestBuildDraftWithoutVisionDegrades(t *testing.T) {
	fx := newDraftFixture(t, newFakeVectorStore(), nil, nil, nil)
	draft, err := fx.service.BuildDraft(context.Background(), DraftRequest{Images: [][]byte{[]byte("x")}})
	if err != nil {
		t.Fatalf("BuildDraft: %v", err)
	}
	if draft.ProductType != types.ProductTypeOther {
		t.Fatalf("product type = %q", draft.ProductType)
	}
	if draft.Title == "" || draft.Description == "" {
		t.Fatal("missing vision must still yield a complete draft")
	}
}
