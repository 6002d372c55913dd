package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atelierzuzka/backend/internal/pkg/ctxutil"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
)

// Client is the Chroma HTTP data-plane client. Collections hold
// (document, embedding, metadata) rows addressed by caller-chosen ids;
// queries are nearest-neighbor with an optional metadata filter.
type Client interface {
	EnsureCollection(ctx context.Context, name string) (string, error)
	Add(ctx context.Context, collectionID string, docs []Document) error
	Query(ctx context.Context, collectionID string, embedding []float32, nResults int, where map[string]any) (*QueryResult, error)
	Get(ctx context.Context, collectionID string, ids []string) ([]Document, error)
	List(ctx context.Context, collectionID string) ([]Document, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Document struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]any
}

// QueryResult holds the flattened result set for a single query
// embedding, aligned by index. Distances are the store's metric
// (lower is closer).
type QueryResult struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]any
	Distances []float64
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("client", "ChromaClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chroma %s %s http %d: %s", method, path, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("chroma decode %s: %w", path, err)
	}
	return nil
}

// -------------------- Collections --------------------

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *client) EnsureCollection(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("collection name required")
	}

	body := map[string]any{
		"name":          name,
		"get_or_create": true,
	}
	var out collectionResponse
	if err := c.doJSON(ctx, "POST", "/api/v1/collections", body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", fmt.Errorf("chroma get_or_create returned empty collection id for %q", name)
	}
	return out.ID, nil
}

// -------------------- Documents --------------------

func (c *client) Add(ctx context.Context, collectionID string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(docs))
	texts := make([]string, 0, len(docs))
	embeddings := make([][]float32, 0, len(docs))
	metadatas := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("document id required")
		}
		ids = append(ids, d.ID)
		texts = append(texts, d.Text)
		embeddings = append(embeddings, d.Embedding)
		meta := d.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		metadatas = append(metadatas, meta)
	}

	body := map[string]any{
		"ids":        ids,
		"documents":  texts,
		"embeddings": embeddings,
		"metadatas":  metadatas,
	}
	return c.doJSON(ctx, "POST", "/api/v1/collections/"+collectionID+"/upsert", body, nil)
}

type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

func (c *client) Query(ctx context.Context, collectionID string, embedding []float32, nResults int, where map[string]any) (*QueryResult, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding required")
	}
	if nResults <= 0 {
		nResults = 5
	}

	body := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        nResults,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if len(where) > 0 {
		body["where"] = where
	}

	var resp queryResponse
	if err := c.doJSON(ctx, "POST", "/api/v1/collections/"+collectionID+"/query", body, &resp); err != nil {
		return nil, err
	}

	out := &QueryResult{}
	if len(resp.IDs) > 0 {
		out.IDs = resp.IDs[0]
	}
	if len(resp.Documents) > 0 {
		out.Documents = resp.Documents[0]
	}
	if len(resp.Metadatas) > 0 {
		out.Metadatas = resp.Metadatas[0]
	}
	if len(resp.Distances) > 0 {
		out.Distances = resp.Distances[0]
	}
	return out, nil
}

type getResponse struct {
	IDs       []string         `json:"ids"`
	Documents []string         `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
}

func (c *client) Get(ctx context.Context, collectionID string, ids []string) ([]Document, error) {
	body := map[string]any{
		"include": []string{"documents", "metadatas"},
	}
	if len(ids) > 0 {
		body["ids"] = ids
	}

	var resp getResponse
	if err := c.doJSON(ctx, "POST", "/api/v1/collections/"+collectionID+"/get", body, &resp); err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(resp.IDs))
	for i, id := range resp.IDs {
		doc := Document{ID: id}
		if i < len(resp.Documents) {
			doc.Text = resp.Documents[i]
		}
		if i < len(resp.Metadatas) {
			doc.Metadata = resp.Metadatas[i]
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *client) List(ctx context.Context, collectionID string) ([]Document, error) {
	return c.Get(ctx, collectionID, nil)
}
