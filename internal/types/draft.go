package types

// ProductType is the closed set of catalog categories the drafting
// pipeline can classify an image into.
type ProductType string

const (
	ProductTypeBracelet    ProductType = "bracelet"
	ProductTypeCandle      ProductType = "candle"
	ProductTypeNecklace    ProductType = "necklace"
	ProductTypeEarrings    ProductType = "earrings"
	ProductTypeDecor       ProductType = "decor"
	ProductTypeKeychain    ProductType = "keychain"
	ProductTypeSticker     ProductType = "sticker"
	ProductTypeGiftCard    ProductType = "gift card"
	ProductTypeGiftVoucher ProductType = "gift voucher"
	ProductTypeOther       ProductType = "other"
)

// RagStatus records how the final draft relates to the template store.
type RagStatus string

const (
	RagStatusAdapted   RagStatus = "adapted"
	RagStatusNewSaved  RagStatus = "new_saved"
	RagStatusNewFailed RagStatus = "new_failed"
)

// DraftCandidate is the ephemeral output of one generation attempt,
// split into title (first line) and description (remainder). It is
// never returned to callers without passing validation.
type DraftCandidate struct {
	Title       string
	Description string
}

// RetrievalResult is the outcome of one template-store lookup.
// Matched is true only when a template exists and its distance is at
// or below the retrieval threshold.
type RetrievalResult struct {
	Template  string
	Distance  *float64
	Matched   bool
	QueryText string
	Embedding []float32
}

// Draft is the final record produced by the drafting pipeline.
type Draft struct {
	ProductType       ProductType `json:"product_type"`
	CombinedTags      []string    `json:"combined_tags"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	SuggestedPriceCZK *float64    `json:"suggested_price_czk,omitempty"`
	SeoTitle          *string     `json:"seo_title,omitempty"`
	SeoDescription    *string     `json:"seo_description,omitempty"`
	SeoKeywords       *string     `json:"seo_keywords,omitempty"`
	ImageCount        int         `json:"image_count"`
	RagMatched        bool        `json:"rag_matched"`
	RagDistance       *float64    `json:"rag_distance,omitempty"`
	RagThreshold      float64     `json:"rag_threshold"`
	RagStatus         RagStatus   `json:"rag_status"`
	RagSaved          bool        `json:"rag_saved"`
}
