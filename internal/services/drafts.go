package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/atelierzuzka/backend/internal/clients/gcp"
	"github.com/atelierzuzka/backend/internal/clients/redis"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/types"
)

// DraftRequest is one drafting call: product photos plus an optional
// category hint that overrides tag-based classification.
type DraftRequest struct {
	Images       [][]byte
	CategoryHint string
}

// DraftService runs the full drafting pipeline: vision tagging,
// translation, classification, template retrieval, generation with
// validation, template curation, SEO derivation, and price suggestion.
// Vision, cache, retriever, curator, and admin wiring are all optional;
// the service degrades to deterministic drafting when they are absent.
type DraftService struct {
	log        *logger.Logger
	vision     gcp.Vision
	tagCache   redis.TagCache
	retriever  *TemplateRetriever
	controller *GenerationController
	curator    *TemplateCurator
	admin      *TemplateAdminService
	fallback   DeterministicDraftBuilder
}

func NewDraftService(
	log *logger.Logger,
	vision gcp.Vision,
	tagCache redis.TagCache,
	retriever *TemplateRetriever,
	controller *GenerationController,
	curator *TemplateCurator,
	admin *TemplateAdminService,
) (*DraftService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if controller == nil {
		return nil, fmt.Errorf("generation controller required")
	}
	return &DraftService{
		log:        log.With("service", "DraftService"),
		vision:     vision,
		tagCache:   tagCache,
		retriever:  retriever,
		controller: controller,
		curator:    curator,
		admin:      admin,
	}, nil
}

// BuildDraft tags the supplied images and drafts a description from the
// combined tag set.
func (s *DraftService) BuildDraft(ctx context.Context, req DraftRequest) (*types.Draft, error) {
	rawTags := s.collectTags(ctx, req.Images)
	draft, err := s.buildFromRawTags(ctx, rawTags, req.CategoryHint)
	if err != nil {
		return nil, err
	}
	draft.ImageCount = len(req.Images)
	return draft, nil
}

// BuildDraftFromTags drafts a description from caller-supplied raw
// tags, skipping the vision step. Used for re-drafting and testing
// against known tag sets.
func (s *DraftService) BuildDraftFromTags(ctx context.Context, rawTags []string, categoryHint string) (*types.Draft, error) {
	return s.buildFromRawTags(ctx, rawTags, categoryHint)
}

func (s *DraftService) buildFromRawTags(ctx context.Context, rawTags []string, categoryHint string) (*types.Draft, error) {
	rawTags = dedupe(rawTags)
	// Two raw labels can map to one Czech word, so the combined tags
	// are de-duplicated again after translation.
	czTags := dedupe(TranslateTags(rawTags))

	productType, hinted := ParseProductType(categoryHint)
	if !hinted {
		productType = DetectProductType(czTags)
	}

	threshold := defaultRagThreshold
	if s.retriever != nil {
		threshold = s.retriever.Threshold()
	}

	if len(czTags) == 0 {
		candidate := s.fallback.BuildStructuredDraft(productType, nil)
		return s.assemble(ctx, productType, nil, nil, GenerationResult{
			Title:        candidate.Title,
			Description:  candidate.Description,
			UsedFallback: true,
		}, types.RetrievalResult{}, threshold), nil
	}

	var retrieval types.RetrievalResult
	if s.retriever != nil {
		retrieval = s.retriever.Retrieve(ctx, productType, czTags)
	} else {
		retrieval = types.RetrievalResult{QueryText: BuildQueryText(productType, czTags)}
	}

	categoryDefault := ""
	if !retrieval.Matched && s.admin != nil {
		categoryDefault = s.admin.CategoryDefault(ctx, productType)
	}

	result := s.controller.Generate(ctx, GenerationInput{
		ProductType:             productType,
		Tags:                    czTags,
		RawTags:                 rawTags,
		Retrieval:               retrieval,
		CategoryDefaultTemplate: categoryDefault,
	})

	return s.assemble(ctx, productType, czTags, rawTags, result, retrieval, threshold), nil
}

func (s *DraftService) assemble(ctx context.Context, productType types.ProductType, czTags, rawTags []string, result GenerationResult, retrieval types.RetrievalResult, threshold float64) *types.Draft {
	title := result.Title
	if !containsEmoji(title) {
		title = emojiForTags(filterTags(czTags)) + " " + title
	}

	status := types.RagStatusAdapted
	saved := false
	if !result.Adapted {
		status = types.RagStatusNewFailed
		if s.curator != nil {
			if _, err := s.curator.SaveAutoTemplate(ctx, productType, title, result.Description, czTags, retrieval); err != nil {
				s.log.Warn("auto template save failed", "error", err)
			} else {
				status = types.RagStatusNewSaved
				saved = true
			}
		}
	}

	seo := BuildSeoFields(title, result.Description, czTags)

	draft := &types.Draft{
		ProductType:  productType,
		CombinedTags: czTags,
		Title:        title,
		Description:  result.Description,
		RagMatched:   retrieval.Matched,
		RagDistance:  retrieval.Distance,
		RagThreshold: threshold,
		RagStatus:    status,
		RagSaved:     saved,
	}
	if seo.Title != "" {
		draft.SeoTitle = &seo.Title
	}
	if seo.Description != "" {
		draft.SeoDescription = &seo.Description
	}
	if seo.Keywords != "" {
		draft.SeoKeywords = &seo.Keywords
	}

	if s.admin != nil {
		price, err := s.admin.SuggestPrice(ctx, productType, czTags)
		if err != nil {
			s.log.Warn("price suggestion failed", "error", err)
		} else {
			draft.SuggestedPriceCZK = price
		}
	}
	return draft
}

// collectTags labels each image, consulting the tag cache by content
// hash before calling the vision API. A missing or failing tagger
// degrades to fewer (or no) tags; the pipeline downstream still
// produces a draft.
func (s *DraftService) collectTags(ctx context.Context, images [][]byte) []string {
	if len(images) == 0 {
		return nil
	}
	if s.vision == nil {
		s.log.Warn("vision tagging not configured, drafting without image tags")
		return nil
	}

	combined := make([]string, 0)
	for i, img := range images {
		if len(img) == 0 {
			continue
		}

		sum := sha256.Sum256(img)
		key := hex.EncodeToString(sum[:])

		if s.tagCache != nil {
			if tags, found, err := s.tagCache.GetTags(ctx, key); err != nil {
				s.log.Warn("tag cache read failed", "error", err)
			} else if found {
				combined = append(combined, tags...)
				continue
			}
		}

		labeled, err := s.vision.LabelImageBytes(ctx, img)
		if err != nil {
			s.log.Warn("image labeling failed, skipping image", "image", i+1, "error", err)
			continue
		}
		tags := gcp.NormalizeTags(labeled)
		combined = append(combined, tags...)

		if s.tagCache != nil {
			if err := s.tagCache.SetTags(ctx, key, tags); err != nil {
				s.log.Warn("tag cache write failed", "error", err)
			}
		}
	}
	return dedupe(combined)
}
