package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/atelierzuzka/backend/internal/pkg/errors"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/services"
)

type TemplateHandler struct {
	log     *logger.Logger
	admin   *services.TemplateAdminService
	curator *services.TemplateCurator
}

func NewTemplateHandler(log *logger.Logger, admin *services.TemplateAdminService, curator *services.TemplateCurator) *TemplateHandler {
	return &TemplateHandler{
		log:     log.With("handler", "TemplateHandler"),
		admin:   admin,
		curator: curator,
	}
}

// GET /api/templates
// Lists stored product templates.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	if h.admin == nil {
		RespondError(c, http.StatusServiceUnavailable, "templates_unavailable", fmt.Errorf("template store not configured"))
		return
	}
	records, err := h.admin.ListTemplates(c.Request.Context())
	if err != nil {
		h.log.Error("template list failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "template_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"templates": records})
}

// POST /api/templates/products/:id
// Snapshots a product's published description as a reusable template.
func (h *TemplateHandler) StoreTemplateForProduct(c *gin.Context) {
	if h.admin == nil {
		RespondError(c, http.StatusServiceUnavailable, "templates_unavailable", fmt.Errorf("template store not configured"))
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}

	record, err := h.admin.StoreTemplateForProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotConfigured) {
			RespondError(c, http.StatusServiceUnavailable, "catalog_unavailable", err)
			return
		}
		h.log.Error("template store failed", "product_id", productID, "error", err)
		RespondError(c, http.StatusInternalServerError, "template_store_failed", err)
		return
	}
	RespondOK(c, record)
}

// POST /api/templates/seed
// Mines the catalog for one exemplar description per category.
func (h *TemplateHandler) SeedTemplates(c *gin.Context) {
	if h.curator == nil {
		RespondError(c, http.StatusServiceUnavailable, "templates_unavailable", fmt.Errorf("template curator not configured"))
		return
	}
	count, err := h.curator.SeedFromCatalog(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotConfigured) {
			RespondError(c, http.StatusServiceUnavailable, "catalog_unavailable", err)
			return
		}
		h.log.Error("template seed failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "template_seed_failed", err)
		return
	}
	RespondOK(c, gin.H{"seeded": count})
}

type priceSuggestRequest struct {
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
}

// POST /api/price/suggest
// Suggests a price from the nearest priced product template.
func (h *TemplateHandler) SuggestPrice(c *gin.Context) {
	if h.admin == nil {
		RespondError(c, http.StatusServiceUnavailable, "templates_unavailable", fmt.Errorf("template store not configured"))
		return
	}

	var req priceSuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	productType, ok := services.ParseProductType(req.Category)
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_category", fmt.Errorf("unknown category %q", req.Category))
		return
	}

	price, err := h.admin.SuggestPrice(c.Request.Context(), productType, req.Tags)
	if err != nil {
		h.log.Error("price suggestion failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "price_suggest_failed", err)
		return
	}
	RespondOK(c, gin.H{"suggested_price_czk": price})
}
