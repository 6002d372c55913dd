package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/services"
)

const (
	maxDraftImages    = 6
	maxImageSizeBytes = 10 << 20
)

type DraftHandler struct {
	log          *logger.Logger
	draftService *services.DraftService
}

func NewDraftHandler(log *logger.Logger, draftService *services.DraftService) *DraftHandler {
	return &DraftHandler{
		log:          log.With("handler", "DraftHandler"),
		draftService: draftService,
	}
}

// POST /api/drafts
// Multipart upload: "images" files plus optional "category" form field.
// Tags the photos and returns a validated description draft.
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_multipart", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		RespondError(c, http.StatusBadRequest, "no_images", fmt.Errorf("at least one image is required"))
		return
	}
	if len(files) > maxDraftImages {
		RespondError(c, http.StatusBadRequest, "too_many_images", fmt.Errorf("at most %d images per draft", maxDraftImages))
		return
	}

	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "unreadable_image", err)
			return
		}
		images = append(images, data)
	}

	draft, err := h.draftService.BuildDraft(c.Request.Context(), services.DraftRequest{
		Images:       images,
		CategoryHint: c.PostForm("category"),
	})
	if err != nil {
		h.log.Error("draft build failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "draft_failed", err)
		return
	}
	RespondOK(c, draft)
}

type draftFromTagsRequest struct {
	Tags     []string `json:"tags" binding:"required"`
	Category string   `json:"category"`
}

// POST /api/drafts/from-tags
// Drafts from a known tag set, skipping the vision step.
func (h *DraftHandler) CreateDraftFromTags(c *gin.Context) {
	var req draftFromTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	draft, err := h.draftService.BuildDraftFromTags(c.Request.Context(), req.Tags, req.Category)
	if err != nil {
		h.log.Error("draft build failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "draft_failed", err)
		return
	}
	RespondOK(c, draft)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxImageSizeBytes {
		return nil, fmt.Errorf("image %q exceeds %d bytes", fh.Filename, maxImageSizeBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImageSizeBytes))
}
