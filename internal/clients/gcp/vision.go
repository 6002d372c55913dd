package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/atelierzuzka/backend/internal/pkg/ctxutil"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
)

// Vision is the image tagger. Labels come back in the API's confidence
// order, which downstream classification depends on.
type Vision interface {
	LabelImageBytes(ctx context.Context, img []byte) (*VisionLabelResult, error)
	Close() error
}

type VisionLabel struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type VisionLabelResult struct {
	Provider string        `json:"provider"`
	Labels   []VisionLabel `json:"labels"`
}

type visionService struct {
	log *logger.Logger

	visionClient *vision.ImageAnnotatorClient
	maxResults   int
}

func NewVision(log *logger.Logger) (Vision, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Vision")

	ctx := context.Background()
	opts := ClientOptionsFromEnv()

	vClient, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	return &visionService{
		log:          slog,
		visionClient: vClient,
		maxResults:   15,
	}, nil
}

func (s *visionService) Close() error {
	if s == nil || s.visionClient == nil {
		return nil
	}
	return s.visionClient.Close()
}

func (s *visionService) LabelImageBytes(ctx context.Context, img []byte) (*VisionLabelResult, error) {
	if len(img) == 0 {
		return &VisionLabelResult{Provider: "gcp_vision"}, nil
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: int32(s.maxResults)},
		},
	}

	br := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{req}}
	resp, err := s.visionClient.BatchAnnotateImages(ctx, br)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return &VisionLabelResult{Provider: "gcp_vision"}, nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	labels := make([]VisionLabel, 0, len(r0.LabelAnnotations))
	for _, ann := range r0.LabelAnnotations {
		if ann == nil {
			continue
		}
		labels = append(labels, VisionLabel{
			Description: strings.ToLower(strings.TrimSpace(ann.Description)),
			Score:       float64(ann.Score),
		})
	}

	return &VisionLabelResult{Provider: "gcp_vision", Labels: labels}, nil
}

// NormalizeTags flattens a label result into trimmed lowercase tag
// strings, dropping empties and preserving confidence order.
func NormalizeTags(result *VisionLabelResult) []string {
	if result == nil {
		return nil
	}
	out := make([]string, 0, len(result.Labels))
	for _, l := range result.Labels {
		tag := strings.ToLower(strings.TrimSpace(l.Description))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
