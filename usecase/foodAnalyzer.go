package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

// MaxFoodImageSize is the largest accepted food picture
const MaxFoodImageSize = 5 << 20

var (
	ErrAnalyzerDisabled = errors.New("food analysis is disabled")
	ErrInvalidImage     = errors.New("invalid image")
)

var acceptedImageTypes = []string{"image/jpeg", "image/png"}

// FoodAnalyzer recognizes the food items of a picture
type FoodAnalyzer struct {
	logger  *log.Logger
	labeler ImageLabeler
}

// NewFoodAnalyzer returns an analyzer, a nil labeler disables the analysis
func NewFoodAnalyzer(logger *log.Logger, labeler ImageLabeler) *FoodAnalyzer {
	return &FoodAnalyzer{logger: logger, labeler: labeler}
}

func (f *FoodAnalyzer) Analyze(ctx context.Context, image []byte) (*schema.FoodAnalysis, error) {
	if f.labeler == nil {
		return nil, ErrAnalyzerDisabled
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if len(image) > MaxFoodImageSize {
		return nil, fmt.Errorf("%w: %d bytes is above the limit", ErrInvalidImage, len(image))
	}
	contentType := http.DetectContentType(image)
	if !common.Contains(acceptedImageTypes, contentType) {
		return nil, fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}

	items, err := f.labeler.DetectLabels(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("food image analysis: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence > items[j].Confidence
	})
	if items == nil {
		items = []schema.FoodItem{}
	}
	return &schema.FoodAnalysis{Items: items}, nil
}
