package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/usecase"
)

// FoodImageField is the multipart field holding the picture
const FoodImageField = "foodImage"

var errMissingFormFile = errors.New("form file not found")

// formFile returns the content of the first part named field of a multipart body
func formFile(res *common.HttpResponseWriter, field string) ([]byte, error) {
	mediaType, params, err := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("unexpected content type %s", mediaType)
	}
	reader := multipart.NewReader(bytes.NewReader(res.Body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s", errMissingFormFile, field)
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == field {
			return io.ReadAll(part)
		}
	}
}

// analyzeFood
// @Summary Recognize the food items of a picture
// @ID shape-logs-api-analyzefood
// @Accept mpfd
// @Produce json
// @Param foodImage formData file true "jpeg or png picture, 5 MiB max"
// @Success 200 {object} schema.FoodAnalysis
// @Failure 400 {object} common.DetailedError
// @Failure 503 {object} common.DetailedError
// @Security Auth0
// @Router /api/food/analyze [post]
func (a *API) analyzeFood(ctx context.Context, res *common.HttpResponseWriter) error {
	image, err := formFile(res, FoodImageField)
	if err != nil {
		return writeError(res, errorMissingImage, err)
	}

	common.TimeIt(ctx, "analyze")
	analysis, err := a.foodAnalyzer.Analyze(ctx, image)
	common.TimeEnd(ctx, "analyze")
	switch {
	case err == nil:
		return res.WriteJSON(http.StatusOK, analysis)
	case errors.Is(err, usecase.ErrAnalyzerDisabled):
		return writeError(res, errorAnalyzerDisabled, err)
	case errors.Is(err, usecase.ErrInvalidImage):
		return writeError(res, errorInvalidImage, err)
	default:
		return writeError(res, errorAnalyzerFailure, err)
	}
}
