package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/mdblp/shape-logs/schema"
)

const (
	maxFoodLabels      = 10
	minLabelConfidence = 70
)

// DetectLabelsAPI is the part of the rekognition client used to label pictures
type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionLabeler names the food items of a picture with AWS Rekognition
type RekognitionLabeler struct {
	client DetectLabelsAPI
}

func NewRekognitionLabeler(client DetectLabelsAPI) *RekognitionLabeler {
	return &RekognitionLabeler{client: client}
}

func (r *RekognitionLabeler) DetectLabels(ctx context.Context, image []byte) ([]schema.FoodItem, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(maxFoodLabels),
		MinConfidence: aws.Float32(minLabelConfidence),
	})
	if err != nil {
		return nil, err
	}
	items := make([]schema.FoodItem, 0, len(out.Labels))
	for _, label := range out.Labels {
		if label.Name == nil {
			continue
		}
		items = append(items, schema.FoodItem{
			Name:       *label.Name,
			Confidence: float64(aws.ToFloat32(label.Confidence)),
		})
	}
	return items, nil
}
