package infrastructure

import (
	"bytes"
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/mdblp/shape-logs/schema"
)

// MockDbAdapter use for unit tests
type MockDbAdapter struct {
	PingError bool
}

func NewMockDbAdapter() *MockDbAdapter {
	return &MockDbAdapter{
		PingError: false,
	}
}

func (c *MockDbAdapter) EnablePingError() {
	c.PingError = true
}

func (c *MockDbAdapter) DisablePingError() {
	c.PingError = false
}

func (c *MockDbAdapter) Ping() error {
	if c.PingError {
		return errors.New("Mock Ping Error")
	}
	return nil
}

// MockUploader use for unit tests
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, filename string, buffer *bytes.Buffer) error {
	args := m.Called(ctx, filename, buffer)
	return args.Error(0)
}

// MockImageLabeler use for unit tests
type MockImageLabeler struct {
	mock.Mock
}

func (m *MockImageLabeler) DetectLabels(ctx context.Context, image []byte) ([]schema.FoodItem, error) {
	args := m.Called(ctx, image)
	items, _ := args.Get(0).([]schema.FoodItem)
	return items, args.Error(1)
}
