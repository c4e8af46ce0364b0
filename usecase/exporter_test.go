package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mdblp/shape-logs/infrastructure"
	"github.com/mdblp/shape-logs/schema"
)

type mockAllLogsGetter struct {
	mock.Mock
}

func (m *mockAllLogsGetter) GetAllLogs(ctx context.Context, userID string) (*schema.AllLogs, error) {
	args := m.Called(ctx, userID)
	allLogs, _ := args.Get(0).(*schema.AllLogs)
	return allLogs, args.Error(1)
}

func TestExporter_ExportFilename(t *testing.T) {
	exporter := NewExporter(testLogger, nil, nil, clockwork.NewFakeClockAt(utc("2024-06-15T12:34:56Z")))
	assert.Equal(t, "userid123_20240615T123456Z.json", exporter.ExportFilename("userid123", ExportJSON))
	assert.Equal(t, "userid123_20240615T123456Z.csv", exporter.ExportFilename("userid123", ExportCSV))
}

func TestExporter_Export(t *testing.T) {
	userID := "userid123"
	traceID := "traceid123"
	clock := clockwork.NewFakeClockAt(utc("2024-06-15T12:34:56Z"))
	allLogs := &schema.AllLogs{
		User: schema.Identity{ID: userID, Name: "Ada"},
		Logs: &schema.UserLogs{
			WaterLogs: []schema.WaterLog{{ID: 1, UserID: userID, VolumeMl: 250, LoggedAt: utc("2024-06-15T08:00:00Z")}},
		},
	}

	t.Run("should not call uploader when getting the logs failed", func(t *testing.T) {
		logs := &mockAllLogsGetter{}
		logs.On("GetAllLogs", mock.Anything, userID).Return(nil, errors.New("db error: timeout"))
		uploader := &infrastructure.MockUploader{}

		NewExporter(testLogger, logs, uploader, clock).Export(ExportArgs{UserID: userID, TraceID: traceID})

		logs.AssertExpectations(t)
		uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should upload the logs as json by default", func(t *testing.T) {
		logs := &mockAllLogsGetter{}
		logs.On("GetAllLogs", mock.Anything, userID).Return(allLogs, nil)
		uploader := &infrastructure.MockUploader{}
		var uploaded []byte
		uploader.On("Upload", mock.Anything, "userid123_20240615T123456Z.json", mock.AnythingOfType("*bytes.Buffer")).
			Run(func(args mock.Arguments) {
				uploaded = args.Get(2).(*bytes.Buffer).Bytes()
			}).
			Return(nil)

		NewExporter(testLogger, logs, uploader, clock).Export(ExportArgs{UserID: userID, TraceID: traceID})

		uploader.AssertExpectations(t)
		var decoded schema.AllLogs
		require.NoError(t, json.Unmarshal(uploaded, &decoded))
		assert.Equal(t, "Ada", decoded.User.Name)
		require.Len(t, decoded.Logs.WaterLogs, 1)
		assert.Equal(t, 250, decoded.Logs.WaterLogs[0].VolumeMl)
	})

	t.Run("should upload the logs as csv", func(t *testing.T) {
		logs := &mockAllLogsGetter{}
		logs.On("GetAllLogs", mock.Anything, userID).Return(allLogs, nil)
		uploader := &infrastructure.MockUploader{}
		var uploaded string
		uploader.On("Upload", mock.Anything, "userid123_20240615T123456Z.csv", mock.AnythingOfType("*bytes.Buffer")).
			Run(func(args mock.Arguments) {
				uploaded = args.Get(2).(*bytes.Buffer).String()
			}).
			Return(nil)

		NewExporter(testLogger, logs, uploader, clock).Export(ExportArgs{UserID: userID, TraceID: traceID, Format: ExportCSV})

		uploader.AssertExpectations(t)
		lines := strings.Split(strings.TrimSpace(uploaded), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "kind,id,loggedAt,userId,volumeMl", lines[0])
		assert.Equal(t, "water,1,2024-06-15T08:00:00Z,userid123,250", lines[1])
	})

	t.Run("should not fail when the upload failed", func(t *testing.T) {
		logs := &mockAllLogsGetter{}
		logs.On("GetAllLogs", mock.Anything, userID).Return(allLogs, nil)
		uploader := &infrastructure.MockUploader{}
		uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access denied"))

		assert.NotPanics(t, func() {
			NewExporter(testLogger, logs, uploader, clock).Export(ExportArgs{UserID: userID, TraceID: traceID, Format: "xml"})
		})
		uploader.AssertCalled(t, "Upload", mock.Anything, "userid123_20240615T123456Z.json", mock.Anything)
	})
}
