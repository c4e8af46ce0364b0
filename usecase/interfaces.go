package usecase

import (
	"bytes"
	"context"
	"time"

	"github.com/mdblp/shape-logs/schema"
)

// LogRepository reads and writes the health logs.
// Fetch functions return the logs of the user with loggedAt >= since, newest first.
// A zero since returns every log.
type LogRepository interface {
	GetUserIdentity(ctx context.Context, userID string) (*schema.Identity, error)
	FetchFoodLogs(ctx context.Context, userID string, since time.Time) ([]schema.FoodLog, error)
	FetchWaterLogs(ctx context.Context, userID string, since time.Time) ([]schema.WaterLog, error)
	FetchWeightLogs(ctx context.Context, userID string, since time.Time) ([]schema.WeightLog, error)
	FetchExerciseLogs(ctx context.Context, userID string, since time.Time) ([]schema.ExerciseLog, error)
	FetchSleepLogs(ctx context.Context, userID string, since time.Time) ([]schema.SleepLog, error)
	InsertLog(ctx context.Context, entry schema.LogEntry) (schema.LogEntry, error)
}

// UserRepository stores the user profiles and their settings
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*schema.User, error)
	CreateUser(ctx context.Context, user *schema.User) error
	// UpdateUser saves the profile fields and upserts the settings atomically
	UpdateUser(ctx context.Context, userID string, update *schema.ProfileUpdate, now time.Time) (*schema.User, error)
	// DeleteUser removes the user, its settings and all its logs
	DeleteUser(ctx context.Context, userID string) error
}

type DatabaseAdapter interface {
	Ping() error
}

type Uploader interface {
	Upload(ctx context.Context, filename string, buffer *bytes.Buffer) error
}

// ImageLabeler detects what an image contains
type ImageLabeler interface {
	DetectLabels(ctx context.Context, image []byte) ([]schema.FoodItem, error)
}
