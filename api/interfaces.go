package api

import (
	"context"

	"github.com/mdblp/shape-logs/schema"
	"github.com/mdblp/shape-logs/usecase"
)

type DayGrouperUseCase interface {
	Run(ctx context.Context, userID string, timezone string) (*schema.GroupedLogs, error)
}

type LogsUseCase interface {
	CreateLog(ctx context.Context, userID string, entry schema.LogEntry) (schema.LogEntry, error)
	GetAllLogs(ctx context.Context, userID string) (*schema.AllLogs, error)
}

type UsersUseCase interface {
	GetUser(ctx context.Context, userID string) (*schema.User, error)
	Provision(ctx context.Context, userID string, name string, email string) (*schema.User, bool, error)
	UpdateUser(ctx context.Context, userID string, update *schema.ProfileUpdate) (*schema.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type FoodAnalyzerUseCase interface {
	Analyze(ctx context.Context, image []byte) (*schema.FoodAnalysis, error)
}

type ExporterUseCase interface {
	Export(args usecase.ExportArgs)
}
