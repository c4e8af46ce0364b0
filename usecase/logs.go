package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

// ErrInvalidLog is returned when a log or a profile update does not pass the validation
var ErrInvalidLog = errors.New("invalid content")

const defaultFoodUnit = "serving"

var validate = validator.New()

func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		return fmt.Errorf("%w: field %s failed on %s", ErrInvalidLog, first.Field(), first.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidLog, err)
}

// LogsUseCase records new logs and lists them
type LogsUseCase struct {
	logger     *log.Logger
	repository LogRepository
	clock      clockwork.Clock
}

func NewLogsUseCase(logger *log.Logger, repository LogRepository, clock clockwork.Clock) *LogsUseCase {
	return &LogsUseCase{
		logger:     logger,
		repository: repository,
		clock:      clock,
	}
}

func (l *LogsUseCase) now() time.Time {
	return l.clock.Now().UTC()
}

// normalize fills the server side fields and the defaults of a new log
func (l *LogsUseCase) normalize(userID string, entry schema.LogEntry) schema.LogEntry {
	loggedAt := func(t time.Time) time.Time {
		if t.IsZero() {
			return l.now()
		}
		return t.UTC()
	}
	switch e := entry.(type) {
	case *schema.FoodLog:
		e.ID, e.UserID, e.LoggedAt = 0, userID, loggedAt(e.LoggedAt)
		if e.Unit == "" {
			e.Unit = defaultFoodUnit
		}
		return *e
	case *schema.WaterLog:
		e.ID, e.UserID, e.LoggedAt = 0, userID, loggedAt(e.LoggedAt)
		return *e
	case *schema.WeightLog:
		e.ID, e.UserID, e.LoggedAt = 0, userID, loggedAt(e.LoggedAt)
		return *e
	case *schema.ExerciseLog:
		e.ID, e.UserID, e.LoggedAt = 0, userID, loggedAt(e.LoggedAt)
		return *e
	case *schema.SleepLog:
		e.ID, e.UserID, e.LoggedAt = 0, userID, loggedAt(e.LoggedAt)
		e.StartTime, e.EndTime = e.StartTime.UTC(), e.EndTime.UTC()
		return *e
	}
	return entry
}

// NewLogEntry returns an empty log of the kind named name, with its defaults set,
// ready to receive a decoded request body. ok is false for an unknown kind.
func NewLogEntry(name string) (schema.LogEntry, bool) {
	kind, ok := schema.ParseLogKind(name)
	if !ok {
		return nil, false
	}
	switch kind {
	case schema.FoodKind:
		return &schema.FoodLog{Quantity: 1, Unit: defaultFoodUnit}, true
	case schema.WaterKind:
		return &schema.WaterLog{}, true
	case schema.WeightKind:
		return &schema.WeightLog{}, true
	case schema.ExerciseKind:
		return &schema.ExerciseLog{}, true
	case schema.SleepKind:
		return &schema.SleepLog{}, true
	}
	return nil, false
}

// CreateLog validates then stores a new log for the user
func (l *LogsUseCase) CreateLog(ctx context.Context, userID string, entry schema.LogEntry) (schema.LogEntry, error) {
	normalized := l.normalize(userID, entry)
	if err := validate.StructCtx(ctx, normalized); err != nil {
		return nil, validationError(err)
	}
	created, err := l.repository.InsertLog(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("insert %s log: %w", normalized.Kind(), err)
	}
	return created, nil
}

// GetAllLogs returns every log of the user, newest first
func (l *LogsUseCase) GetAllLogs(ctx context.Context, userID string) (*schema.AllLogs, error) {
	identity, err := l.repository.GetUserIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	logs, err := fetchUserLogs(ctx, l.repository, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	return &schema.AllLogs{User: *identity, Logs: logs}, nil
}
