package infrastructure

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mdblp/shape-logs/schema"
)

// MockLogRepository use for unit tests
type MockLogRepository struct {
	mock.Mock
}

func NewMockLogRepository() *MockLogRepository {
	return &MockLogRepository{}
}

func (m *MockLogRepository) GetUserIdentity(ctx context.Context, userID string) (*schema.Identity, error) {
	args := m.Called(ctx, userID)
	identity, _ := args.Get(0).(*schema.Identity)
	return identity, args.Error(1)
}

func (m *MockLogRepository) FetchFoodLogs(ctx context.Context, userID string, since time.Time) ([]schema.FoodLog, error) {
	args := m.Called(ctx, userID, since)
	logs, _ := args.Get(0).([]schema.FoodLog)
	return logs, args.Error(1)
}

func (m *MockLogRepository) FetchWaterLogs(ctx context.Context, userID string, since time.Time) ([]schema.WaterLog, error) {
	args := m.Called(ctx, userID, since)
	logs, _ := args.Get(0).([]schema.WaterLog)
	return logs, args.Error(1)
}

func (m *MockLogRepository) FetchWeightLogs(ctx context.Context, userID string, since time.Time) ([]schema.WeightLog, error) {
	args := m.Called(ctx, userID, since)
	logs, _ := args.Get(0).([]schema.WeightLog)
	return logs, args.Error(1)
}

func (m *MockLogRepository) FetchExerciseLogs(ctx context.Context, userID string, since time.Time) ([]schema.ExerciseLog, error) {
	args := m.Called(ctx, userID, since)
	logs, _ := args.Get(0).([]schema.ExerciseLog)
	return logs, args.Error(1)
}

func (m *MockLogRepository) FetchSleepLogs(ctx context.Context, userID string, since time.Time) ([]schema.SleepLog, error) {
	args := m.Called(ctx, userID, since)
	logs, _ := args.Get(0).([]schema.SleepLog)
	return logs, args.Error(1)
}

func (m *MockLogRepository) InsertLog(ctx context.Context, entry schema.LogEntry) (schema.LogEntry, error) {
	args := m.Called(ctx, entry)
	created, _ := args.Get(0).(schema.LogEntry)
	return created, args.Error(1)
}

// ExpectLogs sets the same answer on the five fetch functions, whatever the since parameter
func (m *MockLogRepository) ExpectLogs(userID string, logs *schema.UserLogs) {
	m.On("FetchFoodLogs", mock.Anything, userID, mock.Anything).Return(logs.FoodLogs, nil)
	m.On("FetchWaterLogs", mock.Anything, userID, mock.Anything).Return(logs.WaterLogs, nil)
	m.On("FetchWeightLogs", mock.Anything, userID, mock.Anything).Return(logs.WeightLogs, nil)
	m.On("FetchExerciseLogs", mock.Anything, userID, mock.Anything).Return(logs.ExerciseLogs, nil)
	m.On("FetchSleepLogs", mock.Anything, userID, mock.Anything).Return(logs.SleepLogs, nil)
}

// MockUserRepository use for unit tests
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID string) (*schema.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*schema.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *schema.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, userID string, update *schema.ProfileUpdate, now time.Time) (*schema.User, error) {
	args := m.Called(ctx, userID, update, now)
	user, _ := args.Get(0).(*schema.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
