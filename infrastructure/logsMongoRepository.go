package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	goComMgo "github.com/tidepool-org/go-common/clients/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

const (
	usersCollectionName    = "users"
	countersCollectionName = "counters"
	idxUserIDLoggedAt      = "UserIdLoggedAt"
)

var logCollectionNames = map[schema.LogKind]string{
	schema.FoodKind:     "foodLogs",
	schema.WaterKind:    "waterLogs",
	schema.WeightKind:   "weightLogs",
	schema.ExerciseKind: "exerciseLogs",
	schema.SleepKind:    "sleepLogs",
}

func shapeLogsIndexes() map[string][]mongo.IndexModel {
	indexes := make(map[string][]mongo.IndexModel, len(logCollectionNames))
	for _, name := range logCollectionNames {
		indexes[name] = []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "loggedAt", Value: -1}},
				Options: options.Index().SetName(idxUserIDLoggedAt),
			},
		}
	}
	return indexes
}

// LogsMongoRepository stores the users and their logs in MongoDB,
// one collection per log kind
type LogsMongoRepository struct {
	*goComMgo.StoreClient
}

// NewLogsMongoRepository creates a new logs repository for mongo
func NewLogsMongoRepository(config *goComMgo.Config, logger *log.Logger) (*LogsMongoRepository, error) {
	if config != nil {
		config.Indexes = shapeLogsIndexes()
	}
	repository := LogsMongoRepository{}
	store, err := goComMgo.NewStoreClient(config, logger)
	repository.StoreClient = store
	return &repository, err
}

func dbError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return common.ErrAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *LogsMongoRepository) logCollection(kind schema.LogKind) *mongo.Collection {
	return r.Collection(logCollectionNames[kind])
}

func (r *LogsMongoRepository) usersCollection() *mongo.Collection {
	return r.Collection(usersCollectionName)
}

// nextID returns the next integer id of a log kind, ids are shared by all the users
func (r *LogsMongoRepository) nextID(ctx context.Context, kind schema.LogKind) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.Collection(countersCollectionName).
		FindOneAndUpdate(ctx, bson.M{"_id": string(kind)}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func userLogsQuery(userID string, since time.Time) bson.M {
	query := bson.M{"userId": userID}
	if !since.IsZero() {
		query["loggedAt"] = bson.M{"$gte": since.UTC()}
	}
	return query
}

func findLogs[T any](ctx context.Context, collection *mongo.Collection, userID string, since time.Time) ([]T, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "loggedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetHint(idxUserIDLoggedAt)
	cursor, err := collection.Find(ctx, userLogsQuery(userID, since), opts)
	if err != nil {
		return nil, dbError(err)
	}
	logs := []T{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, dbError(err)
	}
	return logs, nil
}

func (r *LogsMongoRepository) GetUserIdentity(ctx context.Context, userID string) (*schema.Identity, error) {
	var identity struct {
		ID   string `bson:"_id"`
		Name string `bson:"name"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1, "name": 1})
	if err := r.usersCollection().FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&identity); err != nil {
		return nil, dbError(err)
	}
	return &schema.Identity{ID: identity.ID, Name: identity.Name}, nil
}

func (r *LogsMongoRepository) FetchFoodLogs(ctx context.Context, userID string, since time.Time) ([]schema.FoodLog, error) {
	return findLogs[schema.FoodLog](ctx, r.logCollection(schema.FoodKind), userID, since)
}

func (r *LogsMongoRepository) FetchWaterLogs(ctx context.Context, userID string, since time.Time) ([]schema.WaterLog, error) {
	return findLogs[schema.WaterLog](ctx, r.logCollection(schema.WaterKind), userID, since)
}

func (r *LogsMongoRepository) FetchWeightLogs(ctx context.Context, userID string, since time.Time) ([]schema.WeightLog, error) {
	return findLogs[schema.WeightLog](ctx, r.logCollection(schema.WeightKind), userID, since)
}

func (r *LogsMongoRepository) FetchExerciseLogs(ctx context.Context, userID string, since time.Time) ([]schema.ExerciseLog, error) {
	return findLogs[schema.ExerciseLog](ctx, r.logCollection(schema.ExerciseKind), userID, since)
}

func (r *LogsMongoRepository) FetchSleepLogs(ctx context.Context, userID string, since time.Time) ([]schema.SleepLog, error) {
	return findLogs[schema.SleepLog](ctx, r.logCollection(schema.SleepKind), userID, since)
}

// withID returns a copy of the log carrying the given id
func withID(entry schema.LogEntry, id int64) (schema.LogEntry, error) {
	switch e := entry.(type) {
	case schema.FoodLog:
		e.ID = id
		return e, nil
	case schema.WaterLog:
		e.ID = id
		return e, nil
	case schema.WeightLog:
		e.ID = id
		return e, nil
	case schema.ExerciseLog:
		e.ID = id
		return e, nil
	case schema.SleepLog:
		e.ID = id
		return e, nil
	}
	return nil, fmt.Errorf("unsupported log type %T", entry)
}

func (r *LogsMongoRepository) InsertLog(ctx context.Context, entry schema.LogEntry) (schema.LogEntry, error) {
	id, err := r.nextID(ctx, entry.Kind())
	if err != nil {
		return nil, dbError(err)
	}
	created, err := withID(entry, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.logCollection(entry.Kind()).InsertOne(ctx, created); err != nil {
		return nil, dbError(err)
	}
	return created, nil
}

func (r *LogsMongoRepository) GetUser(ctx context.Context, userID string) (*schema.User, error) {
	var user schema.User
	if err := r.usersCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, dbError(err)
	}
	return &user, nil
}

func (r *LogsMongoRepository) CreateUser(ctx context.Context, user *schema.User) error {
	if _, err := r.usersCollection().InsertOne(ctx, user); err != nil {
		return dbError(err)
	}
	return nil
}

func setIfNotNil[T any](set bson.M, name string, value *T) {
	if value != nil {
		set[name] = *value
	}
}

// profileUpdateSet builds the $set document of a profile update
func profileUpdateSet(update *schema.ProfileUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	setIfNotNil(set, "name", update.Name)
	setIfNotNil(set, "dateOfBirth", update.DateOfBirth)
	setIfNotNil(set, "heightCm", update.HeightCm)
	setIfNotNil(set, "gender", update.Gender)
	setIfNotNil(set, "activityLevel", update.ActivityLevel)
	setIfNotNil(set, "weeklyWeightGoalKg", update.WeeklyWeightGoalKg)
	setIfNotNil(set, "startingWeightKg", update.StartingWeightKg)
	setIfNotNil(set, "targetWeightKg", update.TargetWeightKg)
	setIfNotNil(set, "targetCalories", update.TargetCalories)
	setIfNotNil(set, "targetProteinG", update.TargetProteinG)
	setIfNotNil(set, "targetCarbsG", update.TargetCarbsG)
	setIfNotNil(set, "targetFatG", update.TargetFatG)
	setIfNotNil(set, "onboarded", update.Onboarded)
	if settings := update.Settings; settings != nil {
		setIfNotNil(set, "settings.notificationsEnabled", settings.NotificationsEnabled)
		setIfNotNil(set, "settings.measurementUnit", settings.MeasurementUnit)
		setIfNotNil(set, "settings.themePreference", settings.ThemePreference)
	}
	return set
}

// UpdateUser applies the update in a single document write
func (r *LogsMongoRepository) UpdateUser(ctx context.Context, userID string, update *schema.ProfileUpdate, now time.Time) (*schema.User, error) {
	var user schema.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.usersCollection().
		FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": profileUpdateSet(update, now)}, opts).
		Decode(&user)
	if err != nil {
		return nil, dbError(err)
	}
	return &user, nil
}

// DeleteUser removes the user then all its logs
func (r *LogsMongoRepository) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.usersCollection().DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return dbError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	for _, kind := range schema.LogKinds {
		if _, err := r.logCollection(kind).DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
			return dbError(err)
		}
	}
	return nil
}
