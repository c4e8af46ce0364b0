package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

const (
	foodColumns     = "id, user_id, description, calories, protein_g, carbs_g, fat_g, meal_type, food_api_id, quantity, unit, logged_at"
	waterColumns    = "id, user_id, volume_ml, logged_at"
	weightColumns   = "id, user_id, weight_kg, logged_at"
	exerciseColumns = "id, user_id, type, duration_min, calories_burned, intensity, notes, logged_at"
	sleepColumns    = "id, user_id, start_time, end_time, quality, interruptions, notes, logged_at"

	userColumns = `u.id, u.name, u.email, u.email_verified, u.image, u.date_of_birth, u.height_cm, u.gender,
u.activity_level, u.starting_weight_kg, u.weekly_weight_goal_kg, u.target_weight_kg,
u.target_calories, u.target_protein_g, u.target_carbs_g, u.target_fat_g, u.onboarded,
u.created_at, u.updated_at, s.notifications_enabled, s.measurement_unit, s.theme_preference`
)

// LogsPostgresRepository stores the users and their logs in PostgreSQL,
// one table per log kind
type LogsPostgresRepository struct {
	db *sql.DB
}

func NewLogsPostgresRepository(db *sql.DB) *LogsPostgresRepository {
	return &LogsPostgresRepository{db: db}
}

func (r *LogsPostgresRepository) Ping() error {
	return r.db.Ping()
}

func (r *LogsPostgresRepository) Close() error {
	return r.db.Close()
}

func sqlError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// logsQuery selects the logs of a user, newest first. A zero since selects all of them.
func logsQuery(columns string, table string, userID string, since time.Time) (string, []any) {
	query := "SELECT " + columns + " FROM " + table + " WHERE user_id = $1"
	args := []any{userID}
	if !since.IsZero() {
		query += " AND logged_at >= $2"
		args = append(args, since.UTC())
	}
	return query + " ORDER BY logged_at DESC, id DESC", args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func queryLogs[T any](ctx context.Context, db DBTX, query string, args []any, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlError(err)
	}
	defer rows.Close()
	logs := []T{}
	for rows.Next() {
		entry, err := scan(rows)
		if err != nil {
			return nil, sqlError(err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlError(err)
	}
	return logs, nil
}

func scanFoodLog(row rowScanner) (schema.FoodLog, error) {
	var l schema.FoodLog
	err := row.Scan(&l.ID, &l.UserID, &l.Description, &l.Calories, &l.ProteinG, &l.CarbsG, &l.FatG,
		&l.MealType, &l.FoodAPIID, &l.Quantity, &l.Unit, &l.LoggedAt)
	l.LoggedAt = l.LoggedAt.UTC()
	return l, err
}

func scanWaterLog(row rowScanner) (schema.WaterLog, error) {
	var l schema.WaterLog
	err := row.Scan(&l.ID, &l.UserID, &l.VolumeMl, &l.LoggedAt)
	l.LoggedAt = l.LoggedAt.UTC()
	return l, err
}

func scanWeightLog(row rowScanner) (schema.WeightLog, error) {
	var l schema.WeightLog
	err := row.Scan(&l.ID, &l.UserID, &l.WeightKg, &l.LoggedAt)
	l.LoggedAt = l.LoggedAt.UTC()
	return l, err
}

func scanExerciseLog(row rowScanner) (schema.ExerciseLog, error) {
	var l schema.ExerciseLog
	err := row.Scan(&l.ID, &l.UserID, &l.Type, &l.DurationMin, &l.CaloriesBurned, &l.Intensity, &l.Notes, &l.LoggedAt)
	l.LoggedAt = l.LoggedAt.UTC()
	return l, err
}

func scanSleepLog(row rowScanner) (schema.SleepLog, error) {
	var l schema.SleepLog
	err := row.Scan(&l.ID, &l.UserID, &l.StartTime, &l.EndTime, &l.Quality, &l.Interruptions, &l.Notes, &l.LoggedAt)
	l.StartTime, l.EndTime, l.LoggedAt = l.StartTime.UTC(), l.EndTime.UTC(), l.LoggedAt.UTC()
	return l, err
}

func (r *LogsPostgresRepository) GetUserIdentity(ctx context.Context, userID string) (*schema.Identity, error) {
	var identity schema.Identity
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM users WHERE id = $1", userID).Scan(&identity.ID, &identity.Name)
	if err != nil {
		return nil, sqlError(err)
	}
	return &identity, nil
}

func (r *LogsPostgresRepository) FetchFoodLogs(ctx context.Context, userID string, since time.Time) ([]schema.FoodLog, error) {
	query, args := logsQuery(foodColumns, "food_log", userID, since)
	return queryLogs(ctx, r.db, query, args, scanFoodLog)
}

func (r *LogsPostgresRepository) FetchWaterLogs(ctx context.Context, userID string, since time.Time) ([]schema.WaterLog, error) {
	query, args := logsQuery(waterColumns, "water_log", userID, since)
	return queryLogs(ctx, r.db, query, args, scanWaterLog)
}

func (r *LogsPostgresRepository) FetchWeightLogs(ctx context.Context, userID string, since time.Time) ([]schema.WeightLog, error) {
	query, args := logsQuery(weightColumns, "weight_log", userID, since)
	return queryLogs(ctx, r.db, query, args, scanWeightLog)
}

func (r *LogsPostgresRepository) FetchExerciseLogs(ctx context.Context, userID string, since time.Time) ([]schema.ExerciseLog, error) {
	query, args := logsQuery(exerciseColumns, "exercise_log", userID, since)
	return queryLogs(ctx, r.db, query, args, scanExerciseLog)
}

func (r *LogsPostgresRepository) FetchSleepLogs(ctx context.Context, userID string, since time.Time) ([]schema.SleepLog, error) {
	query, args := logsQuery(sleepColumns, "sleep_log", userID, since)
	return queryLogs(ctx, r.db, query, args, scanSleepLog)
}

func (r *LogsPostgresRepository) InsertLog(ctx context.Context, entry schema.LogEntry) (schema.LogEntry, error) {
	var err error
	switch e := entry.(type) {
	case schema.FoodLog:
		err = r.db.QueryRowContext(ctx,
			`INSERT INTO food_log (user_id, description, calories, protein_g, carbs_g, fat_g, meal_type, food_api_id, quantity, unit, logged_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
			e.UserID, e.Description, e.Calories, e.ProteinG, e.CarbsG, e.FatG, e.MealType, e.FoodAPIID, e.Quantity, e.Unit, e.LoggedAt,
		).Scan(&e.ID)
		entry = e
	case schema.WaterLog:
		err = r.db.QueryRowContext(ctx,
			"INSERT INTO water_log (user_id, volume_ml, logged_at) VALUES ($1, $2, $3) RETURNING id",
			e.UserID, e.VolumeMl, e.LoggedAt,
		).Scan(&e.ID)
		entry = e
	case schema.WeightLog:
		err = r.db.QueryRowContext(ctx,
			"INSERT INTO weight_log (user_id, weight_kg, logged_at) VALUES ($1, $2, $3) RETURNING id",
			e.UserID, e.WeightKg, e.LoggedAt,
		).Scan(&e.ID)
		entry = e
	case schema.ExerciseLog:
		err = r.db.QueryRowContext(ctx,
			`INSERT INTO exercise_log (user_id, type, duration_min, calories_burned, intensity, notes, logged_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			e.UserID, e.Type, e.DurationMin, e.CaloriesBurned, e.Intensity, e.Notes, e.LoggedAt,
		).Scan(&e.ID)
		entry = e
	case schema.SleepLog:
		err = r.db.QueryRowContext(ctx,
			`INSERT INTO sleep_log (user_id, start_time, end_time, quality, interruptions, notes, logged_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			e.UserID, e.StartTime, e.EndTime, e.Quality, e.Interruptions, e.Notes, e.LoggedAt,
		).Scan(&e.ID)
		entry = e
	default:
		return nil, fmt.Errorf("unsupported log type %T", entry)
	}
	if err != nil {
		return nil, sqlError(err)
	}
	return entry, nil
}

func getUser(ctx context.Context, db DBTX, userID string) (*schema.User, error) {
	var (
		u                    schema.User
		notificationsEnabled sql.NullBool
		measurementUnit      sql.NullString
		themePreference      sql.NullString
	)
	err := db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users u LEFT JOIN user_settings s ON s.user_id = u.id WHERE u.id = $1", userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.Image, &u.DateOfBirth, &u.HeightCm, &u.Gender,
		&u.ActivityLevel, &u.StartingWeightKg, &u.WeeklyWeightGoalKg, &u.TargetWeightKg,
		&u.TargetCalories, &u.TargetProteinG, &u.TargetCarbsG, &u.TargetFatG, &u.Onboarded,
		&u.CreatedAt, &u.UpdatedAt, &notificationsEnabled, &measurementUnit, &themePreference)
	if err != nil {
		return nil, sqlError(err)
	}
	u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
	if notificationsEnabled.Valid {
		u.Settings = &schema.UserSettings{
			NotificationsEnabled: notificationsEnabled.Bool,
			MeasurementUnit:      measurementUnit.String,
			ThemePreference:      themePreference.String,
		}
	}
	return &u, nil
}

func (r *LogsPostgresRepository) GetUser(ctx context.Context, userID string) (*schema.User, error) {
	return getUser(ctx, r.db, userID)
}

// CreateUser inserts the user and its settings together
func (r *LogsPostgresRepository) CreateUser(ctx context.Context, user *schema.User) error {
	return WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, email, email_verified, image, activity_level, weekly_weight_goal_kg, onboarded, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING`,
			user.ID, user.Name, user.Email, user.EmailVerified, user.Image, user.ActivityLevel,
			user.WeeklyWeightGoalKg, user.Onboarded, user.CreatedAt, user.UpdatedAt)
		if err := expectOneRow(result, err); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// another request created the user first
				return common.ErrAlreadyExists
			}
			return err
		}
		if user.Settings == nil {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_settings (user_id, notifications_enabled, measurement_unit, theme_preference, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`,
			user.ID, user.Settings.NotificationsEnabled, user.Settings.MeasurementUnit, user.Settings.ThemePreference, user.CreatedAt)
		if err != nil {
			return sqlError(err)
		}
		return nil
	})
}

func expectOneRow(result sql.Result, err error) error {
	if err != nil {
		return sqlError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sqlError(err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// UpdateUser saves the profile and the settings in one transaction
func (r *LogsPostgresRepository) UpdateUser(ctx context.Context, userID string, update *schema.ProfileUpdate, now time.Time) (*schema.User, error) {
	var user *schema.User
	err := WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		if update.HasProfileChanges() {
			err := expectOneRow(tx.ExecContext(ctx,
				`UPDATE users SET
name = COALESCE($2, name),
date_of_birth = COALESCE($3, date_of_birth),
height_cm = COALESCE($4, height_cm),
gender = COALESCE($5, gender),
activity_level = COALESCE($6, activity_level),
weekly_weight_goal_kg = COALESCE($7, weekly_weight_goal_kg),
starting_weight_kg = COALESCE($8, starting_weight_kg),
target_weight_kg = COALESCE($9, target_weight_kg),
target_calories = COALESCE($10, target_calories),
target_protein_g = COALESCE($11, target_protein_g),
target_carbs_g = COALESCE($12, target_carbs_g),
target_fat_g = COALESCE($13, target_fat_g),
onboarded = COALESCE($14, onboarded),
updated_at = $15
WHERE id = $1`,
				userID, update.Name, update.DateOfBirth, update.HeightCm, update.Gender, update.ActivityLevel,
				update.WeeklyWeightGoalKg, update.StartingWeightKg, update.TargetWeightKg, update.TargetCalories,
				update.TargetProteinG, update.TargetCarbsG, update.TargetFatG, update.Onboarded, now))
			if err != nil {
				return err
			}
		} else {
			err := expectOneRow(tx.ExecContext(ctx, "UPDATE users SET updated_at = $2 WHERE id = $1", userID, now))
			if err != nil {
				return err
			}
		}

		if settings := update.Settings; settings != nil {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO user_settings (user_id, notifications_enabled, measurement_unit, theme_preference, created_at, updated_at)
VALUES ($1, COALESCE($2::boolean, true), COALESCE($3::varchar, 'metric'), COALESCE($4::varchar, 'light'), $5, $5)
ON CONFLICT (user_id) DO UPDATE SET
notifications_enabled = COALESCE($2::boolean, user_settings.notifications_enabled),
measurement_unit = COALESCE($3::varchar, user_settings.measurement_unit),
theme_preference = COALESCE($4::varchar, user_settings.theme_preference),
updated_at = $5`,
				userID, settings.NotificationsEnabled, settings.MeasurementUnit, settings.ThemePreference, now)
			if err != nil {
				return sqlError(err)
			}
		}

		var err error
		user, err = getUser(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user, its settings and logs follow by cascade
func (r *LogsPostgresRepository) DeleteUser(ctx context.Context, userID string) error {
	return expectOneRow(r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", userID))
}
