package schema

import "time"

// LogKind identifies one of the five kinds of health log
type LogKind string

const (
	FoodKind     LogKind = "food"
	WaterKind    LogKind = "water"
	WeightKind   LogKind = "weight"
	ExerciseKind LogKind = "exercise"
	SleepKind    LogKind = "sleep"
)

// LogKinds lists every kind, in the order the stores are queried
var LogKinds = []LogKind{FoodKind, WaterKind, WeightKind, ExerciseKind, SleepKind}

// ParseLogKind returns the kind matching name
func ParseLogKind(name string) (LogKind, bool) {
	for _, kind := range LogKinds {
		if string(kind) == name {
			return kind, true
		}
	}
	return "", false
}

// LogEntry is implemented by every log kind
type LogEntry interface {
	Kind() LogKind
	Owner() string
	LoggedTime() time.Time
}

type (
	FoodLog struct {
		ID          int64     `json:"id" bson:"_id"`
		UserID      string    `json:"userId" bson:"userId"`
		Description string    `json:"description" bson:"description" validate:"required"`
		Calories    *int      `json:"calories" bson:"calories" validate:"required,gte=0"`
		ProteinG    float64   `json:"proteinG" bson:"proteinG" validate:"gte=0"`
		CarbsG      float64   `json:"carbsG" bson:"carbsG" validate:"gte=0"`
		FatG        float64   `json:"fatG" bson:"fatG" validate:"gte=0"`
		MealType    *string   `json:"mealType" bson:"mealType,omitempty" validate:"omitnil,oneof=breakfast lunch dinner snack"`
		FoodAPIID   *string   `json:"foodApiId" bson:"foodApiId,omitempty"`
		Quantity    float64   `json:"quantity" bson:"quantity" validate:"gt=0"`
		Unit        string    `json:"unit" bson:"unit" validate:"oneof=serving g ml oz cup item"`
		LoggedAt    time.Time `json:"loggedAt" bson:"loggedAt"`
	}

	WaterLog struct {
		ID       int64     `json:"id" bson:"_id"`
		UserID   string    `json:"userId" bson:"userId"`
		VolumeMl int       `json:"volumeMl" bson:"volumeMl" validate:"gt=0"`
		LoggedAt time.Time `json:"loggedAt" bson:"loggedAt"`
	}

	WeightLog struct {
		ID       int64     `json:"id" bson:"_id"`
		UserID   string    `json:"userId" bson:"userId"`
		WeightKg float64   `json:"weightKg" bson:"weightKg" validate:"gt=0"`
		LoggedAt time.Time `json:"loggedAt" bson:"loggedAt"`
	}

	ExerciseLog struct {
		ID             int64     `json:"id" bson:"_id"`
		UserID         string    `json:"userId" bson:"userId"`
		Type           string    `json:"type" bson:"type" validate:"required"`
		DurationMin    int       `json:"durationMin" bson:"durationMin" validate:"gt=0"`
		CaloriesBurned *int      `json:"caloriesBurned" bson:"caloriesBurned,omitempty" validate:"omitnil,gte=0"`
		Intensity      *string   `json:"intensity" bson:"intensity,omitempty" validate:"omitnil,oneof=low medium high"`
		Notes          *string   `json:"notes" bson:"notes,omitempty"`
		LoggedAt       time.Time `json:"loggedAt" bson:"loggedAt"`
	}

	SleepLog struct {
		ID            int64     `json:"id" bson:"_id"`
		UserID        string    `json:"userId" bson:"userId"`
		StartTime     time.Time `json:"startTime" bson:"startTime" validate:"required"`
		EndTime       time.Time `json:"endTime" bson:"endTime" validate:"required,gtfield=StartTime"`
		Quality       *string   `json:"quality" bson:"quality,omitempty" validate:"omitnil,oneof=poor average good excellent"`
		Interruptions int       `json:"interruptions" bson:"interruptions" validate:"gte=0"`
		Notes         *string   `json:"notes" bson:"notes,omitempty"`
		LoggedAt      time.Time `json:"loggedAt" bson:"loggedAt"`
	}
)

func (l FoodLog) Kind() LogKind         { return FoodKind }
func (l FoodLog) Owner() string         { return l.UserID }
func (l FoodLog) LoggedTime() time.Time { return l.LoggedAt }

func (l WaterLog) Kind() LogKind         { return WaterKind }
func (l WaterLog) Owner() string         { return l.UserID }
func (l WaterLog) LoggedTime() time.Time { return l.LoggedAt }

func (l WeightLog) Kind() LogKind         { return WeightKind }
func (l WeightLog) Owner() string         { return l.UserID }
func (l WeightLog) LoggedTime() time.Time { return l.LoggedAt }

func (l ExerciseLog) Kind() LogKind         { return ExerciseKind }
func (l ExerciseLog) Owner() string         { return l.UserID }
func (l ExerciseLog) LoggedTime() time.Time { return l.LoggedAt }

func (l SleepLog) Kind() LogKind         { return SleepKind }
func (l SleepLog) Owner() string         { return l.UserID }
func (l SleepLog) LoggedTime() time.Time { return l.LoggedAt }
