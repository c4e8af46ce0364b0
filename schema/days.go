package schema

// Identity is the minimal user description returned along with the logs
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserLogs holds the flat logs of a user, one slice per kind, newest first
type UserLogs struct {
	FoodLogs     []FoodLog     `json:"foodLogs"`
	WaterLogs    []WaterLog    `json:"waterLogs"`
	WeightLogs   []WeightLog   `json:"weightLogs"`
	ExerciseLogs []ExerciseLog `json:"exerciseLogs"`
	SleepLogs    []SleepLog    `json:"sleepLogs"`
}

// NewUserLogs returns a UserLogs with five empty, non-nil slices
func NewUserLogs() *UserLogs {
	return &UserLogs{
		FoodLogs:     []FoodLog{},
		WaterLogs:    []WaterLog{},
		WeightLogs:   []WeightLog{},
		ExerciseLogs: []ExerciseLog{},
		SleepLogs:    []SleepLog{},
	}
}

// Count returns the total number of logs, all kinds included
func (u *UserLogs) Count() int {
	if u == nil {
		return 0
	}
	return len(u.FoodLogs) + len(u.WaterLogs) + len(u.WeightLogs) + len(u.ExerciseLogs) + len(u.SleepLogs)
}

// DayLogs is the content of one local calendar day
type DayLogs struct {
	FoodLogs     []FoodLog     `json:"foodLogs"`
	WaterLogs    []WaterLog    `json:"waterLogs"`
	ExerciseLogs []ExerciseLog `json:"exerciseLogs"`
	SleepLogs    []SleepLog    `json:"sleepLogs"`
	WeightLogs   []WeightLog   `json:"weightLogs"`
}

// NewDayLogs returns a DayLogs with five empty, non-nil slices
func NewDayLogs() *DayLogs {
	return &DayLogs{
		FoodLogs:     []FoodLog{},
		WaterLogs:    []WaterLog{},
		ExerciseLogs: []ExerciseLog{},
		SleepLogs:    []SleepLog{},
		WeightLogs:   []WeightLog{},
	}
}

// Count returns the number of logs of the day
func (d *DayLogs) Count() int {
	return len(d.FoodLogs) + len(d.WaterLogs) + len(d.ExerciseLogs) + len(d.SleepLogs) + len(d.WeightLogs)
}

// LogsByDay maps a local date (YYYY-MM-DD) to its logs
type LogsByDay map[string]*DayLogs

// GroupedLogs is the by-day response body
type GroupedLogs struct {
	User      Identity  `json:"user"`
	LogsByDay LogsByDay `json:"logsByDay"`
}

// AllLogs is the flat response body
type AllLogs struct {
	User Identity  `json:"user"`
	Logs *UserLogs `json:"logs"`
}
