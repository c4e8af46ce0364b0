package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogKind(t *testing.T) {
	for _, kind := range LogKinds {
		parsed, ok := ParseLogKind(string(kind))
		assert.True(t, ok)
		assert.Equal(t, kind, parsed)
	}
	_, ok := ParseLogKind("steps")
	assert.False(t, ok)
}

func TestLogEntries(t *testing.T) {
	at := time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)
	entries := []LogEntry{
		FoodLog{UserID: "u1", LoggedAt: at},
		WaterLog{UserID: "u1", LoggedAt: at},
		WeightLog{UserID: "u1", LoggedAt: at},
		ExerciseLog{UserID: "u1", LoggedAt: at},
		SleepLog{UserID: "u1", LoggedAt: at},
	}
	for i, entry := range entries {
		assert.Equal(t, LogKinds[i], entry.Kind())
		assert.Equal(t, "u1", entry.Owner())
		assert.Equal(t, at, entry.LoggedTime())
	}
}

func TestDayLogs_EmptyListsAreSerialized(t *testing.T) {
	body, err := json.Marshal(NewDayLogs())
	require.NoError(t, err)
	assert.JSONEq(t, `{"foodLogs":[],"waterLogs":[],"exerciseLogs":[],"sleepLogs":[],"weightLogs":[]}`, string(body))
	assert.Equal(t, 0, NewDayLogs().Count())
	assert.Equal(t, 0, NewUserLogs().Count())
	var nilLogs *UserLogs
	assert.Equal(t, 0, nilLogs.Count())
}

func TestGroupedLogs_EmptyNameIsSent(t *testing.T) {
	body, err := json.Marshal(GroupedLogs{User: Identity{ID: "u1"}, LogsByDay: LogsByDay{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":"u1","name":""},"logsByDay":{}}`, string(body))
}

func TestProfileUpdate_Apply(t *testing.T) {
	name := "Ada"
	height := 170
	onboarded := true
	update := ProfileUpdate{Name: &name, HeightCm: &height, Onboarded: &onboarded}
	assert.True(t, update.HasProfileChanges())
	assert.False(t, (&ProfileUpdate{}).HasProfileChanges())

	user := User{ID: "u1", Name: "old", ActivityLevel: DefaultActivityLevel}
	update.Apply(&user)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, 170, *user.HeightCm)
	assert.True(t, user.Onboarded)
	assert.Equal(t, DefaultActivityLevel, user.ActivityLevel)
	assert.Equal(t, Identity{ID: "u1", Name: "Ada"}, user.Identity())

	theme := "dark"
	settings := DefaultSettings()
	(&SettingsUpdate{ThemePreference: &theme}).Apply(settings)
	assert.Equal(t, UserSettings{NotificationsEnabled: true, MeasurementUnit: "metric", ThemePreference: "dark"}, *settings)
}
