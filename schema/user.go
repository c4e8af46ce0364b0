package schema

import "time"

const (
	DefaultActivityLevel   = "sedentary"
	DefaultMeasurementUnit = "metric"
	DefaultTheme           = "light"
)

type (
	// UserSettings are the application preferences of a user
	UserSettings struct {
		NotificationsEnabled bool   `json:"notificationsEnabled" bson:"notificationsEnabled"`
		MeasurementUnit      string `json:"measurementUnit" bson:"measurementUnit"`
		ThemePreference      string `json:"themePreference" bson:"themePreference"`
	}

	// User profile, settings are nested
	User struct {
		ID                 string        `json:"id" bson:"_id"`
		Name               string        `json:"name" bson:"name"`
		Email              string        `json:"email" bson:"email"`
		EmailVerified      bool          `json:"emailVerified" bson:"emailVerified"`
		Image              *string       `json:"image" bson:"image,omitempty"`
		DateOfBirth        *time.Time    `json:"dateOfBirth" bson:"dateOfBirth,omitempty"`
		HeightCm           *int          `json:"heightCm" bson:"heightCm,omitempty"`
		Gender             *string       `json:"gender" bson:"gender,omitempty"`
		ActivityLevel      string        `json:"activityLevel" bson:"activityLevel"`
		StartingWeightKg   *float64      `json:"startingWeightKg" bson:"startingWeightKg,omitempty"`
		WeeklyWeightGoalKg float64       `json:"weeklyWeightGoalKg" bson:"weeklyWeightGoalKg"`
		TargetWeightKg     *float64      `json:"targetWeightKg" bson:"targetWeightKg,omitempty"`
		TargetCalories     *int          `json:"targetCalories" bson:"targetCalories,omitempty"`
		TargetProteinG     *int          `json:"targetProteinG" bson:"targetProteinG,omitempty"`
		TargetCarbsG       *int          `json:"targetCarbsG" bson:"targetCarbsG,omitempty"`
		TargetFatG         *int          `json:"targetFatG" bson:"targetFatG,omitempty"`
		Onboarded          bool          `json:"onboarded" bson:"onboarded"`
		Settings           *UserSettings `json:"settings" bson:"settings,omitempty"`
		CreatedAt          time.Time     `json:"createdAt" bson:"createdAt"`
		UpdatedAt          time.Time     `json:"updatedAt" bson:"updatedAt"`
	}

	// SettingsUpdate only carries the settings to change
	SettingsUpdate struct {
		NotificationsEnabled *bool   `json:"notificationsEnabled"`
		MeasurementUnit      *string `json:"measurementUnit" validate:"omitnil,oneof=metric imperial"`
		ThemePreference      *string `json:"themePreference" validate:"omitnil,oneof=light dark"`
	}

	// ProfileUpdate only carries the profile fields to change
	ProfileUpdate struct {
		Name               *string         `json:"name" validate:"omitnil,min=1"`
		DateOfBirth        *time.Time      `json:"dateOfBirth"`
		HeightCm           *int            `json:"heightCm" validate:"omitnil,gt=0"`
		Gender             *string         `json:"gender" validate:"omitnil,oneof=male female other prefer_not_to_say"`
		ActivityLevel      *string         `json:"activityLevel" validate:"omitnil,oneof=sedentary lightly_active moderately_active very_active"`
		WeeklyWeightGoalKg *float64        `json:"weeklyWeightGoalKg"`
		StartingWeightKg   *float64        `json:"startingWeightKg" validate:"omitnil,gt=0"`
		TargetWeightKg     *float64        `json:"targetWeightKg" validate:"omitnil,gt=0"`
		TargetCalories     *int            `json:"targetCalories" validate:"omitnil,gt=0"`
		TargetProteinG     *int            `json:"targetProteinG" validate:"omitnil,gt=0"`
		TargetCarbsG       *int            `json:"targetCarbsG" validate:"omitnil,gt=0"`
		TargetFatG         *int            `json:"targetFatG" validate:"omitnil,gt=0"`
		Onboarded          *bool           `json:"onboarded"`
		Settings           *SettingsUpdate `json:"settings"`
	}
)

// DefaultSettings returns the settings of a freshly created user
func DefaultSettings() *UserSettings {
	return &UserSettings{
		NotificationsEnabled: true,
		MeasurementUnit:      DefaultMeasurementUnit,
		ThemePreference:      DefaultTheme,
	}
}

// Identity returns the minimal identity of the user
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name}
}

// HasProfileChanges tells if at least one profile field is set
func (p *ProfileUpdate) HasProfileChanges() bool {
	return p.Name != nil || p.DateOfBirth != nil || p.HeightCm != nil || p.Gender != nil ||
		p.ActivityLevel != nil || p.WeeklyWeightGoalKg != nil || p.StartingWeightKg != nil ||
		p.TargetWeightKg != nil || p.TargetCalories != nil || p.TargetProteinG != nil ||
		p.TargetCarbsG != nil || p.TargetFatG != nil || p.Onboarded != nil
}

// Apply copies the set fields of the update onto the user
func (p *ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = p.DateOfBirth
	}
	if p.HeightCm != nil {
		u.HeightCm = p.HeightCm
	}
	if p.Gender != nil {
		u.Gender = p.Gender
	}
	if p.ActivityLevel != nil {
		u.ActivityLevel = *p.ActivityLevel
	}
	if p.WeeklyWeightGoalKg != nil {
		u.WeeklyWeightGoalKg = *p.WeeklyWeightGoalKg
	}
	if p.StartingWeightKg != nil {
		u.StartingWeightKg = p.StartingWeightKg
	}
	if p.TargetWeightKg != nil {
		u.TargetWeightKg = p.TargetWeightKg
	}
	if p.TargetCalories != nil {
		u.TargetCalories = p.TargetCalories
	}
	if p.TargetProteinG != nil {
		u.TargetProteinG = p.TargetProteinG
	}
	if p.TargetCarbsG != nil {
		u.TargetCarbsG = p.TargetCarbsG
	}
	if p.TargetFatG != nil {
		u.TargetFatG = p.TargetFatG
	}
	if p.Onboarded != nil {
		u.Onboarded = *p.Onboarded
	}
}

// Apply copies the set fields of the update onto the settings
func (s *SettingsUpdate) Apply(settings *UserSettings) {
	if s.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *s.NotificationsEnabled
	}
	if s.MeasurementUnit != nil {
		settings.MeasurementUnit = *s.MeasurementUnit
	}
	if s.ThemePreference != nil {
		settings.ThemePreference = *s.ThemePreference
	}
}
