package models

import "time"

// Settings is the effective, fully-populated configuration for a turn:
// persisted preferences merged over hardcoded defaults. It is re-read at the
// start of every pipeline invocation so changes apply to the next utterance.
type Settings struct {
	Volume                     int     `json:"volume"`
	SpeechRate                 float64 `json:"speech_rate"`
	PatienceMS                 int     `json:"patience_mode"`
	SundowningHour             int     `json:"sundowning_hour"`
	MedicationRemindersEnabled bool    `json:"medication_reminders_enabled"`
	WordOfDayEnabled           bool    `json:"word_of_day_enabled"`
	VoiceGender                string  `json:"voice_gender"` // male | female
	VoiceLocale                string  `json:"voice_locale"` // ex: "en-US", "es-ES"
}

// SettingsUpdate is a partial settings patch; nil fields are left untouched.
type SettingsUpdate struct {
	Volume                     *int     `json:"volume,omitempty"`
	SpeechRate                 *float64 `json:"speech_rate,omitempty"`
	PatienceMS                 *int     `json:"patience_mode,omitempty"`
	SundowningHour             *int     `json:"sundowning_hour,omitempty"`
	MedicationRemindersEnabled *bool    `json:"medication_reminders_enabled,omitempty"`
	WordOfDayEnabled           *bool    `json:"word_of_day_enabled,omitempty"`
	VoiceGender                *string  `json:"voice_gender,omitempty"`
	VoiceLocale                *string  `json:"voice_locale,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Volume:                     80,
		SpeechRate:                 1.0,
		PatienceMS:                 2000,
		SundowningHour:             17,
		MedicationRemindersEnabled: true,
		WordOfDayEnabled:           true,
		VoiceGender:                "female",
		VoiceLocale:                "en-US",
	}
}

// Preference is one persisted settings key/value row.
type Preference struct {
	Key       string    `gorm:"column:key;type:text;primaryKey" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Preference) TableName() string { return "user_preferences" }
