package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthside/companion/internal/models"
)

func TestMergeSettings(t *testing.T) {
	base := models.DefaultSettings()

	t.Run("empty prefs keep defaults", func(t *testing.T) {
		got := mergeSettings(base, map[string]string{})
		assert.Equal(t, base, got)
	})

	t.Run("stored values override", func(t *testing.T) {
		got := mergeSettings(base, map[string]string{
			"volume":          "55",
			"speech_rate":     "0.8",
			"voice_gender":    "male",
			"voice_locale":    "es-ES",
			"sundowning_hour": "19",
		})
		assert.Equal(t, 55, got.Volume)
		assert.Equal(t, 0.8, got.SpeechRate)
		assert.Equal(t, "male", got.VoiceGender)
		assert.Equal(t, "es-ES", got.VoiceLocale)
		assert.Equal(t, 19, got.SundowningHour)
		// untouched keys stay default
		assert.Equal(t, base.PatienceMS, got.PatienceMS)
	})

	t.Run("malformed values are skipped", func(t *testing.T) {
		got := mergeSettings(base, map[string]string{
			"volume":       "loud",
			"speech_rate":  "fast",
			"voice_gender": "",
		})
		assert.Equal(t, base, got)
	})

	t.Run("boolean toggles", func(t *testing.T) {
		got := mergeSettings(base, map[string]string{
			"medication_reminders_enabled": "false",
			"word_of_day_enabled":          "false",
		})
		assert.False(t, got.MedicationRemindersEnabled)
		assert.False(t, got.WordOfDayEnabled)
	})
}

func TestValidateMedication(t *testing.T) {
	err := validateMedication(&models.Medication{Name: "", Time: "08:00"}, "op")
	assert.Error(t, err)

	err = validateMedication(&models.Medication{Name: "aspirin", Time: "8 am"}, "op")
	assert.Error(t, err)

	err = validateMedication(&models.Medication{Name: "aspirin", Time: "08:00"}, "op")
	assert.NoError(t, err)
}
