package services

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/repositories/postgres"
)

type SettingsService interface {
	// Effective returns stored preferences merged over defaults. Never fails:
	// on a read error the defaults are returned so a turn can always proceed.
	Effective(ctx context.Context) models.Settings
	Save(ctx context.Context, patch models.SettingsUpdate) (models.Settings, error)
}

type settingsService struct {
	repo postgres.SettingsRepository
	log  *logrus.Logger
}

func NewSettingsService(repo postgres.SettingsRepository, log *logrus.Logger) SettingsService {
	return &settingsService{repo: repo, log: log}
}

func (s *settingsService) Effective(ctx context.Context) models.Settings {
	prefs, err := s.repo.All(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load preferences, using defaults")
		return models.DefaultSettings()
	}
	return mergeSettings(models.DefaultSettings(), prefs)
}

func (s *settingsService) Save(ctx context.Context, patch models.SettingsUpdate) (models.Settings, error) {
	type kv struct {
		key, value string
		set        bool
	}
	rows := []kv{
		{"volume", intVal(patch.Volume), patch.Volume != nil},
		{"speech_rate", floatVal(patch.SpeechRate), patch.SpeechRate != nil},
		{"patience_mode", intVal(patch.PatienceMS), patch.PatienceMS != nil},
		{"sundowning_hour", intVal(patch.SundowningHour), patch.SundowningHour != nil},
		{"medication_reminders_enabled", boolVal(patch.MedicationRemindersEnabled), patch.MedicationRemindersEnabled != nil},
		{"word_of_day_enabled", boolVal(patch.WordOfDayEnabled), patch.WordOfDayEnabled != nil},
		{"voice_gender", strVal(patch.VoiceGender), patch.VoiceGender != nil},
		{"voice_locale", strVal(patch.VoiceLocale), patch.VoiceLocale != nil},
	}
	for _, row := range rows {
		if !row.set {
			continue
		}
		if err := s.repo.Set(ctx, row.key, row.value); err != nil {
			return models.Settings{}, err
		}
	}
	return s.Effective(ctx), nil
}

// mergeSettings overlays stored string preferences onto the defaults,
// skipping values that fail to parse.
func mergeSettings(base models.Settings, prefs map[string]string) models.Settings {
	if v, ok := prefs["volume"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			base.Volume = n
		}
	}
	if v, ok := prefs["speech_rate"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			base.SpeechRate = f
		}
	}
	if v, ok := prefs["patience_mode"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			base.PatienceMS = n
		}
	}
	if v, ok := prefs["sundowning_hour"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			base.SundowningHour = n
		}
	}
	if v, ok := prefs["medication_reminders_enabled"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			base.MedicationRemindersEnabled = b
		}
	}
	if v, ok := prefs["word_of_day_enabled"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			base.WordOfDayEnabled = b
		}
	}
	if v, ok := prefs["voice_gender"]; ok && v != "" {
		base.VoiceGender = v
	}
	if v, ok := prefs["voice_locale"]; ok && v != "" {
		base.VoiceLocale = v
	}
	return base
}

func intVal(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatVal(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func boolVal(p *bool) string {
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
