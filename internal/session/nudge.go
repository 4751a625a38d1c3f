package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/providers/tts"
)

const (
	nudgePhaseUpcoming = "upcoming"
	nudgePhaseDue      = "due"
)

// runNudgeLoop polls the medication schedule until the session closes. It is
// independent of conversation activity and shares only the transport with
// the pipeline.
func (s *Session) runNudgeLoop(ctx context.Context) {
	defer close(s.nudgeDone)

	ticker := time.NewTicker(s.cfg.NudgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollMedications(ctx)
		}
	}
}

// pollMedications runs one scheduler pass. A failure on one medication is
// logged and does not stop the others.
func (s *Session) pollMedications(ctx context.Context) {
	settings := s.deps.Settings.Effective(ctx)
	if !settings.MedicationRemindersEnabled {
		return
	}

	meds, err := s.deps.Medications.List(ctx)
	if err != nil {
		s.log.WithError(err).Warn("medication poll failed")
		return
	}

	now := s.cfg.Now()
	for _, med := range meds {
		at, ok := med.ScheduledFor(now)
		if !ok {
			continue
		}

		// The due window wins when it overlaps the upcoming window.
		diff := now.Sub(at)
		switch {
		case diff >= -s.cfg.NudgeGrace && diff <= s.cfg.NudgeGrace:
			s.emitNudge(ctx, settings, med, nudgePhaseDue, at, now)
		case diff < 0 && -diff <= s.cfg.NudgeLead:
			s.emitNudge(ctx, settings, med, nudgePhaseUpcoming, at, now)
		}
	}
}

// emitNudge sends one reminder unless the same (medication, phase, date)
// nudge already went out today.
func (s *Session) emitNudge(ctx context.Context, settings models.Settings, med models.Medication, phase string, at, now time.Time) {
	key := nudgeKey{medID: med.ID, phase: phase, date: now.Format("2006-01-02")}

	s.nudgeMu.Lock()
	if _, seen := s.nudgeSent[key]; seen {
		s.nudgeMu.Unlock()
		return
	}
	s.nudgeSent[key] = struct{}{}
	s.nudgeMu.Unlock()

	text := nudgeText(med, phase, at)

	if phase == nudgePhaseDue {
		if err := s.deps.Medications.MarkReminded(ctx, med.ID, now); err != nil {
			s.log.WithError(err).Warn("failed to mark medication reminded")
		}
	}

	ev := Event{Type: EventMedicationNudge, Text: text, State: phase}

	// Synthesis is optional here; the nudge still goes out as text.
	audio, err := s.deps.TTS.Synthesize(ctx, text, tts.Options{
		Sentiment:      "neutral",
		SpeechRate:     settings.SpeechRate,
		SundowningHour: settings.SundowningHour,
		VoiceGender:    settings.VoiceGender,
		Locale:         settings.VoiceLocale,
	})
	if err != nil {
		s.log.WithError(err).Warn("nudge synthesis failed, sending text only")
	} else {
		ev.Audio = audio
	}

	if !s.send(ev) {
		s.log.Debug("nudge not delivered, transport closed")
	}
}

func nudgeText(med models.Medication, phase string, at time.Time) string {
	meal := mealContext(at.Hour())
	if phase == nudgePhaseUpcoming {
		return fmt.Sprintf("Just a heads up, it will soon be time for your %s%s.", med.Name, meal)
	}
	return fmt.Sprintf("It's time to take your %s%s.", med.Name, meal)
}

func mealContext(hour int) string {
	switch {
	case hour >= 6 && hour < 11:
		return ", with your breakfast"
	case hour >= 11 && hour < 15:
		return ", with your lunch"
	case hour >= 17 && hour < 21:
		return ", with your dinner"
	default:
		return ""
	}
}
