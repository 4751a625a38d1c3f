package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/companion/internal/models"
)

// nudgeSessionAt builds a session whose clock is pinned to the given time.
func nudgeSessionAt(env *testEnv, at time.Time) *Session {
	return env.newSession(Config{
		NudgeInterval: time.Hour,
		NudgeLead:     10 * time.Minute,
		NudgeGrace:    2 * time.Minute,
		Now:           func() time.Time { return at },
	})
}

func TestNudgeDueFiresExactlyOncePerDay(t *testing.T) {
	env := newTestEnv()
	env.meds.meds = []models.Medication{{ID: 1, Name: "aspirin", Time: "09:00"}}

	now := time.Date(2026, 3, 10, 9, 1, 0, 0, time.UTC)
	s := nudgeSessionAt(env, now)
	defer s.Close()

	// Repeated polls inside the grace window must emit one nudge.
	for i := 0; i < 4; i++ {
		s.pollMedications(context.Background())
	}

	nudges := env.transport.ofType(EventMedicationNudge)
	require.Len(t, nudges, 1)
	assert.Equal(t, nudgePhaseDue, nudges[0].State)
	assert.Contains(t, nudges[0].Text, "aspirin")
	assert.NotEmpty(t, nudges[0].Audio)

	env.meds.mu.Lock()
	assert.Equal(t, []int64{1}, env.meds.reminded, "due nudge marks the medication reminded")
	env.meds.mu.Unlock()
}

func TestNudgeUpcomingBeforeScheduledTime(t *testing.T) {
	env := newTestEnv()
	env.meds.meds = []models.Medication{{ID: 7, Name: "vitamin d", Time: "09:00"}}

	now := time.Date(2026, 3, 10, 8, 55, 0, 0, time.UTC)
	s := nudgeSessionAt(env, now)
	defer s.Close()

	s.pollMedications(context.Background())
	s.pollMedications(context.Background())

	nudges := env.transport.ofType(EventMedicationNudge)
	require.Len(t, nudges, 1)
	assert.Equal(t, nudgePhaseUpcoming, nudges[0].State)

	env.meds.mu.Lock()
	assert.Empty(t, env.meds.reminded, "upcoming nudges do not mark reminded")
	env.meds.mu.Unlock()
}

func TestNudgeDueWinsInsideGraceWindow(t *testing.T) {
	env := newTestEnv()
	env.meds.meds = []models.Medication{{ID: 2, Name: "insulin", Time: "09:00"}}

	// 08:59 is inside both the lead and the grace window.
	now := time.Date(2026, 3, 10, 8, 59, 0, 0, time.UTC)
	s := nudgeSessionAt(env, now)
	defer s.Close()

	s.pollMedications(context.Background())

	nudges := env.transport.ofType(EventMedicationNudge)
	require.Len(t, nudges, 1)
	assert.Equal(t, nudgePhaseDue, nudges[0].State)
}

func TestNudgeOutsideWindowsIsSilent(t *testing.T) {
	env := newTestEnv()
	env.meds.meds = []models.Medication{{ID: 3, Name: "statin", Time: "21:00"}}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := nudgeSessionAt(env, now)
	defer s.Close()

	s.pollMedications(context.Background())
	assert.Empty(t, env.transport.ofType(EventMedicationNudge))
}

func TestNudgeRespectsDayRestriction(t *testing.T) {
	env := newTestEnv()
	// Monday-only schedule; 2026-03-10 is a Tuesday.
	env.meds.meds = []models.Medication{{ID: 4, Name: "b12 shot", Time: "09:00", Days: "1"}}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := nudgeSessionAt(env, now)
	defer s.Close()

	s.pollMedications(context.Background())
	assert.Empty(t, env.transport.ofType(EventMedicationNudge))
}

func TestNudgeDisabledByPreference(t *testing.T) {
	env := newTestEnv()
	env.settings.settings.MedicationRemindersEnabled = false
	env.meds.meds = []models.Medication{{ID: 5, Name: "aspirin", Time: "09:00"}}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := nudgeSessionAt(env, now)
	defer s.Close()

	s.pollMedications(context.Background())
	assert.Empty(t, env.transport.ofType(EventMedicationNudge))
}

func TestNudgeSynthesisFailureStillSendsText(t *testing.T) {
	env := newTestEnv()
	env.tts.err = assert.AnError
	env.meds.meds = []models.Medication{{ID: 6, Name: "aspirin", Time: "09:00"}}

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := nudgeSessionAt(env, now)
	defer s.Close()

	s.pollMedications(context.Background())

	nudges := env.transport.ofType(EventMedicationNudge)
	require.Len(t, nudges, 1)
	assert.Empty(t, nudges[0].Audio)
	assert.NotEmpty(t, nudges[0].Text)
}

func TestNudgeLoopStopsOnClose(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(Config{NudgeInterval: 10 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not terminate the nudge loop")
	}
}
