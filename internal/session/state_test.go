package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateMachineEntersReminiscenceOnSadness(t *testing.T) {
	m := NewStateMachine(3)
	assert.Equal(t, PhaseIdle, m.Phase())

	got := m.Advance("I had a rough day", "sad")
	assert.Equal(t, PhaseReminiscence, got)
	assert.Equal(t, PhaseReminiscence, m.Phase())
}

func TestStateMachineEntersReminiscenceOnTriggerWord(t *testing.T) {
	m := NewStateMachine(3)

	got := m.Advance("I miss the old days on the farm", "neutral")
	assert.Equal(t, PhaseReminiscence, got)
}

func TestStateMachineExhaustsAfterThreeTurns(t *testing.T) {
	m := NewStateMachine(3)
	m.Advance("I feel so lonely", "sad")
	assert.Equal(t, PhaseReminiscence, m.Phase())

	// Three more qualifying turns, then back to idle.
	assert.Equal(t, PhaseReminiscence, m.Advance("we had a garden", "neutral"))
	assert.Equal(t, PhaseReminiscence, m.Advance("roses mostly", "neutral"))
	assert.Equal(t, PhaseReminiscence, m.Advance("every summer", "neutral"))
	assert.Equal(t, PhaseIdle, m.Phase())

	assert.Equal(t, PhaseIdle, m.Advance("what's for lunch", "neutral"))
}

func TestStateMachineStopWordExits(t *testing.T) {
	m := NewStateMachine(3)
	m.Advance("I remember my wedding day", "neutral")
	assert.Equal(t, PhaseReminiscence, m.Phase())

	got := m.Advance("that's enough for now", "neutral")
	assert.Equal(t, PhaseIdle, got)
	assert.Equal(t, PhaseIdle, m.Phase())
}

func TestStateMachineStaysIdleOnNeutral(t *testing.T) {
	m := NewStateMachine(3)
	assert.Equal(t, PhaseIdle, m.Advance("the weather is fine", "neutral"))
	assert.Equal(t, PhaseIdle, m.Advance("I watched the news", "happy"))
}
