package session

import "strings"

// Phase is the conversation mode a session is in.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseReminiscence Phase = "reminiscence"
)

var reminiscenceTriggers = []string{
	"lonely", "alone", "miss", "memories", "remember", "old days",
}

var stopWords = map[string]struct{}{
	"stop": {}, "enough": {}, "done": {},
}

// StateMachine tracks the idle/reminiscence phase for one session. Not safe
// for concurrent use; the pipeline serializes all calls.
type StateMachine struct {
	phase     Phase
	turnsLeft int
	maxTurns  int
}

func NewStateMachine(reminiscenceTurns int) *StateMachine {
	if reminiscenceTurns <= 0 {
		reminiscenceTurns = 3
	}
	return &StateMachine{phase: PhaseIdle, maxTurns: reminiscenceTurns}
}

func (m *StateMachine) Phase() Phase { return m.phase }

// Advance consumes one user turn and returns the phase the reply should be
// generated in. Sad sentiment or a loneliness/memory trigger word enters
// reminiscence for a fixed number of turns; a stop word or exhaustion returns
// to idle. Every turn spent in reminiscence decrements the remaining count.
func (m *StateMachine) Advance(text, sentiment string) Phase {
	lower := strings.ToLower(text)

	if m.phase == PhaseReminiscence {
		if containsStopWord(lower) {
			m.phase = PhaseIdle
			m.turnsLeft = 0
			return PhaseIdle
		}
		m.turnsLeft--
		if m.turnsLeft <= 0 {
			m.phase = PhaseIdle
		}
		// Reply is still generated in reminiscence mode for this turn.
		return PhaseReminiscence
	}

	if sentiment == "sad" || hasReminiscenceTrigger(lower) {
		m.phase = PhaseReminiscence
		m.turnsLeft = m.maxTurns
		return PhaseReminiscence
	}
	return PhaseIdle
}

func hasReminiscenceTrigger(lower string) bool {
	for _, trig := range reminiscenceTriggers {
		if strings.Contains(lower, trig) {
			return true
		}
	}
	return false
}

func containsStopWord(lower string) bool {
	for _, w := range strings.Fields(lower) {
		w = strings.Trim(w, ".,!?;:'\"")
		if _, ok := stopWords[w]; ok {
			return true
		}
	}
	return false
}
