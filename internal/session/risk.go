package session

import "strings"

var riskKeywords = []string{
	"hurt myself", "kill myself", "end it all", "don't want to live",
	"want to die", "no reason to live", "better off without me",
	"harm myself", "give up on life",
}

// RiskMonitor counts consecutive concerning turns and fires once when the
// streak reaches the threshold. Not safe for concurrent use; the pipeline
// serializes all calls.
type RiskMonitor struct {
	streak    int
	threshold int
}

func NewRiskMonitor(threshold int) *RiskMonitor {
	if threshold <= 0 {
		threshold = 5
	}
	return &RiskMonitor{threshold: threshold}
}

// Observe scores one turn. It returns true exactly when the streak reaches
// the threshold; the streak resets after firing and on any benign turn.
func (m *RiskMonitor) Observe(text, sentiment string) bool {
	if !isConcerning(text, sentiment) {
		m.streak = 0
		return false
	}
	m.streak++
	if m.streak >= m.threshold {
		m.streak = 0
		return true
	}
	return false
}

func (m *RiskMonitor) Streak() int { return m.streak }

func isConcerning(text, sentiment string) bool {
	lower := strings.ToLower(text)
	for _, kw := range riskKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return sentiment == "sad"
}
