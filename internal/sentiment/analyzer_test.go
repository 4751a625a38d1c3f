package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeLabels(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"sad words", "I feel so lonely and sad today", LabelSad},
		{"happy words", "what a wonderful and lovely morning", LabelHappy},
		{"neutral", "I went to the store this afternoon", LabelNeutral},
		{"mixed leans neutral", "the weather was good but I felt tired", LabelNeutral},
		{"empty", "", LabelNeutral},
		{"punctuation stripped", "I'm depressed.", LabelSad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze(tt.text).Sentiment)
		})
	}
}

func TestAnalyzeScores(t *testing.T) {
	a := NewAnalyzer()

	res := a.Analyze("happy happy sad")
	assert.Greater(t, res.Compound, 0.0)
	assert.Equal(t, LabelHappy, res.Sentiment)

	res = a.Analyze("nothing emotional here at all")
	assert.Equal(t, 0.0, res.Compound)
}
