// Package sentiment classifies user speech into happy / neutral / sad using a
// small lexicon. It is intentionally dependency-free and can never fail, so
// the conversation pipeline always gets a label.
package sentiment

import "strings"

const (
	LabelHappy   = "happy"
	LabelNeutral = "neutral"
	LabelSad     = "sad"
)

var positiveWords = map[string]struct{}{
	"happy": {}, "good": {}, "great": {}, "love": {}, "excellent": {},
	"nice": {}, "joy": {}, "pleased": {}, "wonderful": {}, "glad": {},
	"excited": {}, "amazing": {}, "lovely": {},
}

var negativeWords = map[string]struct{}{
	"sad": {}, "bad": {}, "angry": {}, "hate": {}, "terrible": {},
	"upset": {}, "lonely": {}, "depressed": {}, "miserable": {}, "hurt": {},
	"tired": {}, "alone": {}, "hopeless": {}, "worthless": {},
}

// Result carries the label plus the raw scores that produced it.
type Result struct {
	Sentiment string
	Compound  float64
	Positive  float64
	Negative  float64
	Neutral   float64
}

type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze scores the text by counting lexicon hits. Compound is in [-1, 1];
// >= 0.3 reads happy, <= -0.3 reads sad, anything between is neutral.
func (a *Analyzer) Analyze(text string) Result {
	words := strings.Fields(strings.ToLower(text))
	var pos, neg int
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:'\"")
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}

	total := len(words)
	if total == 0 {
		total = 1
	}
	posScore := float64(pos) / float64(total)
	negScore := float64(neg) / float64(total)
	compound := posScore - negScore

	// Short utterances carry few words; a single strong hit should still move
	// the label. Scale the compound by hit weight rather than raw ratio.
	if pos > 0 || neg > 0 {
		compound = float64(pos-neg) / float64(pos+neg)
	}

	label := LabelNeutral
	switch {
	case compound >= 0.3:
		label = LabelHappy
	case compound <= -0.3:
		label = LabelSad
	}

	return Result{
		Sentiment: label,
		Compound:  compound,
		Positive:  posScore,
		Negative:  negScore,
		Neutral:   1 - posScore - negScore,
	}
}

// Label is a convenience wrapper returning only the sentiment label.
func (a *Analyzer) Label(text string) string { return a.Analyze(text).Sentiment }
