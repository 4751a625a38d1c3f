package tts

import "context"

// Options shape how a reply is spoken.
type Options struct {
	Sentiment      string  // happy | neutral | sad, picks the voice style
	SpeechRate     float64 // 1.0 is normal
	SundowningHour int     // local hour after which pacing softens; 0 disables
	VoiceGender    string  // "female" | "male"
	Locale         string  // ex: "en-US"
}

type Provider interface {
	// Synthesize returns encoded audio bytes for the text.
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)
	Close() error
}
