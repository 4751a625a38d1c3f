package asr

import "context"

// Options tune a single transcription request.
type Options struct {
	MIMEHint          string // ex: "audio/webm;codecs=opus"
	Language          string // ex: "en-US"
	PatienceMS        int    // silence tolerance hint; bounds the request deadline
	FallbackLanguages []string
}

type Provider interface {
	// Transcribe returns the recognized text for a finished utterance. An
	// empty string with a nil error means no speech was detected. Fallback
	// languages are tried in order until one yields non-empty text.
	Transcribe(ctx context.Context, audio []byte, opts Options) (string, error)
	Close() error
}
