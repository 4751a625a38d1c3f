package translate

import "context"

type Provider interface {
	// Translate renders each text into the target language, preserving order.
	Translate(ctx context.Context, texts []string, targetLanguage string) ([]string, error)
	Close() error
}
