package storage

import "context"

// Uploader archives raw utterance audio for later review.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}
