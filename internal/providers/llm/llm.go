package llm

import "context"

// Request carries everything the model needs to shape a companion reply.
type Request struct {
	UserText  string
	Sentiment string            // happy | neutral | sad
	Context   string            // recent turns, "User: ...\nAI: ..." lines
	State     string            // conversation state hint, ex: "reminiscence"
	Extra     map[string]string // state-specific values, ex: medication name
}

type Provider interface {
	// Generate produces the assistant reply text for one user utterance.
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}
