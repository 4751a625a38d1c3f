package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	groqDefaultModel = "llama-3.1-8b-instant"
)

// Groq generates replies through Groq's OpenAI-compatible chat API.
type Groq struct {
	client *openai.Client
	model  string
}

func NewGroq(apiKey, model string) *Groq {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	if model == "" {
		model = groqDefaultModel
	}
	return &Groq{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *Groq) Close() error { return nil }

func (g *Groq) Generate(ctx context.Context, req Request) (string, error) {
	system, user := BuildMessages(req)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
