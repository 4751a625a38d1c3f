package llm

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

// VertexGemini is an alternative generation provider on Vertex AI.
type VertexGemini struct {
	client *genai.Client
	model  string
}

func NewVertexGemini(ctx context.Context, project, location, model string) (*VertexGemini, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	c, err := genai.NewClient(ctx, project, location)
	if err != nil {
		return nil, err
	}
	return &VertexGemini{client: c, model: model}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Generate(ctx context.Context, req Request) (string, error) {
	system, user := BuildMessages(req)

	m := v.client.GenerativeModel(v.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	temp := float32(0.7)
	m.Temperature = &temp

	iter := m.GenerateContentStream(ctx, genai.Text(user))
	var b strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("vertex generate: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					b.WriteString(string(t))
				}
			}
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("vertex returned empty response")
	}
	return out, nil
}
