package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const murfDefaultBaseURL = "https://api.murf.ai/v1"

// Murf translates text through the Murf translate endpoint.
type Murf struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func NewMurf(apiKey, baseURL string) *Murf {
	if baseURL == "" {
		baseURL = murfDefaultBaseURL
	}
	return &Murf{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *Murf) Close() error { return nil }

func (m *Murf) Translate(ctx context.Context, texts []string, targetLanguage string) ([]string, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("murf api key is not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"targetLanguage": targetLanguage,
		"texts":          texts,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/text/translate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("murf translate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("murf translate: status %d", resp.StatusCode)
	}

	// The API has shipped both snake_case and camelCase keys; accept either.
	var parsed struct {
		Translations []struct {
			TranslatedText  string `json:"translated_text"`
			TranslatedText2 string `json:"translatedText"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Translations) != len(texts) {
		return nil, fmt.Errorf("murf translate: got %d translations for %d texts",
			len(parsed.Translations), len(texts))
	}

	out := make([]string, len(parsed.Translations))
	for i, tr := range parsed.Translations {
		if tr.TranslatedText != "" {
			out[i] = tr.TranslatedText
		} else {
			out[i] = tr.TranslatedText2
		}
	}
	return out, nil
}
