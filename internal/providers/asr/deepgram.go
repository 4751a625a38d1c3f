package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const deepgramListenURL = "https://api.deepgram.com/v1/listen"

// Deepgram transcribes pre-recorded utterances via the Deepgram REST API.
type Deepgram struct {
	apiKey string
	model  string
	httpc  *http.Client
}

func NewDeepgram(apiKey, model string) *Deepgram {
	if model == "" {
		model = "nova-3"
	}
	return &Deepgram{
		apiKey: apiKey,
		model:  model,
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (d *Deepgram) Close() error { return nil }

func (d *Deepgram) Transcribe(ctx context.Context, audio []byte, opts Options) (string, error) {
	langs := make([]string, 0, 1+len(opts.FallbackLanguages))
	if opts.Language != "" {
		langs = append(langs, opts.Language)
	}
	for _, l := range opts.FallbackLanguages {
		if l != "" && !contains(langs, l) {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"en-US"}
	}

	// Give the provider at least the configured patience window on top of a
	// base deadline before giving up on the whole attempt chain.
	deadline := 15*time.Second + time.Duration(opts.PatienceMS)*time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, deadline*time.Duration(len(langs)))
	defer cancel()

	var lastErr error
	for _, lang := range langs {
		text, err := d.recognize(ctx, audio, opts.MIMEHint, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("deepgram: %w", lastErr)
	}
	return "", nil
}

func (d *Deepgram) recognize(ctx context.Context, audio []byte, mimeHint, language string) (string, error) {
	if d.apiKey == "" {
		return "", fmt.Errorf("deepgram api key is not configured")
	}

	q := url.Values{}
	q.Set("model", d.model)
	q.Set("punctuate", "true")
	if language != "" {
		q.Set("language", language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		deepgramListenURL+"?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	if mimeHint == "" {
		mimeHint = "audio/webm"
	}
	req.Header.Set("Content-Type", mimeHint)

	resp, err := d.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string  `json:"transcript"`
					Confidence float64 `json:"confidence"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}

	var best string
	var bestConf float64
	for _, ch := range parsed.Results.Channels {
		for _, alt := range ch.Alternatives {
			if alt.Transcript != "" && alt.Confidence >= bestConf {
				best = alt.Transcript
				bestConf = alt.Confidence
			}
		}
	}
	return best, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
