package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const murfDefaultBaseURL = "https://api.murf.ai/v1"

var murfVoices = map[string]string{
	"en-US/female": "en-US-natalie",
	"en-US/male":   "en-US-miles",
	"en-UK/female": "en-UK-hazel",
	"en-UK/male":   "en-UK-theo",
	"es-ES/female": "es-ES-elvira",
	"es-ES/male":   "es-ES-enrique",
	"fr-FR/female": "fr-FR-adélie",
	"fr-FR/male":   "fr-FR-maxime",
	"de-DE/female": "de-DE-lia",
	"de-DE/male":   "de-DE-matthias",
	"hi-IN/female": "hi-IN-ayushi",
	"hi-IN/male":   "hi-IN-kabir",
}

// Murf synthesizes speech through the Murf generate endpoint.
type Murf struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	now     func() time.Time // injectable for the sundowning check
}

func NewMurf(apiKey, baseURL string) *Murf {
	if baseURL == "" {
		baseURL = murfDefaultBaseURL
	}
	return &Murf{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
		now:     time.Now,
	}
}

func (m *Murf) Close() error { return nil }

func (m *Murf) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("murf api key is not configured")
	}

	style := styleFor(opts.Sentiment)
	rate := opts.SpeechRate
	if rate <= 0 {
		rate = 1.0
	}
	pitch := 0.0

	// Evening pacing: slow down and soften once the sundowning hour passes.
	if opts.SundowningHour > 0 && m.now().Hour() >= opts.SundowningHour {
		rate *= 0.9
		pitch = -0.1
		style = "Soft"
	}

	payload := map[string]any{
		"text":    text,
		"voiceId": voiceFor(opts.Locale, opts.VoiceGender),
		"style":   style,
		"rate":    rate,
		"pitch":   pitch,
		"format":  "MP3",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/speech/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("murf generate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("murf generate: status %d", resp.StatusCode)
	}

	var parsed struct {
		EncodedAudio string `json:"encodedAudio"`
		AudioFile    string `json:"audioFile"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	if parsed.EncodedAudio != "" {
		audio, err := base64.StdEncoding.DecodeString(parsed.EncodedAudio)
		if err != nil {
			return nil, fmt.Errorf("decode murf audio: %w", err)
		}
		return audio, nil
	}
	if parsed.AudioFile != "" {
		return m.fetch(ctx, parsed.AudioFile)
	}
	return nil, fmt.Errorf("murf response had no audio")
}

func (m *Murf) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch murf audio: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 16<<20))
}

func voiceFor(locale, gender string) string {
	if locale == "" {
		locale = "en-US"
	}
	if gender == "" {
		gender = "female"
	}
	if v, ok := murfVoices[locale+"/"+gender]; ok {
		return v
	}
	return murfVoices["en-US/"+gender]
}

func styleFor(sentiment string) string {
	switch sentiment {
	case "happy":
		return "Excited"
	case "sad":
		return "Whisper"
	default:
		return "Conversational"
	}
}
