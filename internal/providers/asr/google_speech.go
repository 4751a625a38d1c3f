package asr

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

// GoogleSpeech is an alternative ASR provider backed by Google Cloud Speech.
type GoogleSpeech struct {
	c *speech.Client
}

func NewGoogleSpeech(ctx context.Context) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{c: c}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio []byte, opts Options) (string, error) {
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

	encoding := speechpb.RecognitionConfig_LINEAR16
	sampleRate := int32(16000)
	if strings.Contains(opts.MIMEHint, "webm") {
		encoding = speechpb.RecognitionConfig_WEBM_OPUS
		sampleRate = 48000
	}

	var lastErr error
	for _, lang := range langs {
		resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
			Config: &speechpb.RecognitionConfig{
				Encoding:                   encoding,
				SampleRateHertz:            sampleRate,
				LanguageCode:               lang,
				EnableAutomaticPunctuation: true,
			},
			Audio: &speechpb.RecognitionAudio{
				AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
			},
		})
		if err != nil {
			lastErr = err
			continue
		}

		var best string
		var bestConf float64
		for _, r := range resp.Results {
			for _, alt := range r.Alternatives {
				if alt.Transcript != "" && float64(alt.Confidence) >= bestConf {
					best = alt.Transcript
					bestConf = float64(alt.Confidence)
				}
			}
		}
		if strings.TrimSpace(best) != "" {
			return best, nil
		}
	}
	return "", lastErr
}
