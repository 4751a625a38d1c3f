package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/alerts"
	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/providers/asr"
	"github.com/hearthside/companion/internal/providers/llm"
	"github.com/hearthside/companion/internal/providers/tts"
)

// fallbackReply replaces the generated response whenever a provider stage
// fails. Raw provider errors never reach the user.
const fallbackReply = "I'm here to listen. Can you tell me more about that?"

// processUtterance runs the staged pipeline for one flushed utterance.
// pipeMu is held for the full duration so turns are strictly serialized.
func (s *Session) processUtterance(ctx context.Context, audio []byte) {
	s.pipeMu.Lock()
	defer s.pipeMu.Unlock()

	started := s.cfg.Now()
	s.send(Event{Type: EventStatus, Status: StatusProcessing})

	// Settings are re-read every turn so changes apply to the next utterance.
	settings := s.deps.Settings.Effective(ctx)

	s.archiveAudio(ctx, audio)

	transcript, err := s.deps.ASR.Transcribe(ctx, audio, asr.Options{
		MIMEHint:          s.cfg.MIMEHint,
		Language:          settings.VoiceLocale,
		PatienceMS:        settings.PatienceMS,
		FallbackLanguages: []string{s.cfg.WorkingLanguage},
	})
	if err != nil {
		s.log.WithError(err).Warn("transcription failed")
		s.send(Event{Type: EventStatus, Status: StatusNoSpeech})
		return
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		s.send(Event{Type: EventStatus, Status: StatusNoSpeech})
		return
	}

	s.send(Event{Type: EventTranscript, Text: transcript})

	// Inbound locale detour: the pipeline reasons in the working language.
	detour := !sameLanguage(settings.VoiceLocale, s.cfg.WorkingLanguage)
	workingText := transcript
	if detour {
		translated, err := s.deps.Translator.Translate(ctx, []string{transcript}, s.cfg.WorkingLanguage)
		if err != nil || len(translated) == 0 {
			s.log.WithError(err).Warn("inbound translation failed")
			s.deliverReply(ctx, settings, fallbackReply, "neutral", string(s.state.Phase()))
			s.send(Event{Type: EventStatus, Status: StatusDone})
			return
		}
		workingText = translated[0]
	}

	res := s.deps.Sentiment.Analyze(workingText)

	if s.risk.Observe(workingText, res.Sentiment) {
		s.escalate(ctx, workingText)
	}

	phase := s.state.Advance(workingText, res.Sentiment)

	recent, err := s.deps.Conversations.RecentContext(ctx, s.ID, s.cfg.ContextTurns)
	if err != nil {
		s.log.WithError(err).Warn("failed to load recent context")
		recent = ""
	}

	reply, err := s.deps.LLM.Generate(ctx, llm.Request{
		UserText:  workingText,
		Sentiment: res.Sentiment,
		Context:   recent,
		State:     string(phase),
	})
	if err != nil {
		s.log.WithError(err).Warn("generation failed")
		reply = fallbackReply
	}

	// Outbound detour: speak the reply in the user's locale.
	spoken := reply
	if detour {
		translated, err := s.deps.Translator.Translate(ctx, []string{reply}, settings.VoiceLocale)
		if err != nil || len(translated) == 0 {
			s.log.WithError(err).Warn("outbound translation failed")
			spoken = fallbackReply
		} else {
			spoken = translated[0]
		}
	}

	s.persistTurn(ctx, transcript, reply, res.Sentiment, string(phase))

	s.deliverReply(ctx, settings, spoken, res.Sentiment, string(phase))
	s.send(Event{Type: EventStatus, Status: StatusDone})

	s.deps.Sessions.TurnCompleted(ctx, s.ID)

	s.log.WithFields(logrus.Fields{
		"sentiment": res.Sentiment,
		"state":     string(phase),
		"detour":    detour,
		"elapsed":   s.cfg.Now().Sub(started).String(),
	}).Info("turn completed")
}

// deliverReply emits the response text and, best effort, its synthesized
// audio. A synthesis failure downgrades the turn to text only.
func (s *Session) deliverReply(ctx context.Context, settings models.Settings, text, sentimentLabel, phase string) {
	s.send(Event{
		Type:      EventResponse,
		Text:      text,
		Sentiment: sentimentLabel,
		State:     phase,
	})

	audio, err := s.deps.TTS.Synthesize(ctx, text, tts.Options{
		Sentiment:      sentimentLabel,
		SpeechRate:     settings.SpeechRate,
		SundowningHour: settings.SundowningHour,
		VoiceGender:    settings.VoiceGender,
		Locale:         settings.VoiceLocale,
	})
	if err != nil {
		s.log.WithError(err).Warn("synthesis failed, sending text only")
		return
	}
	s.send(Event{Type: EventAudio, Audio: audio})
}

func (s *Session) persistTurn(ctx context.Context, transcript, reply, sentimentLabel, phase string) {
	err := s.deps.Conversations.Append(ctx, &models.ConversationTurn{
		SessionID:  s.ID,
		Transcript: transcript,
		Response:   reply,
		Sentiment:  sentimentLabel,
		State:      phase,
		Timestamp:  s.cfg.Now(),
	})
	if err != nil {
		s.log.WithError(err).Error("failed to persist turn")
	}
}

func (s *Session) escalate(ctx context.Context, transcript string) {
	if s.deps.Escalator == nil {
		s.log.Warn("risk threshold crossed but no escalation destination is configured")
		return
	}
	err := s.deps.Escalator.Escalate(ctx, alerts.Alert{
		SessionID:  s.ID,
		Transcript: transcript,
		Reason:     "consecutive risk-indicating turns",
		RiskTurns:  s.cfg.RiskThreshold,
		At:         s.cfg.Now(),
	})
	if err != nil {
		s.log.WithError(err).Error("escalation failed")
	}
}

// archiveAudio stores the raw utterance for later review when an archiver is
// configured. Failures are logged and ignored.
func (s *Session) archiveAudio(ctx context.Context, audio []byte) {
	if s.deps.Archiver == nil {
		return
	}
	name := fmt.Sprintf("sessions/%s/%d.webm", s.ID, s.cfg.Now().UnixMilli())
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := s.deps.Archiver.Upload(cctx, name, audio, s.cfg.MIMEHint); err != nil {
		s.log.WithError(err).Warn("failed to archive utterance audio")
	}
}

// sameLanguage compares locales by primary subtag, so "en-GB" and "en-US"
// skip the translation detour.
func sameLanguage(a, b string) bool {
	return primaryTag(a) == primaryTag(b)
}

func primaryTag(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}
