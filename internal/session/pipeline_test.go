package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietConfig() Config {
	return Config{NudgeInterval: time.Hour}
}

func TestPipelineHappyPath(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(quietConfig())
	defer s.Close()

	s.processUtterance(context.Background(), []byte("audio"))

	types := make([]string, 0)
	for _, ev := range env.transport.all() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{EventStatus, EventTranscript, EventResponse, EventAudio, EventStatus}, types)

	statuses := env.transport.ofType(EventStatus)
	assert.Equal(t, StatusProcessing, statuses[0].Status)
	assert.Equal(t, StatusDone, statuses[1].Status)

	responses := env.transport.ofType(EventResponse)
	require.Len(t, responses, 1)
	assert.Equal(t, "hello to you", responses[0].Text)

	assert.Equal(t, 1, env.convs.count(), "turn is persisted")
	assert.Zero(t, env.trans.calls, "no locale detour for the working language")

	env.sessions.mu.Lock()
	assert.Equal(t, 1, env.sessions.turns)
	env.sessions.mu.Unlock()
}

func TestPipelineEmptyTranscriptSkipsAllStages(t *testing.T) {
	env := newTestEnv()
	env.asr.text = ""
	s := env.newSession(quietConfig())
	defer s.Close()

	s.processUtterance(context.Background(), []byte("audio"))

	statuses := env.transport.ofType(EventStatus)
	require.Len(t, statuses, 2)
	assert.Equal(t, StatusNoSpeech, statuses[1].Status)

	env.llm.mu.Lock()
	assert.Zero(t, env.llm.calls, "generation is skipped")
	env.llm.mu.Unlock()
	env.tts.mu.Lock()
	assert.Zero(t, env.tts.calls, "synthesis is skipped")
	env.tts.mu.Unlock()
	assert.Zero(t, env.convs.count(), "nothing is persisted")
}

func TestPipelineASRFailureEmitsNoSpeech(t *testing.T) {
	env := newTestEnv()
	env.asr.err = errors.New("provider down")
	s := env.newSession(quietConfig())
	defer s.Close()

	s.processUtterance(context.Background(), []byte("audio"))

	statuses := env.transport.ofType(EventStatus)
	require.Len(t, statuses, 2)
	assert.Equal(t, StatusNoSpeech, statuses[1].Status)
	assert.Zero(t, env.convs.count())
}

func TestPipelineInboundDetourFailureSkipsGeneration(t *testing.T) {
	env := newTestEnv()
	env.settings.settings.VoiceLocale = "es-ES"
	env.trans.err = errors.New("translate down")
	s := env.newSession(quietConfig())
	defer s.Close()

	s.processUtterance(context.Background(), []byte("audio"))

	responses := env.transport.ofType(EventResponse)
	require.Len(t, responses, 1)
	assert.Equal(t, fallbackReply, responses[0].Text)

	env.llm.mu.Lock()
	assert.Zero(t, env.llm.calls, "generation never runs after an inbound detour failure")
	env.llm.mu.Unlock()
	assert.Zero(t, env.convs.count())

	// The fallback is still spoken.
	assert.Len(t, env.transport.ofType(EventAudio), 1)
}

func TestPipelineLocaleDetourRoundTrip(t *testing.T) {
	env := newTestEnv()
	env.settings.settings.VoiceLocale = "es-ES"
	s := env.newSession(quietConfig())
	defer s.Close()

	s.processUtterance(context.Background(), []byte("audio"))

	env.llm.mu.Lock()
	assert.Equal(t, "[en-US] hello there", env.llm.last.UserText, "generator sees the working-language text")
	env.llm.mu.Unlock()

	responses := env.transport.ofType(EventResponse)
	require.Len(t, responses, 1)
	assert.Equal(t, "[es-ES] hello to you", responses[0].Text, "reply is spoken in the user's locale")

	env.trans.mu.Lock()
	assert.Equal(t, 2, env.trans.calls)
	env.trans.mu.Unlock()
}

func TestPipelineGenerationFailureUsesFallback(t *testing.T) {
	env := newTestEnv()
	env.llm.err = errors.New("llm down")
	s := env.newSession(quietConfig())
	defer s.Close()

	s.processUtterance(context.Background(), []byte("audio"))

	responses := env.transport.ofType(EventResponse)
	require.Len(t, responses, 1)
	assert.Equal(t, fallbackReply, responses[0].Text)
	assert.Equal(t, 1, env.convs.count(), "fallback turn is still persisted")
}

func TestPipelineSynthesisFailureSendsTextOnly(t *testing.T) {
	env := newTestEnv()
	env.tts.err = errors.New("tts down")
	s := env.newSession(quietConfig())
	defer s.Close()

	s.processUtterance(context.Background(), []byte("audio"))

	assert.Len(t, env.transport.ofType(EventResponse), 1)
	assert.Empty(t, env.transport.ofType(EventAudio))

	statuses := env.transport.ofType(EventStatus)
	assert.Equal(t, StatusDone, statuses[len(statuses)-1].Status, "turn still completes")
}

func TestPipelineEscalatesAfterConsecutiveRiskTurns(t *testing.T) {
	env := newTestEnv()
	env.asr.text = "I feel hopeless and alone"
	cfg := quietConfig()
	cfg.RiskThreshold = 3
	s := env.newSession(cfg)
	defer s.Close()

	for i := 0; i < 3; i++ {
		s.processUtterance(context.Background(), []byte("audio"))
	}
	assert.Equal(t, 1, env.escalator.count(), "exactly one escalation at the threshold")

	s.processUtterance(context.Background(), []byte("audio"))
	assert.Equal(t, 1, env.escalator.count(), "no immediate re-fire")
}

func TestPipelineTurnsAreSerializedThroughQueue(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(Config{
		DebounceWindow: time.Hour,
		NudgeInterval:  time.Hour,
	})

	s.Append([]byte("one"))
	s.EndOfUtterance()
	s.Append([]byte("two"))
	s.EndOfUtterance()

	// Close waits for queued turns to finish.
	s.Close()

	env.asr.mu.Lock()
	defer env.asr.mu.Unlock()
	require.Equal(t, 2, env.asr.calls)
	assert.Equal(t, []byte("one"), env.asr.blobs[0])
	assert.Equal(t, []byte("two"), env.asr.blobs[1])
}
