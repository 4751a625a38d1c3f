package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmenterDebounceFlush(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(Config{
		DebounceWindow: 30 * time.Millisecond,
		NudgeInterval:  time.Hour,
	})
	defer s.Close()

	s.Append([]byte("aaa"))
	s.Append([]byte("bbb"))
	s.Append([]byte("ccc"))

	require.Eventually(t, func() bool {
		env.asr.mu.Lock()
		defer env.asr.mu.Unlock()
		return env.asr.calls == 1
	}, time.Second, 5*time.Millisecond, "debounce should flush exactly one utterance")

	env.asr.mu.Lock()
	blob := env.asr.blobs[0]
	env.asr.mu.Unlock()
	assert.Equal(t, []byte("aaabbbccc"), blob, "fragments concatenate in arrival order")

	// A later append starts a fresh buffer.
	s.Append([]byte("ddd"))
	require.Eventually(t, func() bool {
		env.asr.mu.Lock()
		defer env.asr.mu.Unlock()
		return env.asr.calls == 2
	}, time.Second, 5*time.Millisecond)

	env.asr.mu.Lock()
	blob = env.asr.blobs[1]
	env.asr.mu.Unlock()
	assert.Equal(t, []byte("ddd"), blob)
}

func TestSegmenterRearmSingleFire(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(Config{
		DebounceWindow: 50 * time.Millisecond,
		NudgeInterval:  time.Hour,
	})
	defer s.Close()

	// Appends spaced inside the window keep pushing the timer out; only one
	// flush may result.
	for i := 0; i < 5; i++ {
		s.Append([]byte("x"))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		env.asr.mu.Lock()
		defer env.asr.mu.Unlock()
		return env.asr.calls == 1
	}, time.Second, 5*time.Millisecond)

	// Give a stale timer a chance to misfire, then confirm it did not.
	time.Sleep(120 * time.Millisecond)
	env.asr.mu.Lock()
	calls := env.asr.calls
	blob := env.asr.blobs[0]
	env.asr.mu.Unlock()
	assert.Equal(t, 1, calls, "one accumulation must flush exactly once")
	assert.Equal(t, []byte("xxxxx"), blob)
}

func TestExplicitEndOfUtterance(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(Config{
		DebounceWindow: time.Hour, // debounce never fires on its own
		NudgeInterval:  time.Hour,
	})
	defer s.Close()

	s.Append([]byte("hello"))
	s.EndOfUtterance()

	require.Eventually(t, func() bool {
		env.asr.mu.Lock()
		defer env.asr.mu.Unlock()
		return env.asr.calls == 1
	}, time.Second, 5*time.Millisecond)
}

func TestEmptyFlushEmitsNoSpeech(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(Config{
		DebounceWindow: time.Hour,
		NudgeInterval:  time.Hour,
	})
	defer s.Close()

	s.EndOfUtterance()

	events := env.transport.ofType(EventStatus)
	require.Len(t, events, 1)
	assert.Equal(t, StatusNoSpeech, events[0].Status)

	env.asr.mu.Lock()
	defer env.asr.mu.Unlock()
	assert.Zero(t, env.asr.calls, "empty flush must not reach the pipeline")
}

func TestAppendAfterCloseIsIgnored(t *testing.T) {
	env := newTestEnv()
	s := env.newSession(Config{NudgeInterval: time.Hour})
	s.Close()

	s.Append([]byte("late"))
	s.EndOfUtterance()

	env.asr.mu.Lock()
	defer env.asr.mu.Unlock()
	assert.Zero(t, env.asr.calls)
}
