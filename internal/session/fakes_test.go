package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/alerts"
	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/providers/asr"
	"github.com/hearthside/companion/internal/providers/llm"
	"github.com/hearthside/companion/internal/providers/tts"
	"github.com/hearthside/companion/internal/sentiment"
)

type fakeTransport struct {
	mu     sync.Mutex
	events []Event
}

func (t *fakeTransport) Send(ev Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, ev)
	return true
}

func (t *fakeTransport) all() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

func (t *fakeTransport) ofType(typ string) []Event {
	var out []Event
	for _, ev := range t.all() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type fakeASR struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	blobs [][]byte
}

func (f *fakeASR) Transcribe(_ context.Context, audio []byte, _ asr.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.blobs = append(f.blobs, audio)
	return f.text, f.err
}

func (f *fakeASR) Close() error { return nil }

type fakeLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	last  llm.Request
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.reply, f.err
}

func (f *fakeLLM) Close() error { return nil }

type fakeTTS struct {
	mu    sync.Mutex
	audio []byte
	err   error
	calls int
}

func (f *fakeTTS) Synthesize(_ context.Context, _ string, _ tts.Options) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.audio, f.err
}

func (f *fakeTTS) Close() error { return nil }

type fakeTranslator struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, texts []string, target string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "[" + target + "] " + t
	}
	return out, nil
}

func (f *fakeTranslator) Close() error { return nil }

type fakeConversations struct {
	mu      sync.Mutex
	turns   []models.ConversationTurn
	context string
}

func (f *fakeConversations) Append(_ context.Context, turn *models.ConversationTurn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, *turn)
	return nil
}

func (f *fakeConversations) Recent(_ context.Context, _ string, _ int) ([]models.ConversationTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.turns, nil
}

func (f *fakeConversations) ListRecent(_ context.Context, _ int) ([]models.ConversationTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.turns, nil
}

func (f *fakeConversations) RecentContext(_ context.Context, _ string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.context == "" {
		return "No previous conversations.", nil
	}
	return f.context, nil
}

func (f *fakeConversations) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.turns)
}

type fakeMedications struct {
	mu       sync.Mutex
	meds     []models.Medication
	reminded []int64
}

func (f *fakeMedications) List(_ context.Context) ([]models.Medication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meds, nil
}

func (f *fakeMedications) Add(_ context.Context, _ *models.Medication) error    { return nil }
func (f *fakeMedications) Update(_ context.Context, _ *models.Medication) error { return nil }
func (f *fakeMedications) Delete(_ context.Context, _ int64) error              { return nil }

func (f *fakeMedications) Due(_ context.Context, _ time.Time, _ time.Duration) ([]models.Medication, error) {
	return nil, errors.New("not used in tests")
}

func (f *fakeMedications) MarkReminded(_ context.Context, id int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminded = append(f.reminded, id)
	return nil
}

func (f *fakeMedications) MarkTaken(_ context.Context, _ int64, _ time.Time) error { return nil }

type fakeSettings struct {
	mu       sync.Mutex
	settings models.Settings
}

func (f *fakeSettings) Effective(_ context.Context) models.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

func (f *fakeSettings) Save(_ context.Context, _ models.SettingsUpdate) (models.Settings, error) {
	return f.settings, nil
}

type fakeSessions struct {
	mu    sync.Mutex
	turns int
}

func (f *fakeSessions) Start(_ context.Context, _ string) {}
func (f *fakeSessions) End(_ context.Context, _ string)   {}

func (f *fakeSessions) TurnCompleted(_ context.Context, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns++
}

type fakeEscalator struct {
	mu     sync.Mutex
	alerts []alerts.Alert
}

func (f *fakeEscalator) Escalate(_ context.Context, a alerts.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return nil
}

func (f *fakeEscalator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

type testEnv struct {
	transport *fakeTransport
	asr       *fakeASR
	llm       *fakeLLM
	tts       *fakeTTS
	trans     *fakeTranslator
	convs     *fakeConversations
	meds      *fakeMedications
	settings  *fakeSettings
	sessions  *fakeSessions
	escalator *fakeEscalator
}

func newTestEnv() *testEnv {
	return &testEnv{
		transport: &fakeTransport{},
		asr:       &fakeASR{text: "hello there"},
		llm:       &fakeLLM{reply: "hello to you"},
		tts:       &fakeTTS{audio: []byte("mp3")},
		trans:     &fakeTranslator{},
		convs:     &fakeConversations{},
		meds:      &fakeMedications{},
		settings:  &fakeSettings{settings: models.DefaultSettings()},
		sessions:  &fakeSessions{},
		escalator: &fakeEscalator{},
	}
}

func (e *testEnv) deps() Deps {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return Deps{
		ASR:           e.asr,
		LLM:           e.llm,
		TTS:           e.tts,
		Translator:    e.trans,
		Sentiment:     sentiment.NewAnalyzer(),
		Conversations: e.convs,
		Medications:   e.meds,
		Settings:      e.settings,
		Sessions:      e.sessions,
		Escalator:     e.escalator,
		Logger:        log,
	}
}

func (e *testEnv) newSession(cfg Config) *Session {
	return New("test-session", e.transport, e.deps(), cfg)
}
