package session

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/alerts"
	"github.com/hearthside/companion/internal/providers/asr"
	"github.com/hearthside/companion/internal/providers/llm"
	"github.com/hearthside/companion/internal/providers/translate"
	"github.com/hearthside/companion/internal/providers/tts"
	"github.com/hearthside/companion/internal/sentiment"
	"github.com/hearthside/companion/internal/services"
	"github.com/hearthside/companion/internal/storage"
)

// Deps are the collaborators one session calls out to. Escalator and
// Archiver may be nil; everything else is required.
type Deps struct {
	ASR           asr.Provider
	LLM           llm.Provider
	TTS           tts.Provider
	Translator    translate.Provider
	Sentiment     *sentiment.Analyzer
	Conversations services.ConversationService
	Medications   services.MedicationService
	Settings      services.SettingsService
	Sessions      services.SessionService
	Escalator     alerts.Notifier
	Archiver      storage.Uploader
	Logger        *logrus.Logger
}

// Config carries the tunables; zero values fall back to the defaults below.
type Config struct {
	DebounceWindow    time.Duration // silence gap that ends an utterance
	NudgeInterval     time.Duration // medication poll cadence
	NudgeLead         time.Duration // "upcoming" window before scheduled time
	NudgeGrace        time.Duration // "due" window around scheduled time
	RiskThreshold     int
	ReminiscenceTurns int
	ContextTurns      int    // recent turns fed to the generator
	WorkingLanguage   string // pipeline-internal language
	MIMEHint          string // incoming audio container
	Now               func() time.Time
}

func (c Config) withDefaults() Config {
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = 800 * time.Millisecond
	}
	if c.NudgeInterval <= 0 {
		c.NudgeInterval = 30 * time.Second
	}
	if c.NudgeLead <= 0 {
		c.NudgeLead = 10 * time.Minute
	}
	if c.NudgeGrace <= 0 {
		c.NudgeGrace = 2 * time.Minute
	}
	if c.RiskThreshold <= 0 {
		c.RiskThreshold = 5
	}
	if c.ReminiscenceTurns <= 0 {
		c.ReminiscenceTurns = 3
	}
	if c.ContextTurns <= 0 {
		c.ContextTurns = 3
	}
	if c.WorkingLanguage == "" {
		c.WorkingLanguage = "en-US"
	}
	if c.MIMEHint == "" {
		c.MIMEHint = "audio/webm"
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// turnQueueDepth bounds how many flushed utterances may wait while one is
// mid-pipeline. At normal speech cadence this is never approached.
const turnQueueDepth = 32

type nudgeKey struct {
	medID int64
	phase string // "upcoming" | "due"
	date  string // YYYY-MM-DD
}

// Session owns all per-connection state. Audio fragments flow in through
// Append/EndOfUtterance; completed utterances queue to a single worker that
// runs the pipeline, so turns of one session are strictly serialized and
// never dropped.
type Session struct {
	ID        string
	CreatedAt time.Time

	transport Transport
	deps      Deps
	cfg       Config
	log       *logrus.Entry

	// segMu guards the utterance buffer, debounce timer, and closed flag.
	segMu    sync.Mutex
	buf      bytes.Buffer
	timer    *time.Timer
	timerGen uint64
	closed   bool

	turnCh     chan []byte
	workerDone chan struct{}

	// pipeMu serializes pipeline turns; state and risk are only touched
	// while it is held.
	pipeMu sync.Mutex
	state  *StateMachine
	risk   *RiskMonitor

	nudgeCancel context.CancelFunc
	nudgeDone   chan struct{}

	nudgeMu   sync.Mutex
	nudgeSent map[nudgeKey]struct{}
}

// New builds a session and starts its worker and nudge loop.
func New(id string, transport Transport, deps Deps, cfg Config) *Session {
	cfg = cfg.withDefaults()

	nudgeCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:          id,
		CreatedAt:   cfg.Now(),
		transport:   transport,
		deps:        deps,
		cfg:         cfg,
		log:         deps.Logger.WithField("session_id", id),
		turnCh:      make(chan []byte, turnQueueDepth),
		workerDone:  make(chan struct{}),
		state:       NewStateMachine(cfg.ReminiscenceTurns),
		risk:        NewRiskMonitor(cfg.RiskThreshold),
		nudgeCancel: cancel,
		nudgeDone:   make(chan struct{}),
		nudgeSent:   make(map[nudgeKey]struct{}),
	}

	go s.runWorker()
	go s.runNudgeLoop(nudgeCtx)
	return s
}

// runWorker drains the turn queue one utterance at a time. It exits after
// Close closes the queue and every queued turn has finished.
func (s *Session) runWorker() {
	defer close(s.workerDone)
	for audio := range s.turnCh {
		s.processUtterance(context.Background(), audio)
	}
}

// Close tears the session down: the debounce timer is cancelled first, then
// the nudge loop is signalled and awaited, then any queued or in-flight turn
// is allowed to finish before the call returns.
func (s *Session) Close() {
	s.segMu.Lock()
	if s.closed {
		s.segMu.Unlock()
		return
	}
	s.closed = true
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	close(s.turnCh)
	s.segMu.Unlock()

	s.nudgeCancel()
	<-s.nudgeDone
	<-s.workerDone

	s.log.Info("session closed")
}

func (s *Session) send(ev Event) bool {
	return s.transport.Send(ev)
}
