package session

// Utterance segmentation: fragments accumulate in the session buffer until
// either the debounce window elapses with no new audio or the client signals
// end-of-utterance. Fragments arriving while a previous utterance is still
// mid-pipeline simply start the next buffer; nothing blocks and nothing is
// dropped.

import "time"

func newTimer(d time.Duration, f func()) *time.Timer {
	return time.AfterFunc(d, f)
}

// Append adds one audio fragment and re-arms the debounce timer. The previous
// pending timer, if any, is always invalidated first so at most one timer is
// pending per session.
func (s *Session) Append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	s.segMu.Lock()
	defer s.segMu.Unlock()
	if s.closed {
		return
	}

	s.buf.Write(chunk)

	s.timerGen++
	gen := s.timerGen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = newTimer(s.cfg.DebounceWindow, func() { s.onSilence(gen) })
}

// EndOfUtterance is the explicit client flush. An empty buffer yields a
// no_speech status without touching the pipeline.
func (s *Session) EndOfUtterance() {
	s.segMu.Lock()
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.flushLocked()
	s.segMu.Unlock()
}

// onSilence fires when the debounce window elapses. The generation check
// discards stale timers that lost a race with a newer append or flush.
func (s *Session) onSilence(gen uint64) {
	s.segMu.Lock()
	if gen != s.timerGen {
		s.segMu.Unlock()
		return
	}
	s.timer = nil
	s.flushLocked()
	s.segMu.Unlock()
}

// flushLocked hands the accumulated utterance to the worker queue and resets
// the buffer. Caller holds segMu.
func (s *Session) flushLocked() {
	if s.closed {
		return
	}
	if s.buf.Len() == 0 {
		s.send(Event{Type: EventStatus, Status: StatusNoSpeech})
		return
	}

	audio := make([]byte, s.buf.Len())
	copy(audio, s.buf.Bytes())
	s.buf.Reset()

	select {
	case s.turnCh <- audio:
	default:
		// Queue full only under pathological flooding; drop with a log rather
		// than block the reader goroutine.
		s.log.Warn("turn queue full, utterance discarded")
	}
}
