package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/models"
	mongorepo "github.com/hearthside/companion/internal/repositories/mongo"
)

// SessionService records websocket session lifecycles. All operations are
// best effort; Mongo being down must never break a live conversation.
type SessionService interface {
	Start(ctx context.Context, sessionID string)
	End(ctx context.Context, sessionID string)
	TurnCompleted(ctx context.Context, sessionID string)
}

type sessionService struct {
	repo mongorepo.SessionRepository // nil when mongo is not configured
	log  *logrus.Logger
}

func NewSessionService(repo mongorepo.SessionRepository, log *logrus.Logger) SessionService {
	return &sessionService{repo: repo, log: log}
}

func (s *sessionService) Start(ctx context.Context, sessionID string) {
	if s.repo == nil {
		return
	}
	err := s.repo.Create(ctx, &models.VoiceSession{
		SessionID: sessionID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).
			Warn("failed to record session start")
	}
}

func (s *sessionService) End(ctx context.Context, sessionID string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.End(ctx, sessionID, time.Now()); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).
			Warn("failed to record session end")
	}
}

func (s *sessionService) TurnCompleted(ctx context.Context, sessionID string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.IncrementTurns(ctx, sessionID); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).
			Warn("failed to record session turn")
	}
}
