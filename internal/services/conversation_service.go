package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/providers/llm"
	"github.com/hearthside/companion/internal/repositories/postgres"
)

const noHistoryText = "No previous conversations."

type ConversationService interface {
	Append(ctx context.Context, turn *models.ConversationTurn) error
	Recent(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error)
	// ListRecent returns the latest turns across all sessions.
	ListRecent(ctx context.Context, limit int) ([]models.ConversationTurn, error)
	// RecentContext renders the last turns as prompt context, oldest first.
	RecentContext(ctx context.Context, sessionID string, limit int) (string, error)
}

type conversationService struct {
	repo     postgres.ConversationRepository
	embedder llm.Embedder // optional
	log      *logrus.Logger
}

func NewConversationService(repo postgres.ConversationRepository, embedder llm.Embedder, log *logrus.Logger) ConversationService {
	return &conversationService{repo: repo, embedder: embedder, log: log}
}

func (s *conversationService) Append(ctx context.Context, turn *models.ConversationTurn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	// Embeddings are an enrichment; a provider failure never blocks the write.
	if s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, turn.Transcript)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"session_id": turn.SessionID,
				"error":      err.Error(),
			}).Warn("failed to embed turn transcript")
		} else {
			turn.Embedding = pgvector.NewVector(vec)
		}
	}

	return s.repo.Create(ctx, turn)
}

func (s *conversationService) Recent(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	return s.repo.Recent(ctx, sessionID, limit)
}

func (s *conversationService) ListRecent(ctx context.Context, limit int) ([]models.ConversationTurn, error) {
	return s.repo.RecentAcrossSessions(ctx, limit)
}

func (s *conversationService) RecentContext(ctx context.Context, sessionID string, limit int) (string, error) {
	turns, err := s.repo.Recent(ctx, sessionID, limit)
	if err != nil {
		return "", err
	}
	if len(turns) == 0 {
		return noHistoryText, nil
	}

	// Repo returns newest first; the prompt wants chronological order.
	var b strings.Builder
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		fmt.Fprintf(&b, "User: %s\nAI: %s\n", t.Transcript, t.Response)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
