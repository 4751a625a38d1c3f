package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hearthside/companion/internal/models"
)

const sessionCollection = "voice_sessions"

type SessionRepository interface {
	Create(ctx context.Context, sess *models.VoiceSession) error
	End(ctx context.Context, sessionID string, endedAt time.Time) error
	IncrementTurns(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (*models.VoiceSession, error)
}

type sessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) SessionRepository {
	return &sessionRepository{col: db.Collection(sessionCollection)}
}

func (r *sessionRepository) Create(ctx context.Context, sess *models.VoiceSession) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	sess.Status = "active"
	_, err := r.col.InsertOne(ctx, sess)
	return err
}

func (r *sessionRepository) End(ctx context.Context, sessionID string, endedAt time.Time) error {
	var sess models.VoiceSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&sess)
	if err != nil {
		return err
	}
	duration := int64(endedAt.Sub(sess.CreatedAt).Seconds())
	_, err = r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"status":           "ended",
			"ended_at":         endedAt,
			"duration_seconds": duration,
		}},
	)
	return err
}

func (r *sessionRepository) IncrementTurns(ctx context.Context, sessionID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$inc": bson.M{"turns": 1}},
	)
	return err
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*models.VoiceSession, error) {
	var sess models.VoiceSession
	if err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&sess); err != nil {
		return nil, err
	}
	return &sess, nil
}
