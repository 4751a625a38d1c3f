package alerts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/models"
)

const defaultChannel = "companion:escalations"

// Alert describes a risk escalation raised by the conversation pipeline.
type Alert struct {
	SessionID  string    `json:"session_id"`
	Transcript string    `json:"transcript"`
	Reason     string    `json:"reason"`
	RiskTurns  int       `json:"risk_turns"`
	At         time.Time `json:"at"`
}

type Notifier interface {
	Escalate(ctx context.Context, alert Alert) error
}

// EscalationStore persists the escalation record for caregiver review.
type EscalationStore interface {
	Create(ctx context.Context, esc *models.Escalation) error
}

// RedisNotifier publishes alerts on a pub/sub channel for caregiver-facing
// consumers and writes a durable escalation row.
type RedisNotifier struct {
	rdb     *redis.Client
	store   EscalationStore
	contact string
	channel string
	log     *logrus.Logger
}

func NewRedisNotifier(rdb *redis.Client, store EscalationStore, contact, channel string, log *logrus.Logger) *RedisNotifier {
	if channel == "" {
		channel = defaultChannel
	}
	return &RedisNotifier{rdb: rdb, store: store, contact: contact, channel: channel, log: log}
}

func (n *RedisNotifier) Escalate(ctx context.Context, alert Alert) error {
	if n.store != nil {
		esc := &models.Escalation{
			SessionID:   alert.SessionID,
			Contact:     n.contact,
			Reason:      alert.Reason,
			RiskTurns:   alert.RiskTurns,
			TriggeredAt: alert.At,
		}
		if err := n.store.Create(ctx, esc); err != nil {
			n.log.WithFields(logrus.Fields{
				"session_id": alert.SessionID,
				"error":      err.Error(),
			}).Error("failed to persist escalation")
		}
	}

	if n.rdb == nil {
		n.log.WithField("session_id", alert.SessionID).
			Warn("escalation raised but redis is not configured, alert logged only")
		return nil
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		return err
	}

	n.log.WithFields(logrus.Fields{
		"session_id": alert.SessionID,
		"risk_turns": alert.RiskTurns,
		"contact":    n.contact,
	}).Warn("escalation published")
	return nil
}
