package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// ConversationTurn is one completed exchange: what the user said and what the
// companion answered. Written once, never updated.
type ConversationTurn struct {
	ID         string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID  string          `gorm:"column:session_id;type:uuid;index" json:"session_id"`
	Transcript string          `gorm:"column:transcript;type:text" json:"transcript"`
	Response   string          `gorm:"column:response;type:text" json:"response"`
	Sentiment  string          `gorm:"column:sentiment;type:text" json:"sentiment"` // happy | neutral | sad
	State      string          `gorm:"column:state;type:text" json:"state"`         // idle | reminiscence
	Embedding  pgvector.Vector `gorm:"column:embedding;type:vector(1536)" json:"-"`
	Timestamp  time.Time       `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
	Metadata   datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
}

func (ConversationTurn) TableName() string { return "conversation_turns" }
