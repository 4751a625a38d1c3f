package models

import "time"

// Escalation is a persisted risk-escalation record, kept for caregiver review.
type Escalation struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SessionID   string    `gorm:"column:session_id;type:uuid;index" json:"session_id"`
	Contact     string    `gorm:"column:contact;type:text" json:"contact"`
	Reason      string    `gorm:"column:reason;type:text" json:"reason"`
	RiskTurns   int       `gorm:"column:risk_turns" json:"risk_turns"`
	TriggeredAt time.Time `gorm:"column:triggered_at;type:timestamptz" json:"triggered_at"`
}

func (Escalation) TableName() string { return "escalations" }
