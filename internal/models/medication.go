package models

import (
	"strconv"
	"strings"
	"time"
)

// Medication is a scheduled daily medication. Time is "HH:MM" in the user's
// local timezone. Days optionally restricts the schedule to specific weekdays
// as comma-separated time.Weekday numbers ("1,3,5" = Mon/Wed/Fri); empty means
// every day.
type Medication struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string     `gorm:"column:medication_name;type:text" json:"medication_name"`
	Time         string     `gorm:"column:time;type:text" json:"time"`
	Days         string     `gorm:"column:days;type:text" json:"days,omitempty"`
	LastReminded *time.Time `gorm:"column:last_reminded;type:timestamptz" json:"last_reminded,omitempty"`
	LastTaken    *time.Time `gorm:"column:last_taken;type:timestamptz" json:"last_taken,omitempty"`
}

func (Medication) TableName() string { return "medication_schedule" }

// ScheduledFor returns today's scheduled instant for this medication, or
// ok=false when the time is malformed or today is not a scheduled day.
func (m Medication) ScheduledFor(now time.Time) (time.Time, bool) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(m.Time))
	if err != nil {
		return time.Time{}, false
	}
	if !m.scheduledOn(now.Weekday()) {
		return time.Time{}, false
	}
	at := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	return at, true
}

func (m Medication) scheduledOn(day time.Weekday) bool {
	if strings.TrimSpace(m.Days) == "" {
		return true
	}
	for _, part := range strings.Split(m.Days, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && time.Weekday(n) == day {
			return true
		}
	}
	return false
}
