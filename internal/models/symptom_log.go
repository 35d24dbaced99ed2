package models

import "time"

// ScoreEntry is one symptom's severity within a log. Score is nil when an
// optional symptom was left unanswered, which is distinct from zero.
type ScoreEntry struct {
	SymptomID string   `json:"symptomId"`
	Score     *float64 `json:"score"`
}

// SymptomLog holds one user's scores for one calendar day. Date is a
// normalized day key (2006-01-02); at most one log exists per (user, date).
type SymptomLog struct {
	ID        uint         `gorm:"primaryKey"`
	UserID    uint         `gorm:"not null;uniqueIndex:uidx_log_user_date"`
	Date      string       `gorm:"not null;uniqueIndex:uidx_log_user_date"`
	Scores    []ScoreEntry `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
