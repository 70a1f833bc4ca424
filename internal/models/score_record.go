package models

import (
	"time"

	"github.com/google/uuid"
)

type RecordStatus string

const (
	StatusScored RecordStatus = "scored"
	StatusFailed RecordStatus = "failed"
)

// ScoreRecord is one persisted screening outcome.
type ScoreRecord struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BatchID       *uuid.UUID   `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	CandidateName string       `gorm:"type:text;not null" json:"name"`
	JobID         string       `gorm:"type:text;not null;index" json:"job_id"`
	Score         int          `gorm:"not null;default:0" json:"score"`
	MatchedSkills string       `gorm:"type:text" json:"matched_skills"`
	Shortlisted   bool         `gorm:"not null;default:false" json:"shortlisted"`
	Status        RecordStatus `gorm:"not null;default:'scored'" json:"status"`
	ErrorMessage  *string      `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ScoreRecord) TableName() string {
	return "score_records"
}
