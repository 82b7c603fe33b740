package models

import (
	"encoding/json"
	"strings"
	"time"
)

// TopJob is one ranked candidate returned by the prediction service.
type TopJob struct {
	Job         string  `json:"job"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation,omitempty"`
}

// Prediction is one ledger row. A single predict call writes up to three rows
// sharing the same Date, one per ranked candidate; each row's TopJobs column
// stores only that row's candidate. The composite unique index on
// (user_id, date, rank) makes a retried write at the same instant replace
// rather than duplicate.
type Prediction struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  uint      `json:"user_id" gorm:"uniqueIndex:idx_predictions_user_date_rank,priority:1;not null"`
	Cgpa    string    `json:"cgpa"`
	Degree  string    `json:"degree"`
	Major   string    `json:"major"`
	Skills  string    `json:"skills"`
	Role    string    `json:"role"`
	TopJobs string    `json:"-" gorm:"type:text"`
	Rank    int       `json:"-" gorm:"uniqueIndex:idx_predictions_user_date_rank,priority:3;not null"`
	Date    time.Time `json:"date" gorm:"uniqueIndex:idx_predictions_user_date_rank,priority:2;index"`
}

// Fingerprint identifies "the same submitted attributes" across repeated
// predictions. Role is deliberately excluded.
func (p *Prediction) Fingerprint() string {
	return p.Cgpa + "|" + p.Degree + "|" + p.Major + "|" + p.Skills
}

// TopJobList inflates the serialized TopJobs column. Absent or malformed
// text yields an empty slice, never an error.
func (p *Prediction) TopJobList() []TopJob {
	if strings.TrimSpace(p.TopJobs) == "" {
		return []TopJob{}
	}
	var jobs []TopJob
	if err := json.Unmarshal([]byte(p.TopJobs), &jobs); err != nil || jobs == nil {
		return []TopJob{}
	}
	return jobs
}

// EncodeTopJobs serializes candidates for storage. A nil slice encodes as an
// empty JSON array so reads stay uniform.
func EncodeTopJobs(jobs []TopJob) string {
	if jobs == nil {
		jobs = []TopJob{}
	}
	data, err := json.Marshal(jobs)
	if err != nil {
		return "[]"
	}
	return string(data)
}
