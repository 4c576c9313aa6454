package models

import "time"

/************************************************
/**** MARK: DIARY INSIGHT STATUS ****/
/************************************************/
const INSIGHT_STATUS_NONE = ""
const INSIGHT_STATUS_PENDING = "pending"
const INSIGHT_STATUS_PROCESSING = "processing"
const INSIGHT_STATUS_DONE = "done"
const INSIGHT_STATUS_FAILED = "failed"

// DiaryEntry is a free-form journal entry. When an AI insight is requested it
// enters as "pending" and the diary worker fills AIInsight asynchronously.
type DiaryEntry struct {
	ID            string     `gorm:"primary_key" json:"id"`
	UserID        int64      `gorm:"not null;index" json:"user_id"`
	Content       string     `gorm:"type:text;not null" json:"content" form:"content"`
	Mood          string     `json:"mood,omitempty" form:"mood"`
	AIInsight     string     `gorm:"column:ai_insight;type:text" json:"ai_insight,omitempty"`
	InsightStatus string     `gorm:"index" json:"insight_status,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
