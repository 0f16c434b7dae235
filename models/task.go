package models

import "time"

// TaskType indicates where the task is carried out. It is a display attribute
// only — completion handling does not branch on it.
type TaskType string

const (
	TaskTypeTelegram TaskType = "Telegram"
	TaskTypeOther    TaskType = "Other"
)

// Task is an admin-created earning opportunity. Immutable once created except
// for removal (soft delete).
type Task struct {
	ID          string   `gorm:"primaryKey;type:uuid" json:"id"`
	Header      string   `gorm:"not null" json:"header"`
	Description string   `gorm:"type:text" json:"description"`
	ImageURL    string   `gorm:"type:text" json:"image_url"`
	Link        string   `gorm:"type:text" json:"link"`
	Type        TaskType `gorm:"type:varchar(16);not null;default:'Other'" json:"type"`
	Reward      int64    `gorm:"not null" json:"reward"` // positive

	Timestamps
}

// TaskCompletion marks that a user has completed a task and been credited its
// reward. The composite unique index is the idempotency anchor: at most one
// row per (user, task) pair, so the reward can never be granted twice.
// Rows are never mutated or removed.
type TaskCompletion struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      int64     `gorm:"uniqueIndex:idx_task_completion_pair;not null" json:"user_id"`
	TaskID      string    `gorm:"uniqueIndex:idx_task_completion_pair;type:uuid;not null" json:"task_id"`
	CompletedAt time.Time `gorm:"autoCreateTime;index" json:"completed_at"`
}
