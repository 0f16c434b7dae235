package models

import "time"

// Invite records one fren relationship. The unique index on InvitedID means a
// user can be credited to at most one inviter, which is what keeps repeated
// invite-link resolutions (page reloads, double taps) from re-crediting.
type Invite struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	InviterID int64     `gorm:"index;not null" json:"inviter_id"`
	InvitedID int64     `gorm:"uniqueIndex;not null" json:"invited_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
