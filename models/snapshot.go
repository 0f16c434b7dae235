package models

import "time"

// CoinSnapshot is one row per UTC calendar day holding the economy totals at
// the time the snapshot job last ran that day. The admin growth charts read
// these rows; everything else ignores them.
type CoinSnapshot struct {
	Day          string    `gorm:"primaryKey;size:10" json:"day"` // YYYY-MM-DD, UTC
	TotalCoins   int64     `gorm:"not null;default:0" json:"total_coins"`
	TotalUsers   int64     `gorm:"not null;default:0" json:"total_users"`
	TotalInvites int64     `gorm:"not null;default:0" json:"total_invites"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
