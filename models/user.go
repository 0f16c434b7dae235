package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the progression ledger row for one Telegram identity.
// Created on first resolution of a platform user id (via /user/:id for self or
// via invite resolution); mutated only through the ProgressionService; never deleted.
type User struct {
	TelegramID int64  `gorm:"primaryKey;autoIncrement:false" json:"user_id"` // platform-supplied, stable
	Username   string `gorm:"index" json:"username"`

	Coins        int64 `gorm:"not null;default:0" json:"coins"` // invariant: never negative
	Level        Level `gorm:"type:varchar(16);not null;default:'Bronze'" json:"level"`
	InvitedFrens int64 `gorm:"not null;default:0" json:"invited_frens"`

	InvitedByID *int64 `gorm:"index" json:"invited_by,omitempty"`

	// ReferralCode is minted once at creation and is the stable invite token
	// embedded in the user's t.me deep link.
	ReferralCode string `gorm:"uniqueIndex;not null" json:"-"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
