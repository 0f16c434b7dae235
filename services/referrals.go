package services

import (
	"fmt"
	"time"

	"blaze-rewards-service/models"

	"gorm.io/gorm"
)

// ReferralService is the read side of the referral registry: stable invite
// links and the frens list. Crediting a resolved invite is the
// ProgressionService's job.
type ReferralService struct {
	DB      *gorm.DB
	BotName string // t.me bot the deep links point at
}

func NewReferralService(db *gorm.DB, botName string) *ReferralService {
	return &ReferralService{DB: db, BotName: botName}
}

// InviteLink returns the user's invite deep link. The referral code is minted
// once at user creation, so the same user always gets the same link.
func (s *ReferralService) InviteLink(user *models.User) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", s.BotName, user.ReferralCode)
}

// Fren is one referred user as shown on the frens page.
type Fren struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// ListFrens returns the users credited to an inviter, newest first.
func (s *ReferralService) ListFrens(telegramID int64) ([]Fren, error) {
	frens := []Fren{}
	err := s.DB.Model(&models.Invite{}).
		Select("users.telegram_id AS user_id, users.username AS username, invites.created_at AS joined_at").
		Joins("JOIN users ON users.telegram_id = invites.invited_id").
		Where("invites.inviter_id = ?", telegramID).
		Order("invites.created_at DESC").
		Scan(&frens).Error
	if err != nil {
		return nil, err
	}
	return frens, nil
}
