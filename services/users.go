package services

import (
	"errors"
	"log"

	"blaze-rewards-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService is the user store: one ledger row per Telegram identity.
// Balance and level writes go through guarded single-statement updates so the
// non-negative-balance and forward-only-level invariants hold even when two
// requests race past the engine's per-user lock (e.g. on a second replica).
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetUser fetches a user by Telegram id.
func (s *UserService) GetUser(telegramID int64) (*models.User, error) {
	var user models.User
	err := s.DB.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureUser creates the ledger row on first sight of a platform identity.
// Idempotent: an existing record is returned unchanged — username refreshes
// are the profile sync worker's job, not this path's.
func (s *UserService) EnsureUser(telegramID int64, username string) (*models.User, error) {
	user, err := s.GetUser(telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	fresh := models.User{
		TelegramID:   telegramID,
		Username:     username,
		Level:        models.LevelBronze,
		ReferralCode: uuid.NewString(),
	}
	if err := s.DB.Create(&fresh).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a concurrent create — the existing row wins
			return s.GetUser(telegramID)
		}
		return nil, err
	}

	log.Printf("👤 New user registered: %d (%s)", telegramID, username)
	return &fresh, nil
}

// ApplyBalanceDelta atomically shifts a balance, refusing any change that
// would take it below zero. Runs on the caller's transaction handle so the
// engine can compose it with other writes.
func (s *UserService) ApplyBalanceDelta(tx *gorm.DB, telegramID int64, delta int64) (*models.User, error) {
	res := tx.Model(&models.User{}).
		Where("telegram_id = ? AND coins + ? >= 0", telegramID, delta).
		Update("coins", gorm.Expr("coins + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("telegram_id = ?", telegramID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrUserNotFound
		}
		return nil, ErrInsufficientBalance
	}

	var user models.User
	if err := tx.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetLevel moves a user onto newLevel, but only from the tier directly below.
// The level is part of the WHERE clause, so a stale read cannot skip a tier.
func (s *UserService) SetLevel(tx *gorm.DB, telegramID int64, newLevel models.Level) error {
	var user models.User
	if err := tx.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	next, ok := models.NextTier(user.Level)
	if !ok || next.Level != newLevel {
		return ErrInvalidTransition
	}

	res := tx.Model(&models.User{}).
		Where("telegram_id = ? AND level = ?", telegramID, user.Level).
		Update("level", newLevel)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// level moved underneath us
		return ErrInvalidTransition
	}
	return nil
}
