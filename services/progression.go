package services

import (
	"errors"
	"log"
	"sync"

	"blaze-rewards-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteBonus is credited to the inviter each time a distinct new user joins
// through their link.
const InviteBonus = 150

// ProgressionService is the engine: the only component that composes
// multi-store mutations (task completion, level purchase, invite crediting).
// Each mutation runs under a per-user mutex and a DB transaction, so a
// double-submit from a flaky client settles as one credit plus one typed
// rejection rather than a race. The unique indexes on task_completions and
// invites are the backstop for writers outside this process.
type ProgressionService struct {
	DB    *gorm.DB
	Users *UserService

	userLocks sync.Map // telegram id → *sync.Mutex
}

func NewProgressionService(db *gorm.DB, users *UserService) *ProgressionService {
	return &ProgressionService{DB: db, Users: users}
}

// lockUser serializes mutations for one user. Locks are never dropped from
// the map; the per-user footprint is a single mutex.
func (s *ProgressionService) lockUser(telegramID int64) func() {
	v, _ := s.userLocks.LoadOrStore(telegramID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CompleteTask records the completion marker and credits the task's reward as
// one transaction — both land or neither does. A repeat call for the same
// (user, task) pair reports ErrAlreadyCompleted and leaves the balance alone.
func (s *ProgressionService) CompleteTask(telegramID int64, taskID string) (*models.User, error) {
	unlock := s.lockUser(telegramID)
	defer unlock()

	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", taskID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.TaskCompletion{}).
			Where("user_id = ? AND task_id = ?", telegramID, taskID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyCompleted
		}

		completion := models.TaskCompletion{
			ID:     uuid.NewString(),
			UserID: telegramID,
			TaskID: taskID,
		}
		if err := tx.Create(&completion).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCompleted
			}
			return err
		}

		user, err := s.Users.ApplyBalanceDelta(tx, telegramID, task.Reward)
		if err != nil {
			return err
		}
		updated = user

		log.Printf("💸 Task completed: user=%d task=%q reward=%d balance=%d",
			telegramID, task.Header, task.Reward, user.Coins)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// LevelUp buys the next tier: cost debited, prize credited, level advanced,
// all in one guarded update. The ladder allows no skipping and no
// re-purchasing the current tier; the net balance change is Prize - Cost as
// configured.
func (s *ProgressionService) LevelUp(telegramID int64, target models.Level) (*models.User, error) {
	tier, ok := models.TierFor(target)
	if !ok {
		return nil, ErrUnknownLevel
	}

	unlock := s.lockUser(telegramID)
	defer unlock()

	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		next, ok := models.NextTier(user.Level)
		if !ok || next.Level != target {
			return ErrInvalidTransition
		}
		if user.Coins < tier.Cost {
			return ErrInsufficientBalance
		}

		res := tx.Model(&models.User{}).
			Where("telegram_id = ? AND level = ? AND coins >= ?", telegramID, user.Level, tier.Cost).
			Updates(map[string]interface{}{
				"coins": gorm.Expr("coins - ? + ?", tier.Cost, tier.Prize),
				"level": target,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// balance or level moved underneath the read above
			return ErrInsufficientBalance
		}

		if err := tx.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			return err
		}
		updated = &user

		log.Printf("🏆 Level up: user=%d → %s (cost %d, prize %d, balance %d)",
			telegramID, target, tier.Cost, tier.Prize, user.Coins)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ResolveInvite credits an invite link resolution. Duplicate resolutions for
// the same invited user (reloads, re-taps on the deep link) are a silent
// no-op, as is a user opening their own link. An unknown code is
// ErrUserNotFound — there is no inviter to credit.
func (s *ProgressionService) ResolveInvite(code string, invitedID int64, username string) error {
	unlock := s.lockUser(invitedID)
	defer unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var inviter models.User
		if err := tx.Where("referral_code = ?", code).First(&inviter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if inviter.TelegramID == invitedID {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Invite{}).Where("invited_id = ?", invitedID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil // already credited once
		}

		var invited models.User
		err := tx.Where("telegram_id = ?", invitedID).First(&invited).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			invited = models.User{
				TelegramID:   invitedID,
				Username:     username,
				Level:        models.LevelBronze,
				ReferralCode: uuid.NewString(),
				InvitedByID:  &inviter.TelegramID,
			}
			if err := tx.Create(&invited).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case invited.InvitedByID == nil:
			// existing organic user joining through a link for the first time
			if err := tx.Model(&models.User{}).
				Where("telegram_id = ?", invitedID).
				Update("invited_by_id", inviter.TelegramID).Error; err != nil {
				return err
			}
		}

		invite := models.Invite{
			ID:        uuid.NewString(),
			InviterID: inviter.TelegramID,
			InvitedID: invitedID,
		}
		if err := tx.Create(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}

		res := tx.Model(&models.User{}).
			Where("telegram_id = ?", inviter.TelegramID).
			Updates(map[string]interface{}{
				"invited_frens": gorm.Expr("invited_frens + 1"),
				"coins":         gorm.Expr("coins + ?", InviteBonus),
			})
		if res.Error != nil {
			return res.Error
		}

		log.Printf("🫂 Fren joined: inviter=%d invited=%d (+%d coins)",
			inviter.TelegramID, invitedID, InviteBonus)
		return nil
	})
}
