// services/scheduler.go
package services

import (
	"log"
	"time"

	"blaze-rewards-service/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm/clause"
)

// StartSnapshotScheduler records the economy totals every hour. Upserting on
// the day key leaves exactly one row per UTC day, which is what the coin
// growth chart reads.
func (s *StatsService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.RecordSnapshot(time.Now().UTC()); err != nil {
				log.Printf("[Snapshot] failed: %v", err)
			}
		}),
	)
}

// RecordSnapshot upserts the snapshot row for the day containing now.
func (s *StatsService) RecordSnapshot(now time.Time) error {
	snap := models.CoinSnapshot{Day: now.UTC().Format("2006-01-02")}

	if err := s.DB.Model(&models.User{}).Count(&snap.TotalUsers).Error; err != nil {
		return err
	}
	if err := s.DB.Model(&models.User{}).
		Select("COALESCE(SUM(coins), 0)").
		Scan(&snap.TotalCoins).Error; err != nil {
		return err
	}
	if err := s.DB.Model(&models.Invite{}).Count(&snap.TotalInvites).Error; err != nil {
		return err
	}

	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_coins", "total_users", "total_invites"}),
	}).Create(&snap).Error
}
