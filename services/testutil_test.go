package services

import (
	"testing"

	"blaze-rewards-service/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test an isolated in-memory database with the full
// schema. A single connection keeps sqlite's locking out of the picture; the
// engine's own per-user serialization is what the concurrency tests exercise.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Invite{},
		&models.CoinSnapshot{},
	))
	return db
}

func seedTask(t *testing.T, tasks *TaskService, header string, reward int64) *models.Task {
	t.Helper()
	task, err := tasks.CreateTask(CreateTaskInput{
		Header: header,
		Type:   models.TaskTypeTelegram,
		Reward: reward,
	})
	require.NoError(t, err)
	return task
}
