package services

import (
	"sync"
	"testing"

	"blaze-rewards-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteTaskCreditsExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	tasks := NewTaskService(db)
	engine := NewProgressionService(db, users)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)
	task := seedTask(t, tasks, "Join the channel", 50)

	user, err := engine.CompleteTask(100, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), user.Coins)

	done, err := tasks.HasCompleted(100, task.ID)
	require.NoError(t, err)
	assert.True(t, done)

	// terminal on repeat: typed rejection, no second credit
	_, err = engine.CompleteTask(100, task.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	reloaded, err := users.GetUser(100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), reloaded.Coins)
}

func TestCompleteTaskUnknownTask(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)

	_, err = engine.CompleteTask(100, "no-such-task")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCompleteTaskConcurrentDoubleSubmit(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	tasks := NewTaskService(db)
	engine := NewProgressionService(db, users)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)
	task := seedTask(t, tasks, "Join the channel", 50)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.CompleteTask(100, task.ID)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyCompleted)
		}
	}
	assert.Equal(t, 1, successes)

	user, err := users.GetUser(100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), user.Coins)
}

func TestLevelUpHappyPath(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)
	_, err = users.ApplyBalanceDelta(db, 100, 3000)
	require.NoError(t, err)

	// Bronze → Gold: cost 3000, prize 5000, net +2000
	user, err := engine.LevelUp(100, models.LevelGold)
	require.NoError(t, err)
	assert.Equal(t, models.LevelGold, user.Level)
	assert.Equal(t, int64(5000), user.Coins)
}

func TestLevelUpInsufficientBalance(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)
	_, err = users.ApplyBalanceDelta(db, 100, 2000)
	require.NoError(t, err)

	_, err = engine.LevelUp(100, models.LevelGold)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	user, err := users.GetUser(100)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), user.Coins)
	assert.Equal(t, models.LevelBronze, user.Level)
}

func TestLevelUpNoSkippingNoRepurchase(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)
	_, err = users.ApplyBalanceDelta(db, 100, 20000)
	require.NoError(t, err)

	_, err = engine.LevelUp(100, models.LevelPlatinum)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = engine.LevelUp(100, models.LevelBronze)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = engine.LevelUp(100, models.LevelGold)
	require.NoError(t, err)

	_, err = engine.LevelUp(100, models.LevelGold)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLevelUpUnknownLevel(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	_, err := engine.LevelUp(100, "Diamond")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestLevelUpConcurrentSingleBalance(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	engine := NewProgressionService(db, users)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)
	_, err = users.ApplyBalanceDelta(db, 100, 3000)
	require.NoError(t, err)

	// two upgrade attempts against the same balance snapshot: exactly one wins
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.LevelUp(100, models.LevelGold)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, successes)

	user, err := users.GetUser(100)
	require.NoError(t, err)
	assert.Equal(t, models.LevelGold, user.Level)
	assert.Equal(t, int64(5000), user.Coins)
}
