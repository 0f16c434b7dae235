package services

import (
	"testing"

	"blaze-rewards-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasksOrderAndCompletionFlags(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	tasks := NewTaskService(db)
	engine := NewProgressionService(db, users)

	first := seedTask(t, tasks, "Join the channel", 50)
	second := seedTask(t, tasks, "Follow on X", 75)

	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)
	_, err = engine.CompleteTask(100, second.ID)
	require.NoError(t, err)

	list, err := tasks.ListTasks(100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.False(t, list[0].Completed)
	assert.Equal(t, second.ID, list[1].ID)
	assert.True(t, list[1].Completed)

	// anonymous listing carries no completion flags
	anon, err := tasks.ListTasks(0)
	require.NoError(t, err)
	assert.False(t, anon[1].Completed)
}

func TestCreateTaskValidation(t *testing.T) {
	db := openTestDB(t)
	tasks := NewTaskService(db)

	_, err := tasks.CreateTask(CreateTaskInput{Reward: 50})
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = tasks.CreateTask(CreateTaskInput{Header: "No reward"})
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = tasks.CreateTask(CreateTaskInput{Header: "Bad type", Reward: 10, Type: "Discord"})
	assert.ErrorIs(t, err, ErrInvalidTask)

	task, err := tasks.CreateTask(CreateTaskInput{Header: "Defaults", Reward: 10})
	require.NoError(t, err)
	assert.Equal(t, models.TaskTypeOther, task.Type)
}

func TestRemoveTask(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	tasks := NewTaskService(db)
	engine := NewProgressionService(db, users)

	task := seedTask(t, tasks, "Short-lived", 10)

	require.NoError(t, tasks.RemoveTask(task.ID))
	assert.ErrorIs(t, tasks.RemoveTask(task.ID), ErrTaskNotFound)
	assert.ErrorIs(t, tasks.RemoveTask("no-such-id"), ErrTaskNotFound)

	list, err := tasks.ListTasks(0)
	require.NoError(t, err)
	assert.Empty(t, list)

	// removed tasks cannot be completed
	_, err = users.EnsureUser(100, "alice")
	require.NoError(t, err)
	_, err = engine.CompleteTask(100, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestHasCompleted(t *testing.T) {
	db := openTestDB(t)
	users := NewUserService(db)
	tasks := NewTaskService(db)
	engine := NewProgressionService(db, users)

	task := seedTask(t, tasks, "Join the channel", 50)
	_, err := users.EnsureUser(100, "alice")
	require.NoError(t, err)

	done, err := tasks.HasCompleted(100, task.ID)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = engine.CompleteTask(100, task.ID)
	require.NoError(t, err)

	done, err = tasks.HasCompleted(100, task.ID)
	require.NoError(t, err)
	assert.True(t, done)
}
