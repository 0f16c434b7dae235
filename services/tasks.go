package services

import (
	"fmt"
	"log"

	"blaze-rewards-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskService is the task catalog: admin-managed task definitions plus the
// per-user completion markers. Completion rows are only ever written inside a
// ProgressionService transaction — the catalog itself just reads them.
type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// TaskWithStatus is a catalog entry plus the requesting user's completed flag.
type TaskWithStatus struct {
	models.Task
	Completed bool `json:"completed"`
}

// ListTasks returns all live tasks in creation order. When forUser is nonzero
// each entry carries that user's completion status.
func (s *TaskService) ListTasks(forUser int64) ([]TaskWithStatus, error) {
	var tasks []models.Task
	if err := s.DB.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	completed := map[string]bool{}
	if forUser != 0 {
		var rows []models.TaskCompletion
		if err := s.DB.Where("user_id = ?", forUser).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			completed[r.TaskID] = true
		}
	}

	list := make([]TaskWithStatus, len(tasks))
	for i, t := range tasks {
		list[i] = TaskWithStatus{Task: t, Completed: completed[t.ID]}
	}
	return list, nil
}

// CreateTaskInput is the admin task spec.
type CreateTaskInput struct {
	Header      string          `json:"header"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Link        string          `json:"link"`
	Type        models.TaskType `json:"type"`
	Reward      int64           `json:"reward"`
}

// CreateTask adds a task to the catalog. Authorization happens at the admin
// route boundary, not here.
func (s *TaskService) CreateTask(in CreateTaskInput) (*models.Task, error) {
	if in.Header == "" {
		return nil, fmt.Errorf("%w: header is required", ErrInvalidTask)
	}
	if in.Reward <= 0 {
		return nil, fmt.Errorf("%w: reward must be positive", ErrInvalidTask)
	}
	if in.Type == "" {
		in.Type = models.TaskTypeOther
	}
	if in.Type != models.TaskTypeTelegram && in.Type != models.TaskTypeOther {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidTask, in.Type)
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Header:      in.Header,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Link:        in.Link,
		Type:        in.Type,
		Reward:      in.Reward,
	}
	if err := s.DB.Create(&task).Error; err != nil {
		return nil, err
	}

	log.Printf("📋 Task created: %s (%s, reward %d)", task.Header, task.Type, task.Reward)
	return &task, nil
}

// RemoveTask soft-deletes a task. Completion rows stay — already-granted
// rewards are never clawed back.
func (s *TaskService) RemoveTask(taskID string) error {
	res := s.DB.Where("id = ?", taskID).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	log.Printf("🗑️ Task removed: %s", taskID)
	return nil
}

// HasCompleted reports whether a completion marker exists for the pair.
func (s *TaskService) HasCompleted(userID int64, taskID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.TaskCompletion{}).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
