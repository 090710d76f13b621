package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskvault/internal/cache"
	apperrors "taskvault/internal/errors"
	"taskvault/internal/model"
	"taskvault/internal/repository"
)

const taskCacheTTL = 5 * time.Minute

// CreateTaskInput carries the validated fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    model.Priority
}

// UpdateTaskInput carries a partial field set; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *model.Priority
	Completed   *bool
}

// TaskService handles task operations. Every method takes the authenticated
// owner id and refuses to touch tasks owned by anyone else; a task that
// exists but belongs to another user is reported as not found.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, input UpdateTaskInput) (*model.Task, error)
	ToggleCompletion(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	taskRepo repository.TaskRepository
	cache    *cache.Client
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, cache *cache.Client) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		cache:    cache,
	}
}

func (s *taskService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id.String())
}

// Create persists a new task owned by ownerID.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*model.Task, error) {
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	task := &model.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    priority,
		Completed:   false,
		UserID:      ownerID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks matching the filter.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single owned task, with caching.
func (s *taskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(taskID)); data != nil {
		var cached model.Task
		if err := json.Unmarshal(data, &cached); err == nil {
			// The ownership check applies to cached records too.
			if cached.UserID != ownerID {
				return nil, apperrors.ErrTaskNotFound
			}
			return &cached, nil
		}
	}

	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(task); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(taskID), payload, taskCacheTTL)
	}
	return task, nil
}

// Update applies the provided fields to an owned task.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(taskID))
	return task, nil
}

// ToggleCompletion flips the completed flag of an owned task.
func (s *taskService) ToggleCompletion(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(taskID))
	return task, nil
}

// Delete removes an owned task.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if _, err := s.ownedTask(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(taskID))
	return nil
}

// ownedTask fetches a task by id and verifies ownership. A missing task and
// an ownership mismatch are indistinguishable to the caller.
func (s *taskService) ownedTask(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	if task.UserID != ownerID {
		return nil, apperrors.ErrTaskNotFound
	}
	return task, nil
}
