package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "taskvault/internal/errors"
	"taskvault/internal/model"
	"taskvault/internal/repository"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTaskService_Create(t *testing.T) {
	ownerID := uuid.New()
	dueDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		input            CreateTaskInput
		expectedPriority model.Priority
	}{
		{
			name: "explicit priority",
			input: CreateTaskInput{
				Title:    "Pay rent",
				DueDate:  dueDate,
				Priority: model.PriorityHigh,
			},
			expectedPriority: model.PriorityHigh,
		},
		{
			name: "priority defaults to medium",
			input: CreateTaskInput{
				Title:   "Water the plants",
				DueDate: dueDate,
			},
			expectedPriority: model.PriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

			service := NewTaskService(mockRepo, nil)
			task, err := service.Create(context.Background(), ownerID, tt.input)

			assert.NoError(t, err)
			assert.NotNil(t, task)
			assert.Equal(t, ownerID, task.UserID)
			assert.Equal(t, tt.input.Title, task.Title)
			assert.Equal(t, tt.expectedPriority, task.Priority)
			assert.False(t, task.Completed)
			assert.NotEqual(t, uuid.Nil, task.ID)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_OwnershipMasking(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	taskID := uuid.New()

	// A task that exists but belongs to someone else must be reported
	// exactly like a missing task, on every operation.
	foreignTask := func() *model.Task {
		return &model.Task{
			ID:     taskID,
			Title:  "Not yours",
			UserID: otherID,
		}
	}

	operations := []struct {
		name string
		call func(TaskService) error
	}{
		{
			name: "get",
			call: func(s TaskService) error {
				_, err := s.Get(context.Background(), ownerID, taskID)
				return err
			},
		},
		{
			name: "update",
			call: func(s TaskService) error {
				title := "hijacked"
				_, err := s.Update(context.Background(), ownerID, taskID, UpdateTaskInput{Title: &title})
				return err
			},
		},
		{
			name: "toggle",
			call: func(s TaskService) error {
				_, err := s.ToggleCompletion(context.Background(), ownerID, taskID)
				return err
			},
		},
		{
			name: "delete",
			call: func(s TaskService) error {
				return s.Delete(context.Background(), ownerID, taskID)
			},
		},
	}

	for _, op := range operations {
		t.Run(op.name+" of another user's task", func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("FindByID", mock.Anything, taskID).Return(foreignTask(), nil)

			service := NewTaskService(mockRepo, nil)
			err := op.call(service)

			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
			mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})

		t.Run(op.name+" of a missing task", func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)

			service := NewTaskService(mockRepo, nil)
			err := op.call(service)

			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		})
	}
}

func TestTaskService_Get(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindByID", mock.Anything, taskID).Return(&model.Task{
		ID:     taskID,
		Title:  "Pay rent",
		UserID: ownerID,
	}, nil)

	service := NewTaskService(mockRepo, nil)
	task, err := service.Get(context.Background(), ownerID, taskID)

	assert.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, ownerID, task.UserID)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Update_PartialFields(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()
	originalDue := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindByID", mock.Anything, taskID).Return(&model.Task{
		ID:          taskID,
		Title:       "Pay rent",
		Description: "Before the first",
		DueDate:     originalDue,
		Priority:    model.PriorityHigh,
		UserID:      ownerID,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	newTitle := "Pay rent and utilities"
	completed := true

	service := NewTaskService(mockRepo, nil)
	task, err := service.Update(context.Background(), ownerID, taskID, UpdateTaskInput{
		Title:     &newTitle,
		Completed: &completed,
	})

	assert.NoError(t, err)
	assert.Equal(t, newTitle, task.Title)
	assert.True(t, task.Completed)
	// Untouched fields keep their values.
	assert.Equal(t, "Before the first", task.Description)
	assert.Equal(t, originalDue, task.DueDate)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_ToggleCompletion_DoubleToggleRestores(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	stored := &model.Task{
		ID:        taskID,
		Title:     "Pay rent",
		Completed: false,
		UserID:    ownerID,
	}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindByID", mock.Anything, taskID).Return(stored, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	service := NewTaskService(mockRepo, nil)

	task, err := service.ToggleCompletion(context.Background(), ownerID, taskID)
	assert.NoError(t, err)
	assert.True(t, task.Completed)

	task, err = service.ToggleCompletion(context.Background(), ownerID, taskID)
	assert.NoError(t, err)
	assert.False(t, task.Completed)
}

func TestTaskService_Delete(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindByID", mock.Anything, taskID).Return(&model.Task{
		ID:     taskID,
		UserID: ownerID,
	}, nil)
	mockRepo.On("Delete", mock.Anything, taskID).Return(nil)

	service := NewTaskService(mockRepo, nil)
	err := service.Delete(context.Background(), ownerID, taskID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_List_PassesFilterAndOwner(t *testing.T) {
	ownerID := uuid.New()
	completed := true
	priority := model.PriorityHigh

	filter := repository.TaskFilter{
		Completed: &completed,
		Priority:  &priority,
		Search:    "rent",
		SortBy:    repository.SortByDueDate,
		SortOrder: repository.SortAsc,
	}

	expected := []model.Task{
		{ID: uuid.New(), Title: "Pay rent", UserID: ownerID, Completed: true, Priority: model.PriorityHigh},
	}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("ListByOwner", mock.Anything, ownerID, filter).Return(expected, nil)

	service := NewTaskService(mockRepo, nil)
	tasks, err := service.List(context.Background(), ownerID, filter)

	assert.NoError(t, err)
	assert.Equal(t, expected, tasks)
	mockRepo.AssertExpectations(t)
}
