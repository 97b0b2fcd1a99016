package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// CountByBoard counts the board's tasks matching the completion filter.
// A nil filter counts every task.
func (r *TaskRepository) CountByBoard(ctx context.Context, boardID uuid.UUID, completed *bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("board_id = ?", boardID)
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}
	err := q.Count(&count).Error
	return count, err
}

// ListByBoard returns one page of the board's tasks matching the
// completion filter. Ordered by created_at then id so repeated queries
// see stable pages.
func (r *TaskRepository) ListByBoard(ctx context.Context, boardID uuid.UUID, completed *bool, offset, limit int) ([]model.Task, error) {
	var tasks []model.Task
	q := r.db.WithContext(ctx).Where("board_id = ?", boardID)
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}
	err := q.Order("created_at, id").Offset(offset).Limit(limit).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetCompleted returns all completed tasks on a board.
func (r *TaskRepository) GetCompleted(ctx context.Context, boardID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND completed = ?", boardID, true).
		Order("created_at, id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
