package service

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/apperror"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Filter scopes which tasks a listing considers before pagination.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterDone   Filter = "done"
	FilterUndone Filter = "undone"
)

// TaskPage is one page of a board's tasks plus the total count for the
// requested filter (not the unfiltered board total).
type TaskPage struct {
	Tasks []model.Task
	Total int64
}

// TaskQueryService returns validated, filtered, paginated slices of a
// board's tasks.
type TaskQueryService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskQueryService(taskRepo *repository.TaskRepository) *TaskQueryService {
	return &TaskQueryService{taskRepo: taskRepo}
}

// Tasks returns the page-th window of limit tasks matching the filter.
// The filter is pushed into the store query so the total is accurate per
// filter. An empty result is not an error, but a page beyond the last
// one is.
func (s *TaskQueryService) Tasks(ctx context.Context, boardID uuid.UUID, filter Filter, page, limit int) (*TaskPage, error) {
	if boardID == uuid.Nil {
		return nil, apperror.Validationf("board id is required")
	}
	if page < 1 {
		return nil, apperror.Validationf("page must be >= 1, got %d", page)
	}
	if limit < 1 {
		return nil, apperror.Validationf("limit must be >= 1, got %d", limit)
	}

	completed, err := filterCompleted(filter)
	if err != nil {
		return nil, err
	}

	total, err := s.taskRepo.CountByBoard(ctx, boardID, completed)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &TaskPage{Tasks: []model.Task{}, Total: 0}, nil
	}

	lastPage := (total + int64(limit) - 1) / int64(limit)
	if int64(page) > lastPage {
		return nil, apperror.Validationf("page %d is out of range (total %d, limit %d)", page, total, limit)
	}

	tasks, err := s.taskRepo.ListByBoard(ctx, boardID, completed, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &TaskPage{Tasks: tasks, Total: total}, nil
}

// ClearCompleted deletes every completed task on the board, one at a
// time. A failure mid-loop leaves earlier deletions in place; the count
// of tasks actually deleted is returned either way.
func (s *TaskQueryService) ClearCompleted(ctx context.Context, boardID uuid.UUID) (int, error) {
	if boardID == uuid.Nil {
		return 0, apperror.Validationf("board id is required")
	}

	tasks, err := s.taskRepo.GetCompleted(ctx, boardID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, task := range tasks {
		if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func filterCompleted(filter Filter) (*bool, error) {
	switch filter {
	case FilterAll, "":
		return nil, nil
	case FilterDone:
		done := true
		return &done, nil
	case FilterUndone:
		undone := false
		return &undone, nil
	default:
		return nil, apperror.Validationf("unknown filter %q", filter)
	}
}
