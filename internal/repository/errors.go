package repository

import "errors"

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrPermissionNotFound is returned when no explicit permission row
	// exists for a user/board pair
	ErrPermissionNotFound = errors.New("permission not found")
)
