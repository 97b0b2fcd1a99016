package service_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/apperror"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newQueries(db *gorm.DB) *service.TaskQueryService {
	return service.NewTaskQueryService(repository.NewTaskRepository(db))
}

func taskRows(boardID uuid.UUID, n int, completed bool) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "board_id", "description", "completed", "created_at", "updated_at"})
	for i := 0; i < n; i++ {
		rows.AddRow(uuid.New().String(), boardID.String(), "task", completed, time.Now(), time.Now())
	}
	return rows
}

func TestTasks_RejectsBadInput(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	queries := newQueries(gormDB)
	boardID := uuid.New()

	tests := []struct {
		name    string
		boardID uuid.UUID
		filter  service.Filter
		page    int
		limit   int
	}{
		{"missing board id", uuid.Nil, service.FilterAll, 1, 10},
		{"zero page", boardID, service.FilterAll, 0, 10},
		{"negative page", boardID, service.FilterAll, -1, 10},
		{"zero limit", boardID, service.FilterAll, 1, 0},
		{"unknown filter", boardID, service.Filter("finished"), 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.Tasks(context.Background(), tt.boardID, tt.filter, tt.page, tt.limit)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestTasks_FirstPage(t *testing.T) {
	// Arrange: 25 tasks, limit 10 -> page 1 has 10 tasks, total 25
	gormDB, mock := setupMockDB(t)
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE board_id = .* ORDER BY created_at, id`).
		WillReturnRows(taskRows(boardID, 10, false))

	// Act
	page, err := newQueries(gormDB).Tasks(context.Background(), boardID, service.FilterAll, 1, 10)

	// Assert
	assert.NoError(t, err)
	assert.EqualValues(t, 25, page.Total)
	assert.Len(t, page.Tasks, 10)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTasks_LastPartialPage(t *testing.T) {
	// Arrange: 25 tasks, limit 10 -> page 3 has the trailing 5
	gormDB, mock := setupMockDB(t)
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE board_id = .* ORDER BY created_at, id`).
		WillReturnRows(taskRows(boardID, 5, false))

	// Act
	page, err := newQueries(gormDB).Tasks(context.Background(), boardID, service.FilterAll, 3, 10)

	// Assert
	assert.NoError(t, err)
	assert.EqualValues(t, 25, page.Total)
	assert.Len(t, page.Tasks, 5)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTasks_PageBeyondLastFails(t *testing.T) {
	// Arrange: 25 tasks, limit 10 -> page 4 is out of range, no page
	// query is issued
	gormDB, mock := setupMockDB(t)
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	// Act
	_, err := newQueries(gormDB).Tasks(context.Background(), boardID, service.FilterAll, 4, 10)

	// Assert
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTasks_EmptyBoardIsNotAnError(t *testing.T) {
	// Arrange: zero matching tasks returns an empty page regardless of
	// the requested page number
	gormDB, mock := setupMockDB(t)
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Act
	page, err := newQueries(gormDB).Tasks(context.Background(), boardID, service.FilterAll, 5, 10)

	// Assert
	assert.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
	assert.Empty(t, page.Tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTasks_FilterScopedTotals(t *testing.T) {
	// Arrange: 3 done and 2 undone; each filter counts its own subset
	gormDB, mock := setupMockDB(t)
	boardID := uuid.New()
	queries := newQueries(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE board_id = .* AND completed = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE board_id = .* AND completed = .*`).
		WillReturnRows(taskRows(boardID, 3, true))

	done, err := queries.Tasks(context.Background(), boardID, service.FilterDone, 1, 10)
	assert.NoError(t, err)
	assert.EqualValues(t, 3, done.Total)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE board_id = .* AND completed = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE board_id = .* AND completed = .*`).
		WillReturnRows(taskRows(boardID, 2, false))

	undone, err := queries.Tasks(context.Background(), boardID, service.FilterUndone, 1, 10)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, undone.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearCompleted_DeletesOneAtATime(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE board_id = .* AND completed = .*`).
		WillReturnRows(taskRows(boardID, 2, true))
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "tasks" WHERE id = .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	// Act
	deleted, err := newQueries(gormDB).ClearCompleted(context.Background(), boardID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearCompleted_StopsOnFirstFailure(t *testing.T) {
	// Arrange: the second delete fails; the first stays deleted
	gormDB, mock := setupMockDB(t)
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE board_id = .* AND completed = .*`).
		WillReturnRows(taskRows(boardID, 2, true))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = .*`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	deleted, err := newQueries(gormDB).ClearCompleted(context.Background(), boardID)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
