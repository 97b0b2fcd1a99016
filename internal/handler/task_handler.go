package handler

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo *repository.TaskRepository
	authz    *service.AuthorizationService
	queries  *service.TaskQueryService
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	authz *service.AuthorizationService,
	queries *service.TaskQueryService,
) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
		authz:    authz,
		queries:  queries,
	}
}

// TaskRequest creates or updates a task
type TaskRequest struct {
	Description string `json:"description" binding:"required"`
	Completed   *bool  `json:"completed"`
}

// TaskResponse is the wire shape of a task
type TaskResponse struct {
	ID          string `json:"id"`
	BoardID     string `json:"board_id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaskListResponse is one page of tasks plus the filtered total
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int64          `json:"total"`
}

func taskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		BoardID:     task.BoardID.String(),
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   task.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create adds a task to a board; requires editor or owner
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	allowed, err := h.authz.CanEdit(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to edit this board"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task := &model.Task{
		ID:          uuid.New(),
		BoardID:     boardID,
		Description: req.Description,
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, taskResponse(task))
}

// List returns a filtered, paginated page of a board's tasks; any role
// may read. Query params: filter (all|done|undone), page, limit.
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	allowed, err := h.authz.CanAccess(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this board"})
		return
	}

	filter := c.DefaultQuery("filter", "all")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	result, err := h.queries.Tasks(c.Request.Context(), boardID, service.Filter(filter), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks := make([]TaskResponse, 0, len(result.Tasks))
	for i := range result.Tasks {
		tasks = append(tasks, taskResponse(&result.Tasks[i]))
	}

	c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks, Total: result.Total})
}

// Update rewrites a task's description and completion state; requires
// editor or owner on the task's board
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	allowed, err := h.authz.CanEdit(c.Request.Context(), userID, task.BoardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to edit this board"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task.Description = req.Description
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, taskResponse(task))
}

// Delete removes a task; requires editor or owner on the task's board
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	allowed, err := h.authz.CanEdit(c.Request.Context(), userID, task.BoardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to edit this board"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// ClearCompleted deletes every completed task on a board; requires editor
// or owner. Deletions are one at a time, best effort.
func (h *TaskHandler) ClearCompleted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	allowed, err := h.authz.CanEdit(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to edit this board"})
		return
	}

	deleted, err := h.queries.ClearCompleted(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
