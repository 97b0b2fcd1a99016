package handler

import (
	"net/http"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo *repository.BoardRepository
	authz     *service.AuthorizationService
}

func NewBoardHandler(boardRepo *repository.BoardRepository, authz *service.AuthorizationService) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		authz:     authz,
	}
}

type CreateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type BoardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

func boardResponse(board *model.Board) BoardResponse {
	return BoardResponse{
		ID:        board.ID.String(),
		Name:      board.Name,
		CreatedBy: board.CreatedBy.String(),
		CreatedAt: board.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create creates a new board; the authenticated user becomes its owner
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board := &model.Board{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedBy: userID,
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, boardResponse(board))
}

// GetAll lists the boards the user owns plus the ones shared with them
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	owned, err := h.boardRepo.GetOwned(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	shared, err := h.boardRepo.GetShared(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	ownedResp := make([]BoardResponse, 0, len(owned))
	for i := range owned {
		ownedResp = append(ownedResp, boardResponse(&owned[i]))
	}
	sharedResp := make([]BoardResponse, 0, len(shared))
	for i := range shared {
		sharedResp = append(sharedResp, boardResponse(&shared[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"owned":  ownedResp,
		"shared": sharedResp,
	})
}

// GetByID returns a single board if the user has any role on it
func (h *BoardHandler) GetByID(c *gin.Context) {
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

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

// Update renames a board; requires editor or owner
func (h *BoardHandler) Update(c *gin.Context) {
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

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	board.Name = req.Name
	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

// Delete removes a board and everything on it; owner only
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	allowed, err := h.authz.CanDelete(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can delete the board"})
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted"})
}
