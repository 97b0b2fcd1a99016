package handler

import (
	"net/http"

	"taskboard/internal/model"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PermissionHandler struct {
	authz *service.AuthorizationService
}

func NewPermissionHandler(authz *service.AuthorizationService) *PermissionHandler {
	return &PermissionHandler{authz: authz}
}

// ShareBoardRequest grants a role to a user identified by email
type ShareBoardRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=viewer editor"`
}

// RevokeRequest names the role being revoked; it must match what the
// user holds
type RevokeRequest struct {
	Role string `json:"role" binding:"required,oneof=viewer editor"`
}

// MemberResponse is one entry of a board's access list
type MemberResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsOwner bool   `json:"is_owner"`
}

// Share grants a role on a board by email; owner only
func (h *PermissionHandler) Share(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can share the board"})
		return
	}

	var req ShareBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.authz.Grant(c.Request.Context(), req.Email, boardID, model.Role(req.Role)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board shared successfully"})
}

// Revoke removes a user's explicit role on a board; owner only
func (h *PermissionHandler) Revoke(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	targetUserID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	allowed, err := h.authz.CanDelete(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can remove access"})
		return
	}

	var req RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.authz.Revoke(c.Request.Context(), targetUserID, boardID, model.Role(req.Role)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Access removed"})
}

// Members lists everyone with access to a board, implicit owner included
func (h *PermissionHandler) Members(c *gin.Context) {
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

	members, err := h.authz.Members(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, MemberResponse{
			UserID:  m.UserID.String(),
			Email:   m.Email,
			Name:    m.Name,
			Role:    string(m.Role),
			IsOwner: m.IsOwner,
		})
	}

	c.JSON(http.StatusOK, gin.H{"members": resp})
}
