package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// GetByUserAndBoard returns the user's explicit permission row for the
// board, or nil when no grant exists. The implicit owner never has a row.
func (r *PermissionRepository) GetByUserAndBoard(ctx context.Context, userID, boardID uuid.UUID) (*model.Permission, error) {
	var perm model.Permission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND board_id = ?", userID, boardID).
		First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

// Grant stores an explicit role for a user on a board. At most one row
// per (user, board) pair: an existing row with a different role is
// updated in place inside a transaction.
func (r *PermissionRepository) Grant(ctx context.Context, userID, boardID uuid.UUID, role model.Role) error {
	perm := model.Permission{
		UserID:  userID,
		BoardID: boardID,
		Role:    role,
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Permission
		err := tx.Where("user_id = ? AND board_id = ?", userID, boardID).First(&existing).Error

		if err == nil {
			existing.Role = role
			return tx.Save(&existing).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&perm).Error
	})
}

// Revoke deletes the user's explicit permission row for the board.
func (r *PermissionRepository) Revoke(ctx context.Context, userID, boardID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND board_id = ?", userID, boardID).
		Delete(&model.Permission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

// ListByBoard returns every explicit grant on a board with the granted
// users preloaded.
func (r *PermissionRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Permission, error) {
	var perms []model.Permission
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Find(&perms).Error
	return perms, err
}
