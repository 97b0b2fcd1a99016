package model

import (
	"time"

	"github.com/google/uuid"
)

// Permission is an explicit role grant for a user on a board. The board
// owner has no row here: ownership is derived from Board.CreatedBy.
type Permission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_permissions_user_board"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_permissions_user_board"`
	Role      Role      `gorm:"not null;check:role IN ('viewer', 'editor')"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}
