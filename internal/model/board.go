package model

import (
	"time"

	"github.com/google/uuid"
)

// Board groups tasks. The creator is the implicit owner and needs no
// permission row.
type Board struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Creator User `gorm:"foreignKey:CreatedBy"`
}
