package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"not null"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Board Board `gorm:"foreignKey:BoardID"`
}
