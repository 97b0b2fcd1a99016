package model

import "time"

// MigrationRecord is one row of the append-only migration ledger: a file
// that has been fully applied. Rows are only ever deleted by rolling back
// that specific migration.
type MigrationRecord struct {
	Filename   string    `gorm:"primaryKey"`
	ExecutedAt time.Time `gorm:"not null"`
}

func (MigrationRecord) TableName() string {
	return "migrations"
}
