package models

import (
	"time"
)

// LedgerRecord is the SQL row holding one namespace's Document as JSON.
type LedgerRecord struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	Revision  int64     `gorm:"not null;default:0"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name used by the migrations.
func (LedgerRecord) TableName() string {
	return "ledgers"
}
