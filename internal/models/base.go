package models

import (
	"fmt"
	"time"

	"weddingbudget/internal/uuid"

	"gorm.io/gorm"
)

// Base holds the key and timestamps shared by every table. Soft-deleted rows
// are filtered by gorm and never serialized.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUIDv7 key. A caller-supplied ID must already be a
// UUID and is stored in canonical form.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
		return nil
	}
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return fmt.Errorf("invalid primary key %q: %w", b.ID, err)
	}
	b.ID = id
	return nil
}
