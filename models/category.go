package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a reference entity; projects optionally belong to one
type Category struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Label string    `json:"label" db:"label" gorm:"type:text;not null"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
