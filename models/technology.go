package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Technology is a reference entity attached to projects through a join table
type Technology struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Label string    `json:"label" db:"label" gorm:"type:text;not null"`
}

func (t *Technology) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
