package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a portfolio project managed through the admin surface
type Project struct {
	ID           uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string       `json:"title" db:"title" gorm:"type:text;not null;unique"`
	Slug         string       `json:"slug" db:"slug" gorm:"type:text;not null"`
	Description  string       `json:"description" db:"description" gorm:"type:text;not null"`
	Image        *string      `json:"image,omitempty" db:"image" gorm:"type:text"`
	CategoryID   *uuid.UUID   `json:"category_id,omitempty" db:"category_id" gorm:"type:uuid"`
	Category     *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
	Technologies []Technology `json:"technologies,omitempty" gorm:"many2many:project_technologies;"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// BeforeCreate assigns an ID when the caller did not provide one
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TechnologyIDs returns the ids of the currently associated technologies
func (p *Project) TechnologyIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Technologies))
	for _, technology := range p.Technologies {
		ids = append(ids, technology.ID)
	}
	return ids
}
