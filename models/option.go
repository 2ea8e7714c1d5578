package models

import "github.com/google/uuid"

// Option is the id+label projection of a reference entity, used to populate
// select controls on the create/edit forms
type Option struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Label string    `json:"label" db:"label"`
}
