package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin-backend/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// Options returns the id+label projection of every category
func (r *CategoryRepo) Options() ([]models.Option, error) {
	var options []models.Option
	err := r.db.Model(&models.Category{}).Select("id", "label").Find(&options).Error
	return options, err
}

// Exists reports whether a category row with the given id exists
func (r *CategoryRepo) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Add inserts a new category into the database
func (r *CategoryRepo) Add(category *models.Category) error {
	return r.db.Create(category).Error
}
