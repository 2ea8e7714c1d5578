package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin-backend/models"
	"gorm.io/gorm"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// Options returns the id+label projection of every technology
func (r *TechnologyRepo) Options() ([]models.Option, error) {
	var options []models.Option
	err := r.db.Model(&models.Technology{}).Select("id", "label").Find(&options).Error
	return options, err
}

// Exist reports whether every one of the given ids references a technology
// row. Duplicate ids in the input are checked once.
func (r *TechnologyRepo) Exist(ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	distinct := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}

	var count int64
	err := r.db.Model(&models.Technology{}).Where("id IN ?", ids).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(distinct)), nil
}

// Add inserts a new technology into the database
func (r *TechnologyRepo) Add(technology *models.Technology) error {
	return r.db.Create(technology).Error
}
