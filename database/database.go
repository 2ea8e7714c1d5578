package database

import (
	"github.com/rpupo63/portfolio-admin-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo    *ProjectRepo
	categoryRepo   *CategoryRepo
	technologyRepo *TechnologyRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:    NewProjectRepo(db),
		categoryRepo:   NewCategoryRepo(db),
		technologyRepo: NewTechnologyRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TechnologyRepo() *TechnologyRepo {
	return d.technologyRepo
}

// AutoMigrate creates or updates the schema for every managed entity,
// including the project_technologies join table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Technology{},
		&models.Project{},
	)
}
