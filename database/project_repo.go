package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindPage returns one page of projects, most recently updated first, along
// with the total number of projects in the table
func (r *ProjectRepo) FindPage(page, perPage int) ([]*models.Project, int64, error) {
	var total int64
	if err := r.db.Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err := r.db.
		Preload("Category").
		Preload("Technologies").
		Order("updated_at DESC").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&projects).Error
	return projects, total, err
}

// FindByID returns a project by its ID, or nil when no row matches
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Category").
		Preload("Technologies").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// TitleTaken reports whether another project already uses the given title.
// Pass uuid.Nil as exclude when checking for a brand new project.
func (r *ProjectRepo) TitleTaken(title string, exclude uuid.UUID) (bool, error) {
	query := r.db.Model(&models.Project{}).Where("title = ?", title)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	if err := r.db.Omit("Technologies", "Category").Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewAlreadyExists("project")
		}
		return err
	}
	return nil
}

// Save persists every field of an existing project
func (r *ProjectRepo) Save(project *models.Project) error {
	if err := r.db.Omit("Technologies", "Category").Save(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewAlreadyExists("project")
		}
		return err
	}
	return nil
}

// Delete removes a project from the database by id. Join rows are removed
// through the association before the row itself goes away.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	project := models.Project{ID: id}
	if err := r.db.Model(&project).Association("Technologies").Clear(); err != nil {
		return err
	}
	return r.db.Delete(&project).Error
}

// AttachTechnologies adds join rows for the given technology ids
func (r *ProjectRepo) AttachTechnologies(project *models.Project, ids []uuid.UUID) error {
	return r.db.Model(project).Association("Technologies").Append(technologyRefs(ids))
}

// ReplaceTechnologies syncs the association set to exactly the given ids:
// extras are removed, missing ones added, unchanged ones left alone
func (r *ProjectRepo) ReplaceTechnologies(project *models.Project, ids []uuid.UUID) error {
	return r.db.Model(project).Association("Technologies").Replace(technologyRefs(ids))
}

// ClearTechnologies removes every technology association of the project
func (r *ProjectRepo) ClearTechnologies(project *models.Project) error {
	return r.db.Model(project).Association("Technologies").Clear()
}

func technologyRefs(ids []uuid.UUID) *[]models.Technology {
	technologies := make([]models.Technology, 0, len(ids))
	for _, id := range ids {
		technologies = append(technologies, models.Technology{ID: id})
	}
	return &technologies
}
