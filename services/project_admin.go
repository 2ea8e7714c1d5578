package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
	"github.com/rpupo63/portfolio-admin-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Validation messages shown on the admin frontend, which is Italian.
// They are part of the API contract and must not be reworded casually.
const (
	MsgTitleRequired       = "Il titolo è obbligatorio"
	MsgTitleTaken          = "Non possono esistere due progetti con lo stesso nome"
	MsgDescriptionRequired = "La descrizione è obbligatoria"
	MsgNotAnImage          = "Il file inserito non è un immagine"
	MsgBadImageExtension   = "Le estensione valide sono: .png, .jpg e .jpeg"
	MsgInvalidCategory     = "Categoria non valida o non esistente"
	MsgInvalidTechnology   = "Tecnologia selezionata non valida"
)

const (
	msgProjectCreated = "Post creato con successo"
	msgProjectUpdated = "Post modificato con successo"
	msgProjectDeleted = "Post eliminato con successo"

	statusSuccess = "success"

	// fixed page size of the project listing
	perPage = 10

	// key prefix for uploaded project images in the blob store
	imageNamespace = "project_images"
)

var allowedImageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// ProjectStore is the persistence contract the service needs for projects
type ProjectStore interface {
	FindPage(page, perPage int) ([]*models.Project, int64, error)
	FindByID(id uuid.UUID) (*models.Project, error)
	TitleTaken(title string, exclude uuid.UUID) (bool, error)
	Add(project *models.Project) error
	Save(project *models.Project) error
	Delete(id uuid.UUID) error
	AttachTechnologies(project *models.Project, ids []uuid.UUID) error
	ReplaceTechnologies(project *models.Project, ids []uuid.UUID) error
	ClearTechnologies(project *models.Project) error
}

// CategoryStore exposes the read-only category reference data
type CategoryStore interface {
	Options() ([]models.Option, error)
	Exists(id uuid.UUID) (bool, error)
}

// TechnologyStore exposes the read-only technology reference data
type TechnologyStore interface {
	Options() ([]models.Option, error)
	Exist(ids []uuid.UUID) (bool, error)
}

// StatusMessage carries the human-readable outcome of a mutating operation
type StatusMessage struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ProjectPage is one page of the project listing plus pagination metadata
type ProjectPage struct {
	Projects []*models.Project `json:"projects"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
	LastPage int               `json:"last_page"`
}

// NewFormData populates the project creation form
type NewFormData struct {
	Project      models.Project  `json:"project"`
	Categories   []models.Option `json:"categories"`
	Technologies []models.Option `json:"technologies"`
}

// EditFormData populates the project edit form, with the current technology
// ids for pre-selecting the form controls
type EditFormData struct {
	Project       models.Project  `json:"project"`
	TechnologyIDs []uuid.UUID     `json:"technology_ids"`
	Categories    []models.Option `json:"categories"`
	Technologies  []models.Option `json:"technologies"`
}

// ImageUpload is an uploaded image file as received from the request
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProjectInput is the allow-listed set of fields a create or update request
// may provide. A nil TechnologyIDs slice means the field was omitted, which
// on update detaches every technology; a non-nil (possibly empty) slice
// means the association set must match it exactly.
type ProjectInput struct {
	Title         string
	Description   string
	CategoryID    *uuid.UUID
	TechnologyIDs []uuid.UUID
	Image         *ImageUpload
}

// ProjectAdminService implements the admin CRUD surface for projects:
// validation, slug derivation, image blob lifecycle and technology
// association bookkeeping
type ProjectAdminService struct {
	logger       zerolog.Logger
	projects     ProjectStore
	categories   CategoryStore
	technologies TechnologyStore
	blobs        storage.BlobStore
}

func NewProjectAdmin(projects ProjectStore, categories CategoryStore, technologies TechnologyStore, blobs storage.BlobStore) ProjectAdminService {
	logger := log.With().Str("serviceName", "projectAdmin").Logger()

	return ProjectAdminService{
		logger:       logger,
		projects:     projects,
		categories:   categories,
		technologies: technologies,
		blobs:        blobs,
	}
}

// List returns one fixed-size page of projects ordered by last update
func (s ProjectAdminService) List(page int) (ProjectPage, error) {
	if page < 1 {
		page = 1
	}

	projects, total, err := s.projects.FindPage(page, perPage)
	if err != nil {
		return ProjectPage{}, errs.NewDatabaseError("find", "projects", err)
	}

	lastPage := int((total + perPage - 1) / perPage)
	if lastPage < 1 {
		lastPage = 1
	}

	return ProjectPage{
		Projects: projects,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage,
	}, nil
}

// NewForm returns an empty project template plus the reference lists needed
// to render the creation form. Read-only, no side effects.
func (s ProjectAdminService) NewForm() (NewFormData, error) {
	categories, err := s.categories.Options()
	if err != nil {
		return NewFormData{}, errs.NewDatabaseError("find", "categories", err)
	}

	technologies, err := s.technologies.Options()
	if err != nil {
		return NewFormData{}, errs.NewDatabaseError("find", "technologies", err)
	}

	return NewFormData{
		Project:      models.Project{},
		Categories:   categories,
		Technologies: technologies,
	}, nil
}

// Create validates the input, stores the optional image blob, persists the
// new project and attaches the submitted technologies
func (s ProjectAdminService) Create(ctx context.Context, input ProjectInput) (*models.Project, StatusMessage, error) {
	fields, err := s.validate(input, uuid.Nil)
	if err != nil {
		return nil, StatusMessage{}, err
	}
	if len(fields) > 0 {
		return nil, StatusMessage{}, errs.NewValidationError(fields)
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Slug:        slug.Make(input.Title),
	}

	if input.Image != nil {
		ref, err := s.storeImage(ctx, project.Slug, input.Image)
		if err != nil {
			return nil, StatusMessage{}, errs.NewInternalErrorWithCause("failed to store project image", err)
		}
		project.Image = &ref
	}

	if err := s.projects.Add(project); err != nil {
		// the row never made it in, so the fresh blob must not stay behind
		if project.Image != nil {
			s.discardBlob(ctx, *project.Image)
		}
		if errs.IsAlreadyExists(err) {
			// lost a concurrent-create race on the unique title index
			return nil, StatusMessage{}, errs.NewFieldValidationError("title", MsgTitleTaken)
		}
		return nil, StatusMessage{}, errs.NewDatabaseError("create", "project", err)
	}

	if len(input.TechnologyIDs) > 0 {
		if err := s.projects.AttachTechnologies(project, input.TechnologyIDs); err != nil {
			return nil, StatusMessage{}, errs.NewDatabaseError("attach technologies to", "project", err)
		}
	}

	created, err := s.projects.FindByID(project.ID)
	if err != nil {
		return nil, StatusMessage{}, errs.NewDatabaseError("find created", "project", err)
	}
	if created == nil {
		created = project
	}

	s.logger.Info().
		Str("projectID", project.ID.String()).
		Str("slug", project.Slug).
		Msg("project created")

	return created, StatusMessage{Message: msgProjectCreated, Type: statusSuccess}, nil
}

// Show returns the project with the given id
func (s ProjectAdminService) Show(id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

// EditForm returns the project plus everything the edit form needs:
// its current technology ids and both reference lists. Read-only.
func (s ProjectAdminService) EditForm(id uuid.UUID) (EditFormData, error) {
	project, err := s.Show(id)
	if err != nil {
		return EditFormData{}, err
	}

	categories, err := s.categories.Options()
	if err != nil {
		return EditFormData{}, errs.NewDatabaseError("find", "categories", err)
	}

	technologies, err := s.technologies.Options()
	if err != nil {
		return EditFormData{}, errs.NewDatabaseError("find", "technologies", err)
	}

	return EditFormData{
		Project:       *project,
		TechnologyIDs: project.TechnologyIDs(),
		Categories:    categories,
		Technologies:  technologies,
	}, nil
}

// Update overwrites the mutable fields of an existing project, recomputes
// its slug, swaps the image blob when a new file was uploaded and syncs the
// technology association set
func (s ProjectAdminService) Update(ctx context.Context, id uuid.UUID, input ProjectInput) (*models.Project, StatusMessage, error) {
	project, err := s.projects.FindByID(id)
	if err != nil {
		return nil, StatusMessage{}, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, StatusMessage{}, errs.NewNotFound("project")
	}

	fields, err := s.validate(input, id)
	if err != nil {
		return nil, StatusMessage{}, err
	}
	if len(fields) > 0 {
		return nil, StatusMessage{}, errs.NewValidationError(fields)
	}

	newSlug := slug.Make(input.Title)

	if input.Image != nil {
		// write the new blob before removing the old one, so that a
		// failed write never costs the project its stored image
		ref, err := s.storeImage(ctx, newSlug, input.Image)
		if err != nil {
			return nil, StatusMessage{}, errs.NewInternalErrorWithCause("failed to store project image", err)
		}
		if project.Image != nil && *project.Image != ref {
			s.discardBlob(ctx, *project.Image)
		}
		project.Image = &ref
	}

	project.Title = input.Title
	project.Slug = newSlug
	project.Description = input.Description
	project.CategoryID = input.CategoryID

	if err := s.projects.Save(project); err != nil {
		if errs.IsAlreadyExists(err) {
			// lost a concurrent-rename race on the unique title index
			return nil, StatusMessage{}, errs.NewFieldValidationError("title", MsgTitleTaken)
		}
		return nil, StatusMessage{}, errs.NewDatabaseError("update", "project", err)
	}

	if input.TechnologyIDs != nil {
		if err := s.projects.ReplaceTechnologies(project, input.TechnologyIDs); err != nil {
			return nil, StatusMessage{}, errs.NewDatabaseError("sync technologies of", "project", err)
		}
	} else if len(project.Technologies) > 0 {
		if err := s.projects.ClearTechnologies(project); err != nil {
			return nil, StatusMessage{}, errs.NewDatabaseError("detach technologies of", "project", err)
		}
	}

	updated, err := s.projects.FindByID(id)
	if err != nil {
		return nil, StatusMessage{}, errs.NewDatabaseError("find updated", "project", err)
	}
	if updated == nil {
		updated = project
	}

	s.logger.Info().
		Str("projectID", id.String()).
		Str("slug", newSlug).
		Msg("project updated")

	return updated, StatusMessage{Message: msgProjectUpdated, Type: statusSuccess}, nil
}

// Destroy removes the project row and then its image blob, if any. The blob
// delete is best-effort; a crash between the two steps leaves an orphaned
// blob behind.
func (s ProjectAdminService) Destroy(ctx context.Context, id uuid.UUID) (StatusMessage, error) {
	project, err := s.projects.FindByID(id)
	if err != nil {
		return StatusMessage{}, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return StatusMessage{}, errs.NewNotFound("project")
	}

	if err := s.projects.Delete(id); err != nil {
		return StatusMessage{}, errs.NewDatabaseError("delete", "project", err)
	}

	if project.Image != nil {
		s.discardBlob(ctx, *project.Image)
	}

	s.logger.Info().Str("projectID", id.String()).Msg("project deleted")

	return StatusMessage{Message: msgProjectDeleted, Type: statusSuccess}, nil
}

// validate applies the create/update rules and returns a field->message map
// of every failure. exclude is the id whose title row is ignored by the
// uniqueness check; pass uuid.Nil on create. An error return means the
// reference stores themselves failed.
func (s ProjectAdminService) validate(input ProjectInput, exclude uuid.UUID) (map[string]string, error) {
	fields := make(map[string]string)

	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = MsgTitleRequired
	} else {
		taken, err := s.projects.TitleTaken(input.Title, exclude)
		if err != nil {
			return nil, errs.NewDatabaseError("check title uniqueness of", "project", err)
		}
		if taken {
			fields["title"] = MsgTitleTaken
		}
	}

	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = MsgDescriptionRequired
	}

	if input.Image != nil {
		if !strings.HasPrefix(input.Image.ContentType, "image/") {
			fields["image"] = MsgNotAnImage
		} else if _, ok := allowedImageExtensions[imageExtension(input.Image.Filename)]; !ok {
			fields["image"] = MsgBadImageExtension
		}
	}

	if input.CategoryID != nil {
		exists, err := s.categories.Exists(*input.CategoryID)
		if err != nil {
			return nil, errs.NewDatabaseError("check existence of", "category", err)
		}
		if !exists {
			fields["category_id"] = MsgInvalidCategory
		}
	}

	if len(input.TechnologyIDs) > 0 {
		exist, err := s.technologies.Exist(input.TechnologyIDs)
		if err != nil {
			return nil, errs.NewDatabaseError("check existence of", "technologies", err)
		}
		if !exist {
			fields["technologies"] = MsgInvalidTechnology
		}
	}

	return fields, nil
}

// storeImage writes the uploaded file under project_images/<slug>.<ext> and
// returns the stored reference
func (s ProjectAdminService) storeImage(ctx context.Context, projectSlug string, image *ImageUpload) (string, error) {
	key := fmt.Sprintf("%s/%s%s", imageNamespace, projectSlug, imageExtension(image.Filename))
	return s.blobs.Put(ctx, key, image.ContentType, bytes.NewReader(image.Data))
}

// discardBlob deletes a blob best-effort; failures are logged, never fatal
func (s ProjectAdminService) discardBlob(ctx context.Context, ref string) {
	if err := s.blobs.Delete(ctx, ref); err != nil {
		s.logger.Warn().Err(err).Str("ref", ref).Msg("failed to delete image blob")
	}
}

func imageExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
