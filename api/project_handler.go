package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// uploaded images are buffered in memory up to this size
const maxUploadSize = 10 << 20 // 10MB

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	admin     services.ProjectAdminService
}

func newProjectHandler(admin services.ProjectAdminService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		admin:     admin,
	}
}

// ProjectStatusResponse pairs an entity with the status message shown after
// a successful mutation
type ProjectStatusResponse struct {
	Project any    `json:"project"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// listProjects returns one page of projects, most recently updated first
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid page number"))
				return
			}
			page = parsed
		}

		projectPage, err := h.admin.List(page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, projectPage)
	}
}

// newProjectForm returns an empty project template plus the category and
// technology lists needed to render the creation form
func (h projectHandler) newProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := h.admin.NewForm()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, form)
	}
}

// getProject retrieves a specific project by ID
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.projectIDFromURL(w, r)
		if !ok {
			return
		}

		project, err := h.admin.Show(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// editProjectForm returns the project together with its current technology
// ids and the reference lists, for pre-populating the edit form
func (h projectHandler) editProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.projectIDFromURL(w, r)
		if !ok {
			return
		}

		form, err := h.admin.EditForm(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, form)
	}
}

// createProject creates a new project from a multipart form submission
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := h.parseProjectInput(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, status, err := h.admin.Create(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, ProjectStatusResponse{
			Project: project,
			Message: status.Message,
			Type:    status.Type,
		})
	}
}

// updateProject overwrites an existing project from a multipart form submission
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.projectIDFromURL(w, r)
		if !ok {
			return
		}

		input, err := h.parseProjectInput(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, status, err := h.admin.Update(r.Context(), projectID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectStatusResponse{
			Project: project,
			Message: status.Message,
			Type:    status.Type,
		})
	}
}

// deleteProject deletes a project by ID
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.projectIDFromURL(w, r)
		if !ok {
			return
		}

		status, err := h.admin.Destroy(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  status.Type,
			"message": status.Message,
		})
	}
}

func (h projectHandler) projectIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
		return uuid.Nil, false
	}

	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
		return uuid.Nil, false
	}

	return projectID, true
}

// parseProjectInput translates a multipart form submission into the
// allow-listed input struct. Only the named fields are ever read; anything
// else in the payload is ignored.
func (h projectHandler) parseProjectInput(r *http.Request) (services.ProjectInput, error) {
	var input services.ProjectInput

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse multipart request body")
		return input, errs.NewBadRequestError("malformed multipart request body")
	}

	input.Title = r.FormValue("title")
	input.Description = r.FormValue("description")

	if raw := strings.TrimSpace(r.FormValue("category_id")); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return input, errs.NewFieldValidationError("category_id", services.MsgInvalidCategory)
		}
		input.CategoryID = &categoryID
	}

	// a present key with no parseable values still counts as "supplied",
	// which on update means the association set becomes empty
	if values, ok := r.MultipartForm.Value["technologies"]; ok {
		ids := make([]uuid.UUID, 0, len(values))
		for _, raw := range values {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return input, errs.NewFieldValidationError("technologies", services.MsgInvalidTechnology)
			}
			ids = append(ids, id)
		}
		input.TechnologyIDs = ids
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read uploaded image")
			return input, errs.NewBadRequestError("failed to read uploaded image")
		}
		input.Image = &services.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	case errors.Is(err, http.ErrMissingFile):
		// image is optional
	default:
		h.logger.Error().Err(err).Msg("Failed to read image form part")
		return input, errs.NewBadRequestError("malformed image form part")
	}

	return input, nil
}
