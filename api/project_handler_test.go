package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin-backend/models"
	"github.com/rpupo63/portfolio-admin-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// in-memory stores for exercising the handlers end to end

type memProjectStore struct {
	projects map[uuid.UUID]*models.Project
	techIDs  map[uuid.UUID][]uuid.UUID
}

func newMemProjectStore() *memProjectStore {
	return &memProjectStore{
		projects: make(map[uuid.UUID]*models.Project),
		techIDs:  make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *memProjectStore) FindPage(page, perPage int) ([]*models.Project, int64, error) {
	all := make([]*models.Project, 0, len(m.projects))
	for id := range m.projects {
		project, _ := m.FindByID(id)
		all = append(all, project)
	}
	return all, int64(len(all)), nil
}

func (m *memProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	clone := *project
	clone.Technologies = nil
	for _, techID := range m.techIDs[id] {
		clone.Technologies = append(clone.Technologies, models.Technology{ID: techID})
	}
	return &clone, nil
}

func (m *memProjectStore) TitleTaken(title string, exclude uuid.UUID) (bool, error) {
	for id, project := range m.projects {
		if project.Title == title && id != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProjectStore) Add(project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	clone := *project
	m.projects[project.ID] = &clone
	return nil
}

func (m *memProjectStore) Save(project *models.Project) error {
	project.UpdatedAt = time.Now()
	clone := *project
	m.projects[project.ID] = &clone
	return nil
}

func (m *memProjectStore) Delete(id uuid.UUID) error {
	delete(m.projects, id)
	delete(m.techIDs, id)
	return nil
}

func (m *memProjectStore) AttachTechnologies(project *models.Project, ids []uuid.UUID) error {
	m.techIDs[project.ID] = append(m.techIDs[project.ID], ids...)
	return nil
}

func (m *memProjectStore) ReplaceTechnologies(project *models.Project, ids []uuid.UUID) error {
	m.techIDs[project.ID] = append([]uuid.UUID(nil), ids...)
	return nil
}

func (m *memProjectStore) ClearTechnologies(project *models.Project) error {
	delete(m.techIDs, project.ID)
	return nil
}

type memOptionStore struct {
	options []models.Option
}

func (m *memOptionStore) Options() ([]models.Option, error) {
	return m.options, nil
}

func (m *memOptionStore) Exists(id uuid.UUID) (bool, error) {
	for _, option := range m.options {
		if option.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memOptionStore) Exist(ids []uuid.UUID) (bool, error) {
	for _, id := range ids {
		ok, _ := m.Exists(id)
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

type memBlobStore struct {
	blobs map[string][]byte
}

func (m *memBlobStore) Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.blobs[key] = data
	return key, nil
}

func (m *memBlobStore) Delete(ctx context.Context, ref string) error {
	delete(m.blobs, ref)
	return nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *memProjectStore, *memOptionStore) {
	t.Helper()

	projects := newMemProjectStore()
	technologies := &memOptionStore{}
	admin := services.NewProjectAdmin(
		projects,
		&memOptionStore{},
		technologies,
		&memBlobStore{blobs: make(map[string][]byte)},
	)

	handlers := &routeHandlers{projectHandler: newProjectHandler(admin)}
	router := chi.NewRouter()
	setupAdminRoutes(router, handlers, newAuthMiddleware(""))
	return router, projects, technologies
}

// multipartBody builds a multipart form with the given fields, plus an
// optional image part
func multipartBody(t *testing.T, fields map[string][]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value))
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateProjectEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string][]string{
		"title":       {"Portfolio Site"},
		"description": {"A demo"},
	}, "")

	req := httptest.NewRequest(http.MethodPost, "/project", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response struct {
		Project models.Project `json:"project"`
		Message string         `json:"message"`
		Type    string         `json:"type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "portfolio-site", response.Project.Slug)
	assert.Equal(t, "Post creato con successo", response.Message)
	assert.Equal(t, "success", response.Type)
}

func TestCreateProjectEndpointValidationError(t *testing.T) {
	router, projects, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string][]string{
		"description": {"A demo"},
	}, "")

	req := httptest.NewRequest(http.MethodPost, "/project", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, services.MsgTitleRequired, response.Fields["title"])
	assert.Empty(t, projects.projects)
}

func TestCreateProjectEndpointBadImageExtension(t *testing.T) {
	router, projects, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string][]string{
		"title":       {"Portfolio Site"},
		"description": {"A demo"},
	}, "animation.gif")

	req := httptest.NewRequest(http.MethodPost, "/project", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Fields, "image")
	assert.Empty(t, projects.projects)
}

func TestGetProjectEndpointNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/project/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProjectEndpointInvalidID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/project/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProjectEndpointOmittedTechnologiesDetaches(t *testing.T) {
	router, projects, technologies := newTestRouter(t)

	techID := uuid.New()
	technologies.options = append(technologies.options, models.Option{ID: techID, Label: "Go"})

	body, contentType := multipartBody(t, map[string][]string{
		"title":        {"Portfolio Site"},
		"description":  {"A demo"},
		"technologies": {techID.String()},
	}, "")
	req := httptest.NewRequest(http.MethodPost, "/project", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, projects.techIDs[created.Project.ID], 1)

	// resubmit without the technologies key at all
	body, contentType = multipartBody(t, map[string][]string{
		"title":       {"Portfolio Site"},
		"description": {"A demo"},
	}, "")
	req = httptest.NewRequest(http.MethodPut, "/project/"+created.Project.ID.String(), body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, projects.techIDs[created.Project.ID])
}

func TestDeleteProjectEndpoint(t *testing.T) {
	router, projects, _ := newTestRouter(t)

	project := &models.Project{Title: "Portfolio Site", Slug: "portfolio-site", Description: "A demo"}
	require.NoError(t, projects.Add(project))

	req := httptest.NewRequest(http.MethodDelete, "/project/"+project.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Post eliminato con successo", response["message"])
	assert.Empty(t, projects.projects)
}

func TestAuthMiddleware(t *testing.T) {
	middleware := newAuthMiddleware("sekret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.authenticate(next)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
