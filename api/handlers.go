package api

import (
	"github.com/rpupo63/portfolio-admin-backend/database"
	"github.com/rpupo63/portfolio-admin-backend/services"
	"github.com/rpupo63/portfolio-admin-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, blobs storage.BlobStore) *routeHandlers {
	admin := services.NewProjectAdmin(
		database.ProjectRepo(),
		database.CategoryRepo(),
		database.TechnologyRepo(),
		blobs,
	)

	return &routeHandlers{
		projectHandler: newProjectHandler(admin),
	}
}
