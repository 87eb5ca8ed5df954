package api

import (
	"time"

	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, store MediaStore, startupTime time.Time) *routeHandlers {
	contentService := content.NewService(database)

	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(contentService, database.BlogPostRepo()),
		categoryHandler: newCategoryHandler(contentService, database.CategoryRepo()),
		tagHandler:      newTagHandler(contentService, database.TagRepo()),
		authorHandler:   newAuthorHandler(contentService, database.AuthorRepo()),
		projectHandler:  newProjectHandler(database.ProjectRepo()),
		uploadHandler:   newUploadHandler(database.MediaAssetRepo(), store),
		healthHandler:   newHealthHandler(database, startupTime),
	}
}
