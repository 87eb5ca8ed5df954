package api

import (
	"github.com/go-chi/chi/v5"
)

// setupContentRoutes registers the public read routes
func setupContentRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.health())

	// Blog posts
	r.Get("/blog-posts", handlers.blogPostHandler.listBlogPosts())
	r.Get("/blog-posts/slug/{slug}", handlers.blogPostHandler.getBlogPostBySlug())
	r.Get("/blog-posts/{id}", handlers.blogPostHandler.getBlogPost())

	// Categories
	r.Get("/categories", handlers.categoryHandler.listCategories())
	r.Get("/categories/minimal/all", handlers.categoryHandler.listMinimalCategories())
	r.Get("/categories/with-count/all", handlers.categoryHandler.listCategoriesWithCount())
	r.Get("/category/slug/{slug}", handlers.categoryHandler.getCategoryBySlug())
	r.Get("/category/{id}", handlers.categoryHandler.getCategory())

	// Tags
	r.Get("/tags", handlers.tagHandler.listTags())
	r.Get("/tags/minimal/all", handlers.tagHandler.listMinimalTags())
	r.Get("/tags/with-count/all", handlers.tagHandler.listTagsWithCount())
	r.Get("/tag/slug/{slug}", handlers.tagHandler.getTagBySlug())
	r.Get("/tag/{id}", handlers.tagHandler.getTag())

	// Authors
	r.Get("/authors", handlers.authorHandler.listAuthors())
	r.Get("/authors/minimal/all", handlers.authorHandler.listMinimalAuthors())
	r.Get("/authors/email/{email}", handlers.authorHandler.getAuthorByEmail())
	r.Get("/authors/{id}", handlers.authorHandler.getAuthor())

	// Projects
	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Get("/project/{projectID}", handlers.projectHandler.getProject())
}

// setupAdminRoutes registers the write routes behind token authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Post("/blog-posts", handlers.blogPostHandler.createBlogPost())
		r.Put("/blog-posts/{id}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/blog-posts/{id}", handlers.blogPostHandler.deleteBlogPost())

		r.Post("/category", handlers.categoryHandler.createCategory())
		r.Put("/category/{id}", handlers.categoryHandler.updateCategory())
		r.Delete("/category/{id}", handlers.categoryHandler.deleteCategory())

		r.Post("/tag", handlers.tagHandler.createTag())
		r.Put("/tag/{id}", handlers.tagHandler.updateTag())
		r.Delete("/tag/{id}", handlers.tagHandler.deleteTag())

		r.Post("/authors", handlers.authorHandler.createAuthor())
		r.Put("/authors/{id}", handlers.authorHandler.updateAuthor())
		r.Delete("/authors/{id}", handlers.authorHandler.deleteAuthor())

		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		r.Post("/upload", handlers.uploadHandler.uploadFiles())
	})
}
