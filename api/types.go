package api

import "github.com/rpupo63/portfolio-site/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler blogPostHandler
	categoryHandler categoryHandler
	tagHandler      tagHandler
	authorHandler   authorHandler
	projectHandler  projectHandler
	uploadHandler   uploadHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Blog post not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// Envelope is the shape of every content response.
type Envelope struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

type Meta struct {
	Pagination *models.Pagination `json:"pagination,omitempty"`
}
