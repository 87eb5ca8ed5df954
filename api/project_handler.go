package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// projectInput is the writable part of a project; technologies become its tags.
type projectInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	GithubLink   string   `json:"github_link"`
	DemoLink     string   `json:"demo_link"`
	Type         string   `json:"type"`
	Image        *string  `json:"image"`
	Position     int      `json:"position"`
	Technologies []string `json:"technologies"`
}

func (in projectInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if strings.TrimSpace(in.Description) == "" {
		return errs.NewMissingRequiredFieldError("description")
	}
	return nil
}

func (in projectInput) project(id uuid.UUID) models.Project {
	return models.Project{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		GithubLink:  in.GithubLink,
		DemoLink:    in.DemoLink,
		Type:        in.Type,
		Image:       in.Image,
		Position:    in.Position,
	}
}

func projectIDParam(r *http.Request) (uuid.UUID, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid projectID")
	}
	return projectID, nil
}

// getAllProjects retrieves all projects with their tags
// @Summary Get all projects
// @Description Retrieves all portfolio projects in display order with their technologies
// @Tags Projects
// @Produce json
// @Success 200 {object} Envelope "List of projects with tags"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		pagination := models.NewPagination(1, len(projects), int64(len(projects)))
		h.responder.WriteData(w, http.StatusOK, projects, &pagination)
	}
}

// getProject retrieves a specific project by ID with its tags
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} Envelope "Project details with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteData(w, http.StatusOK, project, nil)
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Success 201 {object} Envelope "Created project with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input projectInput
		if err := decodeData(w, r, "project", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := input.project(uuid.New())
		project.Tags = database.NewProjectTags(input.Technologies)
		if err := h.projectRepo.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		// Reload project to get tags in display order
		created, err := h.projectRepo.FindByID(r.Context(), project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created", "project", err))
			return
		}

		h.responder.WriteData(w, http.StatusCreated, created, nil)
	}
}

// updateProject replaces an existing project and its technologies
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} Envelope "Updated project with tags"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input projectInput
		if err := decodeData(w, r, "project", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := input.project(projectID)
		if err := h.projectRepo.Update(r.Context(), &project, input.Technologies); err != nil {
			if database.IsMissing(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		updated, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "project", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, updated, nil)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			if database.IsMissing(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}
