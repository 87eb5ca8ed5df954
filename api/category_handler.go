package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	content      *content.Service
	categoryRepo *database.CategoryRepo
}

func newCategoryHandler(contentService *content.Service, categoryRepo *database.CategoryRepo) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		content:      contentService,
		categoryRepo: categoryRepo,
	}
}

// taxonomyInput is the writable part of a category or tag.
type taxonomyInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (in taxonomyInput) validate(creating bool) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" || creating && in.Name == nil {
		return errs.NewMissingRequiredFieldError("name")
	}
	if in.Slug != nil && models.Slugify(*in.Slug) == "" {
		return errs.NewInvalidFieldError("slug", "must contain letters or digits")
	}
	return nil
}

func (in taxonomyInput) changes(withDetails bool) map[string]any {
	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		changes["slug"] = models.Slugify(*in.Slug)
	}
	if withDetails && in.Description != nil {
		changes["description"] = *in.Description
	}
	if withDetails && in.Color != nil {
		changes["color"] = *in.Color
	}
	return changes
}

func (in taxonomyInput) slug() string {
	if in.Slug == nil {
		return ""
	}
	return models.Slugify(*in.Slug)
}

// listCategories lists categories
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} Envelope "Page of categories"
// @Router /categories [get]
func (h categoryHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		categories, pagination, err := h.categoryRepo.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "categories", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, categories, &pagination)
	}
}

// listMinimalCategories lists categories reduced to id, name, slug, color and description, by name
// @Summary List minimal categories
// @Tags Categories
// @Produce json
// @Success 200 {object} Envelope "Page of categories"
// @Router /categories/minimal/all [get]
func (h categoryHandler) listMinimalCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		categories, pagination, err := h.categoryRepo.ListMinimal(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "categories", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, categories, &pagination)
	}
}

// listCategoriesWithCount lists categories with their post counts
// @Summary List categories with post counts
// @Tags Categories
// @Produce json
// @Success 200 {object} Envelope "Page of categories with postCount"
// @Router /categories/with-count/all [get]
func (h categoryHandler) listCategoriesWithCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		categories, pagination, err := h.categoryRepo.ListWithCount(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count posts of", "categories", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, categories, &pagination)
	}
}

func (h categoryHandler) writeCategoryPosts(w http.ResponseWriter, r *http.Request, slug string) {
	values := r.URL.Query()
	page, err := parsePage(values)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	sorts, err := parseSort(values)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	category, pagination, err := h.content.CategoryBySlug(r.Context(), slug, page, sorts)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteData(w, http.StatusOK, category, &pagination)
}

// getCategoryBySlug returns a category with one page of its posts
// @Summary Get category by slug
// @Tags Categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} Envelope "Category with blog_posts"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /category/slug/{slug} [get]
func (h categoryHandler) getCategoryBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeCategoryPosts(w, r, chi.URLParam(r, "slug"))
	}
}

// getCategory returns a category by id, or by slug when the id looks like one
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path string true "Category id or slug"
// @Success 200 {object} Envelope "Category"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /category/{id} [get]
func (h categoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lookup := content.TaxonomyLookup(chi.URLParam(r, "id"))
		if lookup.Kind == content.BySlug {
			h.writeCategoryPosts(w, r, lookup.Raw)
			return
		}

		category, err := h.content.CategoryByID(r.Context(), lookup)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, category, nil)
	}
}

// createCategory creates a new category
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Success 201 {object} Envelope "Created category"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already used"
// @Router /category [post]
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input taxonomyInput
		if err := decodeData(w, r, "category", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category := models.Category{
			Name:        strings.TrimSpace(*input.Name),
			Slug:        input.slug(),
			Description: input.Description,
			Color:       input.Color,
		}
		if err := h.categoryRepo.Add(r.Context(), &category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "category", err))
			return
		}

		h.responder.WriteData(w, http.StatusCreated, category, nil)
	}
}

// updateCategory updates the given fields of a category
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category id"
// @Success 200 {object} Envelope "Updated category"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /category/{id} [put]
func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input taxonomyInput
		if err := decodeData(w, r, "category", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.categoryRepo.Update(r.Context(), id, input.changes(true)); err != nil {
			if database.IsMissing(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("Category not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("update", "category", err))
			return
		}

		category, err := h.content.CategoryByID(r.Context(), content.Lookup{Kind: content.ByID, ID: id})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, category, nil)
	}
}

// deleteCategory deletes a category; its posts become uncategorized
// @Summary Delete category
// @Tags Categories
// @Produce json
// @Param id path int true "Category id"
// @Success 200 {object} Envelope "Deleted category"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /category/{id} [delete]
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.content.CategoryByID(r.Context(), content.Lookup{Kind: content.ByID, ID: id})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "category", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, category, nil)
	}
}
