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

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *content.Service
	tagRepo   *database.TagRepo
}

func newTagHandler(contentService *content.Service, tagRepo *database.TagRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   contentService,
		tagRepo:   tagRepo,
	}
}

// listTags lists tags
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {object} Envelope "Page of tags"
// @Router /tags [get]
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, pagination, err := h.tagRepo.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, tags, &pagination)
	}
}

// listMinimalTags lists tags reduced to id, name and slug, by name
// @Summary List minimal tags
// @Tags Tags
// @Produce json
// @Success 200 {object} Envelope "Page of tags"
// @Router /tags/minimal/all [get]
func (h tagHandler) listMinimalTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, pagination, err := h.tagRepo.ListMinimal(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, tags, &pagination)
	}
}

// listTagsWithCount lists tags with their post counts
// @Summary List tags with post counts
// @Tags Tags
// @Produce json
// @Success 200 {object} Envelope "Page of tags with postCount"
// @Router /tags/with-count/all [get]
func (h tagHandler) listTagsWithCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, pagination, err := h.tagRepo.ListWithCount(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count posts of", "tags", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, tags, &pagination)
	}
}

func (h tagHandler) writeTagPosts(w http.ResponseWriter, r *http.Request, slug string) {
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

	tag, pagination, err := h.content.TagBySlug(r.Context(), slug, page, sorts)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	h.responder.WriteData(w, http.StatusOK, tag, &pagination)
}

// getTagBySlug returns a tag with one page of its posts
// @Summary Get tag by slug
// @Tags Tags
// @Produce json
// @Param slug path string true "Tag slug"
// @Success 200 {object} Envelope "Tag with blog_posts"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tag/slug/{slug} [get]
func (h tagHandler) getTagBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeTagPosts(w, r, chi.URLParam(r, "slug"))
	}
}

// getTag returns a tag by id, or by slug when the id looks like one
// @Summary Get tag
// @Tags Tags
// @Produce json
// @Param id path string true "Tag id or slug"
// @Success 200 {object} Envelope "Tag"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tag/{id} [get]
func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lookup := content.TaxonomyLookup(chi.URLParam(r, "id"))
		if lookup.Kind == content.BySlug {
			h.writeTagPosts(w, r, lookup.Raw)
			return
		}

		tag, err := h.content.TagByID(r.Context(), lookup)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, tag, nil)
	}
}

// createTag creates a new tag
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Success 201 {object} Envelope "Created tag"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already used"
// @Router /tag [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input taxonomyInput
		if err := decodeData(w, r, "tag", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag := models.Tag{
			Name: strings.TrimSpace(*input.Name),
			Slug: input.slug(),
		}
		if err := h.tagRepo.Add(r.Context(), &tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "tag", err))
			return
		}

		h.responder.WriteData(w, http.StatusCreated, tag, nil)
	}
}

// updateTag updates the given fields of a tag
// @Summary Update tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path int true "Tag id"
// @Success 200 {object} Envelope "Updated tag"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tag/{id} [put]
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input taxonomyInput
		if err := decodeData(w, r, "tag", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagRepo.Update(r.Context(), id, input.changes(false)); err != nil {
			if database.IsMissing(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("Tag not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("update", "tag", err))
			return
		}

		tag, err := h.content.TagByID(r.Context(), content.Lookup{Kind: content.ByID, ID: id})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, tag, nil)
	}
}

// deleteTag deletes a tag and unlinks it from every post
// @Summary Delete tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag id"
// @Success 200 {object} Envelope "Deleted tag"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tag/{id} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.content.TagByID(r.Context(), content.Lookup{Kind: content.ByID, ID: id})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.tagRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "tag", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, tag, nil)
	}
}
