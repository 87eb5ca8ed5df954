package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type authorHandler struct {
	responder  Responder
	logger     zerolog.Logger
	content    *content.Service
	authorRepo *database.AuthorRepo
}

func newAuthorHandler(contentService *content.Service, authorRepo *database.AuthorRepo) authorHandler {
	logger := log.With().Str("handlerName", "authorHandler").Logger()

	return authorHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		content:    contentService,
		authorRepo: authorRepo,
	}
}

type authorInput struct {
	Name        *string              `json:"name"`
	Email       *string              `json:"email"`
	Bio         *string              `json:"bio"`
	Avatar      *uint                `json:"avatar"`
	SocialLinks *[]models.SocialLink `json:"social_links"`
}

func (in authorInput) validate(creating bool) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" || creating && in.Name == nil {
		return errs.NewMissingRequiredFieldError("name")
	}
	if in.Email != nil && *in.Email != "" && !strings.Contains(*in.Email, "@") {
		return errs.NewInvalidFieldError("email", "must be an email address")
	}
	return nil
}

func (in authorInput) socialLinks() (datatypes.JSON, error) {
	encoded, err := json.Marshal(*in.SocialLinks)
	if err != nil {
		return nil, errs.NewMalformedPayloadError("social_links", err)
	}
	return datatypes.JSON(encoded), nil
}

func (in authorInput) changes() (map[string]any, error) {
	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		changes["email"] = *in.Email
	}
	if in.Bio != nil {
		changes["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		changes["avatar_id"] = optionalRef(*in.Avatar)
	}
	if in.SocialLinks != nil {
		links, err := in.socialLinks()
		if err != nil {
			return nil, err
		}
		changes["social_links"] = links
	}
	return changes, nil
}

// listAuthors lists authors with their avatars
// @Summary List authors
// @Tags Authors
// @Produce json
// @Success 200 {object} Envelope "Page of authors"
// @Router /authors [get]
func (h authorHandler) listAuthors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		authors, pagination, err := h.authorRepo.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "authors", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, authors, &pagination)
	}
}

// listMinimalAuthors lists every author reduced to id, name, email and avatar
// @Summary List minimal authors
// @Tags Authors
// @Produce json
// @Success 200 {object} Envelope "Authors"
// @Router /authors/minimal/all [get]
func (h authorHandler) listMinimalAuthors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authors, err := h.authorRepo.ListMinimal(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "authors", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, authors, nil)
	}
}

// getAuthor returns an author by id, or by email when the id contains '@'
// @Summary Get author
// @Tags Authors
// @Produce json
// @Param id path string true "Author id or email"
// @Success 200 {object} Envelope "Author"
// @Failure 404 {object} ErrorResponse "Not Found - Author not found"
// @Router /authors/{id} [get]
func (h authorHandler) getAuthor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := h.content.Author(r.Context(), content.AuthorLookup(chi.URLParam(r, "id")))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, author, nil)
	}
}

// getAuthorByEmail returns an author by email with their posts
// @Summary Get author by email
// @Tags Authors
// @Produce json
// @Param email path string true "Author email"
// @Success 200 {object} Envelope "Author"
// @Failure 404 {object} ErrorResponse "Not Found - Author not found"
// @Router /authors/email/{email} [get]
func (h authorHandler) getAuthorByEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lookup := content.Lookup{Kind: content.ByEmail, Raw: chi.URLParam(r, "email")}
		author, err := h.content.Author(r.Context(), lookup)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, author, nil)
	}
}

// createAuthor creates a new author
// @Summary Create author
// @Tags Authors
// @Accept json
// @Produce json
// @Success 201 {object} Envelope "Created author"
// @Router /authors [post]
func (h authorHandler) createAuthor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input authorInput
		if err := decodeData(w, r, "author", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		author := models.Author{
			Name:     strings.TrimSpace(*input.Name),
			Email:    input.Email,
			Bio:      input.Bio,
			AvatarID: refPointer(input.Avatar),
		}
		if input.SocialLinks != nil {
			links, err := input.socialLinks()
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			author.SocialLinks = links
		}

		if err := h.authorRepo.Add(r.Context(), &author); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "author", err))
			return
		}

		h.responder.WriteData(w, http.StatusCreated, author, nil)
	}
}

// updateAuthor updates the given fields of an author
// @Summary Update author
// @Tags Authors
// @Accept json
// @Produce json
// @Param id path int true "Author id"
// @Success 200 {object} Envelope "Updated author"
// @Failure 404 {object} ErrorResponse "Not Found - Author not found"
// @Router /authors/{id} [put]
func (h authorHandler) updateAuthor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input authorInput
		if err := decodeData(w, r, "author", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		changes, err := input.changes()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.authorRepo.Update(r.Context(), id, changes); err != nil {
			if database.IsMissing(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("Author not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("update", "author", err))
			return
		}

		author, err := h.content.Author(r.Context(), content.Lookup{Kind: content.ByID, ID: id})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, author, nil)
	}
}

// deleteAuthor deletes an author; their posts remain without an author
// @Summary Delete author
// @Tags Authors
// @Produce json
// @Param id path int true "Author id"
// @Success 200 {object} Envelope "Deleted author"
// @Failure 404 {object} ErrorResponse "Not Found - Author not found"
// @Router /authors/{id} [delete]
func (h authorHandler) deleteAuthor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		author, err := h.content.Author(r.Context(), content.Lookup{Kind: content.ByID, ID: id})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.authorRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "author", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, author, nil)
	}
}
