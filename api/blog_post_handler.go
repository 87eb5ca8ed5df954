package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	content      *content.Service
	blogPostRepo *database.BlogPostRepo
}

func newBlogPostHandler(contentService *content.Service, blogPostRepo *database.BlogPostRepo) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		content:      contentService,
		blogPostRepo: blogPostRepo,
	}
}

// blogPostInput is the writable part of a blog post. Relations are given by id; 0 clears one.
type blogPostInput struct {
	Title           *string    `json:"title"`
	Slug            *string    `json:"slug"`
	Excerpt         *string    `json:"excerpt"`
	Content         *string    `json:"content"`
	MetaTitle       *string    `json:"meta_title"`
	MetaDescription *string    `json:"meta_description"`
	Featured        *bool      `json:"featured"`
	ReadingTime     *int       `json:"reading_time"`
	PublishedAt     *time.Time `json:"publishedAt"`
	FeaturedImage   *uint      `json:"featured_image"`
	Category        *uint      `json:"category"`
	Author          *uint      `json:"author"`
	Tags            *[]uint    `json:"tags"`
}

func (in blogPostInput) validate(creating bool) error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" || creating && in.Title == nil {
		return errs.NewMissingRequiredFieldError("title")
	}
	if in.Slug != nil && models.Slugify(*in.Slug) == "" {
		return errs.NewInvalidFieldError("slug", "must contain letters or digits")
	}
	if in.ReadingTime != nil && *in.ReadingTime < 0 {
		return errs.NewInvalidFieldError("reading_time", "must not be negative")
	}
	return nil
}

func (in blogPostInput) changes() map[string]any {
	changes := map[string]any{}
	if in.Title != nil {
		changes["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		changes["slug"] = models.Slugify(*in.Slug)
	}
	if in.Excerpt != nil {
		changes["excerpt"] = *in.Excerpt
	}
	if in.Content != nil {
		changes["content"] = *in.Content
	}
	if in.MetaTitle != nil {
		changes["meta_title"] = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		changes["meta_description"] = *in.MetaDescription
	}
	if in.Featured != nil {
		changes["featured"] = *in.Featured
	}
	if in.ReadingTime != nil {
		changes["reading_time"] = *in.ReadingTime
	}
	if in.PublishedAt != nil {
		changes["published_at"] = *in.PublishedAt
	}
	if in.FeaturedImage != nil {
		changes["featured_image_id"] = optionalRef(*in.FeaturedImage)
	}
	if in.Category != nil {
		changes["category_id"] = optionalRef(*in.Category)
	}
	if in.Author != nil {
		changes["author_id"] = optionalRef(*in.Author)
	}
	return changes
}

func refPointer(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func (in blogPostInput) newBlogPost(now time.Time) models.BlogPost {
	post := models.BlogPost{
		Title:           strings.TrimSpace(*in.Title),
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		ReadingTime:     in.ReadingTime,
		PublishedAt:     in.PublishedAt,
		FeaturedImageID: refPointer(in.FeaturedImage),
		CategoryID:      refPointer(in.Category),
		AuthorID:        refPointer(in.Author),
	}
	if in.Slug != nil {
		post.Slug = models.Slugify(*in.Slug)
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Featured != nil {
		post.Featured = *in.Featured
	}
	if post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	return post
}

// listBlogPosts lists blog posts with filters, sorting and pagination
// @Summary List blog posts
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} Envelope "Page of blog posts"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid query parameter"
// @Router /blog-posts [get]
func (h blogPostHandler) listBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parsePostQuery(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		posts, pagination, err := h.content.ListPosts(r.Context(), query)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, posts, &pagination)
	}
}

// getBlogPost fetches a post by numeric id or slug and counts a view
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param id path string true "Numeric id or slug"
// @Success 200 {object} Envelope "Blog post"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog-posts/{id} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.content.ViewPost(r.Context(), content.PostLookup(chi.URLParam(r, "id")))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, post, nil)
	}
}

// getBlogPostBySlug fetches a post by slug and counts a view
// @Summary Get blog post by slug
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} Envelope "Blog post"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog-posts/slug/{slug} [get]
func (h blogPostHandler) getBlogPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.content.ViewPost(r.Context(), content.SlugLookup(chi.URLParam(r, "slug")))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteData(w, http.StatusOK, post, nil)
	}
}

// createBlogPost creates a new blog post
// @Summary Create blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Success 201 {object} Envelope "Created blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already used"
// @Router /blog-posts [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input blogPostInput
		if err := decodeData(w, r, "blog post", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost := input.newBlogPost(time.Now().UTC())
		var tagIDs []uint
		if input.Tags != nil {
			tagIDs = *input.Tags
		}
		if err := h.blogPostRepo.Add(r.Context(), &blogPost, tagIDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "blog_post", err))
			return
		}

		created, err := h.blogPostRepo.FindByID(r.Context(), blogPost.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created", "blog_post", err))
			return
		}

		h.logger.Info().
			Uint("postID", created.ID).
			Str("slug", created.Slug).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Msg("blog post created")
		h.responder.WriteData(w, http.StatusCreated, created, nil)
	}
}

// updateBlogPost updates the given fields of a blog post
// @Summary Update blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param id path int true "Blog post id"
// @Success 200 {object} Envelope "Updated blog post"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog-posts/{id} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input blogPostInput
		if err := decodeData(w, r, "blog post", &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := input.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogPostRepo.Update(r.Context(), id, input.changes(), input.Tags); err != nil {
			if database.IsMissing(err) {
				h.responder.WriteError(w, errs.NewNotFoundError("Blog post not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("update", "blog_post", err))
			return
		}

		updated, err := h.blogPostRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "blog_post", err))
			return
		}
		if updated == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Blog post not found"))
			return
		}

		h.responder.WriteData(w, http.StatusOK, updated, nil)
	}
}

// deleteBlogPost deletes a blog post by id
// @Summary Delete blog post
// @Tags Blog Posts
// @Produce json
// @Param id path int true "Blog post id"
// @Success 200 {object} Envelope "Deleted blog post"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog-posts/{id} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := numericIDParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.blogPostRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog_post", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Blog post not found"))
			return
		}

		if err := h.blogPostRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog_post", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, existing, nil)
	}
}
