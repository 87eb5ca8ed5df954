package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-site/markup"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/profile"
	"github.com/rpupo63/portfolio-site/web/cms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const relatedLimit = 3

// ContentSource is the read side of the Content API used by the pages.
type ContentSource interface {
	ListPosts(ctx context.Context, p cms.ListParams) ([]models.BlogPost, models.Pagination, error)
	PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	RelatedPosts(ctx context.Context, post *models.BlogPost, limit int) ([]models.BlogPost, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Tags(ctx context.Context) ([]models.Tag, error)
	Projects(ctx context.Context) ([]models.Project, error)
}

type pageHandler struct {
	renderer *renderer
	logger   zerolog.Logger
	content  ContentSource
	profile  *profile.Profile
}

func newPageHandler(renderer *renderer, content ContentSource, p *profile.Profile) pageHandler {
	return pageHandler{
		renderer: renderer,
		logger:   log.With().Str("handlerName", "pageHandler").Logger(),
		content:  content,
		profile:  p,
	}
}

type homePage struct {
	Projects []models.Project
}

type postPage struct {
	Post    *models.BlogPost
	Body    template.HTML
	Related []models.BlogPost
}

// home renders the profile sections and the project showcase
func (h pageHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.content.Projects(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to fetch projects")
			projects = nil
		}

		h.renderer.render(w, http.StatusOK, "home", view{
			Meta:    SiteMetadata(h.profile, "", "/"),
			Profile: h.profile,
			Body:    homePage{Projects: projects},
		})
	}
}

// blogListing renders one filtered page of the blog index
func (h pageHandler) blogListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := ParseListingQuery(r.URL.Query())
		listing := LoadListing(r.Context(), h.content, q, h.logger)

		h.renderer.render(w, http.StatusOK, "blog", view{
			Meta:    SiteMetadata(h.profile, "Blog", ListingURL(q, q.Page)),
			Profile: h.profile,
			Body:    listing,
		})
	}
}

// blogPost renders a post resolved by the trailing slug of its link
func (h pageHandler) blogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.content.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.logger.Warn().Err(err).Str("slug", chi.URLParam(r, "slug")).Msg("failed to fetch post")
			post = nil
		}
		if post == nil {
			h.renderNotFound(w, PostMetadata(nil))
			return
		}

		related, err := h.content.RelatedPosts(r.Context(), post, relatedLimit)
		if err != nil {
			h.logger.Warn().Err(err).Uint("postID", post.ID).Msg("failed to fetch related posts")
			related = nil
		}

		h.renderer.render(w, http.StatusOK, "post", view{
			Meta:    PostMetadata(post),
			Profile: h.profile,
			Body: postPage{
				Post:    post,
				Body:    markup.ToHTML(post.Content),
				Related: related,
			},
		})
	}
}

func (h pageHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderNotFound(w, Metadata{Title: "Page Not Found"})
	}
}

func (h pageHandler) renderNotFound(w http.ResponseWriter, meta Metadata) {
	h.renderer.render(w, http.StatusNotFound, "not_found", view{Meta: meta, Profile: h.profile})
}
