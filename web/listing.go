package web

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/web/cms"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	listingPageSize = 9
	maxFeatured     = 2
)

// ListingQuery is the blog listing's query string. "all" is stored as no filter.
type ListingQuery struct {
	Page     int
	Category string
	Tag      string
	Search   string
}

func ParseListingQuery(values url.Values) ListingQuery {
	q := ListingQuery{
		Page:     1,
		Category: filterValue(values.Get("category")),
		Tag:      filterValue(values.Get("tag")),
		Search:   strings.TrimSpace(values.Get("search")),
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	return q
}

func filterValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "all" {
		return ""
	}
	return raw
}

// Filtered reports whether any category, tag or search filter is active.
func (q ListingQuery) Filtered() bool {
	return q.Category != "" || q.Tag != "" || q.Search != ""
}

func (q ListingQuery) params() cms.ListParams {
	return cms.ListParams{
		Page:     q.Page,
		PageSize: listingPageSize,
		Category: q.Category,
		Tag:      q.Tag,
		Search:   q.Search,
	}
}

// Listing is everything the blog index renders.
type Listing struct {
	Query      ListingQuery
	Posts      []models.BlogPost
	Featured   []models.BlogPost
	Categories []models.Category
	Tags       []models.Tag
	Pagination models.Pagination
	Pager      Pager
	// ConnectionError is set when nothing came back and no filter explains it.
	ConnectionError bool
}

// LoadListing fetches posts, categories and tags concurrently. A failed fetch
// is logged and leaves its part empty; it never fails the page.
func LoadListing(ctx context.Context, src ContentSource, q ListingQuery, logger zerolog.Logger) Listing {
	l := Listing{
		Query:      q,
		Pagination: models.Pagination{Page: q.Page, PageSize: listingPageSize},
	}

	var (
		posts      []models.BlogPost
		pagination models.Pagination
		postsOK    bool
		categories []models.Category
		tags       []models.Tag
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		posts, pagination, err = src.ListPosts(ctx, q.params())
		if err != nil {
			return fmt.Errorf("fetch posts: %w", err)
		}
		postsOK = true
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = src.Categories(ctx)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tags, err = src.Tags(ctx)
		if err != nil {
			return fmt.Errorf("fetch tags: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Msg("content api fetch failed, rendering fallback")
	}

	if postsOK {
		l.Posts = posts
		l.Pagination = pagination
	}
	l.Categories = categories
	l.Tags = tags

	l.ConnectionError = len(l.Posts) == 0 && l.Pagination.Total == 0 && !q.Filtered()
	if q.Page == 1 && !q.Filtered() {
		l.Featured = featured(l.Posts)
	}
	l.Pager = NewPager(q.Page, l.Pagination.PageCount, func(page int) string {
		return ListingURL(q, page)
	})
	return l
}

// featured returns the first featured posts in their listed order. They stay
// in the main grid as well.
func featured(posts []models.BlogPost) []models.BlogPost {
	var out []models.BlogPost
	for _, post := range posts {
		if len(out) == maxFeatured {
			break
		}
		if post.Featured {
			out = append(out, post)
		}
	}
	return out
}
