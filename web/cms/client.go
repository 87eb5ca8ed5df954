// Package cms is the presentation server's client for the Content API.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	PostsTTL    = 60 * time.Second
	TaxonomyTTL = 300 * time.Second
	ProjectsTTL = 300 * time.Second

	maxResponseSize = 10 << 20
)

// Client reads from the Content API. List reads go through the cache;
// single-post reads never do, since each one counts a view.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	logger  zerolog.Logger
}

// New returns a client for the API at baseURL. cache may be nil.
func New(baseURL string, timeout time.Duration, cache Cache) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		logger:  log.With().Str("component", "cmsClient").Logger(),
	}
}

type envelope[T any] struct {
	Data T `json:"data"`
	Meta struct {
		Pagination *models.Pagination `json:"pagination"`
	} `json:"meta"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ListParams selects a page of posts.
type ListParams struct {
	Page      int
	PageSize  int
	Category  string
	Tag       string
	Search    string
	Slug      string
	ExcludeID uint
	Sort      string
}

// Values encodes the params in the Content API's query syntax. "all" as a
// category or tag means no filter.
func (p ListParams) Values() url.Values {
	values := url.Values{}
	page := p.Page
	if page < 1 {
		page = 1
	}
	values.Set("pagination[page]", strconv.Itoa(page))
	if p.PageSize > 0 {
		values.Set("pagination[pageSize]", strconv.Itoa(p.PageSize))
	}
	sort := p.Sort
	if sort == "" {
		sort = "publishedAt:desc"
	}
	values.Set("sort", sort)

	if p.Category != "" && p.Category != "all" {
		values.Set("filters[category][slug][$eq]", p.Category)
	}
	if p.Tag != "" && p.Tag != "all" {
		values.Set("filters[tags][slug][$eq]", p.Tag)
	}
	if p.Slug != "" {
		values.Set("filters[slug][$eq]", p.Slug)
	}
	if p.ExcludeID != 0 {
		values.Set("filters[id][$ne]", strconv.FormatUint(uint64(p.ExcludeID), 10))
	}
	if search := strings.TrimSpace(p.Search); search != "" {
		values.Set("filters[$or][0][title][$containsi]", search)
		values.Set("filters[$or][1][excerpt][$containsi]", search)
	}
	return values
}

// ListPosts returns one page of posts and the server's pagination.
func (c *Client) ListPosts(ctx context.Context, p ListParams) ([]models.BlogPost, models.Pagination, error) {
	ttl := PostsTTL
	if p.Slug != "" {
		ttl = 0
	}
	env, err := fetch[[]models.BlogPost](ctx, c, "/blog-posts", p.Values(), ttl)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	var pagination models.Pagination
	if env.Meta.Pagination != nil {
		pagination = *env.Meta.Pagination
	}
	return env.Data, pagination, nil
}

// PostBySlug looks a post up through the list endpoint's slug filter, which
// counts one view on a match. A missing post is (nil, nil).
func (c *Client) PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	posts, _, err := c.ListPosts(ctx, ListParams{Slug: slug, PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// RelatedPosts returns up to limit newest posts sharing post's category.
func (c *Client) RelatedPosts(ctx context.Context, post *models.BlogPost, limit int) ([]models.BlogPost, error) {
	if post == nil || post.Category == nil {
		return nil, nil
	}
	env, err := fetch[[]models.BlogPost](ctx, c, "/blog-posts", ListParams{
		Category:  post.Category.Slug,
		ExcludeID: post.ID,
		PageSize:  limit,
	}.Values(), TaxonomyTTL)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	env, err := fetch[[]models.Category](ctx, c, "/categories", url.Values{"pagination[pageSize]": {"100"}}, TaxonomyTTL)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Tags(ctx context.Context) ([]models.Tag, error) {
	env, err := fetch[[]models.Tag](ctx, c, "/tags", url.Values{"pagination[pageSize]": {"100"}}, TaxonomyTTL)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	env, err := fetch[[]models.Project](ctx, c, "/projects", nil, ProjectsTTL)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// fetch GETs path and decodes its envelope. A positive ttl enables the cache.
func fetch[T any](ctx context.Context, c *Client, path string, values url.Values, ttl time.Duration) (*envelope[T], error) {
	target := c.baseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}

	useCache := c.cache != nil && ttl > 0
	if useCache {
		cached, ok, err := c.cache.Get(ctx, target)
		if err != nil {
			c.logger.Warn().Err(err).Str("url", target).Msg("cache read failed")
		}
		if ok {
			var env envelope[T]
			if err := json.Unmarshal(cached, &env); err == nil {
				return &env, nil
			}
		}
	}

	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errs.NewUpstreamError("content api", http.StatusOK, "malformed response: "+err.Error())
	}

	if useCache {
		if err := c.cache.Set(ctx, target, body, ttl); err != nil {
			c.logger.Warn().Err(err).Str("url", target).Msg("cache write failed")
		}
	}
	return &env, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Content API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.NewServiceUnavailableError("content api", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errs.NewServiceUnavailableError("content api", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorBody
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, errs.NewUpstreamError("content api", resp.StatusCode, e.Error)
		}
		return nil, errs.NewUpstreamError("content api", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return body, nil
}
