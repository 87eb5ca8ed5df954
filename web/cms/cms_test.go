package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParamsValues(t *testing.T) {
	values := ListParams{Page: 2, PageSize: 9, Category: "engineering", Tag: "all", Search: " go "}.Values()

	assert.Equal(t, "2", values.Get("pagination[page]"))
	assert.Equal(t, "9", values.Get("pagination[pageSize]"))
	assert.Equal(t, "publishedAt:desc", values.Get("sort"))
	assert.Equal(t, "engineering", values.Get("filters[category][slug][$eq]"))
	assert.False(t, values.Has("filters[tags][slug][$eq]"))
	assert.Equal(t, "go", values.Get("filters[$or][0][title][$containsi]"))
	assert.Equal(t, "go", values.Get("filters[$or][1][excerpt][$containsi]"))

	values = ListParams{Page: -3, ExcludeID: 7}.Values()
	assert.Equal(t, "1", values.Get("pagination[page]"))
	assert.Equal(t, "7", values.Get("filters[id][$ne]"))
	assert.False(t, values.Has("filters[category][slug][$eq]"))
}

type upstream struct {
	server *httptest.Server
	hits   atomic.Int32
	last   atomic.Value
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.last.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) lastQuery() url.Values {
	return u.last.Load().(url.Values)
}

const postsBody = `{
	"data": [
		{"id": 3, "title": "Third", "slug": "third", "featured": true, "views": 4,
		 "category": {"id": 1, "name": "Engineering", "slug": "engineering"},
		 "tags": [{"id": 1, "name": "Go", "slug": "go"}]}
	],
	"meta": {"pagination": {"page": 1, "pageSize": 9, "pageCount": 1, "total": 1}}
}`

func TestListPostsDecodesAndCaches(t *testing.T) {
	up := newUpstream(t, http.StatusOK, postsBody)
	client := New(up.server.URL, time.Second, NewMemoryCache())
	ctx := context.Background()

	posts, pagination, err := client.ListPosts(ctx, ListParams{Page: 1, PageSize: 9})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "third", posts[0].Slug)
	assert.Equal(t, "engineering", posts[0].CategorySlug())
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 9, PageCount: 1, Total: 1}, pagination)

	_, _, err = client.ListPosts(ctx, ListParams{Page: 1, PageSize: 9})
	require.NoError(t, err)
	assert.Equal(t, int32(1), up.hits.Load())
}

func TestPostBySlugIsNeverCached(t *testing.T) {
	up := newUpstream(t, http.StatusOK, postsBody)
	client := New(up.server.URL, time.Second, NewMemoryCache())

	for i := 0; i < 2; i++ {
		post, err := client.PostBySlug(context.Background(), "third")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, uint(3), post.ID)
	}
	assert.Equal(t, int32(2), up.hits.Load())
	assert.Equal(t, "third", up.lastQuery().Get("filters[slug][$eq]"))
}

func TestPostBySlugMissing(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"data": [], "meta": {"pagination": {"page": 1, "pageSize": 1, "pageCount": 0, "total": 0}}}`)
	client := New(up.server.URL, time.Second, nil)

	post, err := client.PostBySlug(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestRelatedPosts(t *testing.T) {
	up := newUpstream(t, http.StatusOK, postsBody)
	client := New(up.server.URL, time.Second, nil)

	related, err := client.RelatedPosts(context.Background(), &models.BlogPost{ID: 9, Category: &models.Category{Slug: "engineering"}}, 3)
	require.NoError(t, err)
	assert.Len(t, related, 1)

	query := up.lastQuery()
	assert.Equal(t, "engineering", query.Get("filters[category][slug][$eq]"))
	assert.Equal(t, "9", query.Get("filters[id][$ne]"))
	assert.Equal(t, "3", query.Get("pagination[pageSize]"))
	assert.Equal(t, "publishedAt:desc", query.Get("sort"))

	related, err = client.RelatedPosts(context.Background(), &models.BlogPost{ID: 9}, 3)
	require.NoError(t, err)
	assert.Empty(t, related)
	assert.Equal(t, int32(1), up.hits.Load())
}

func TestTaxonomiesAndProjects(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"data": [{"id": 1, "name": "Go", "slug": "go"}]}`)
	client := New(up.server.URL, time.Second, nil)
	ctx := context.Background()

	categories, err := client.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "go", categories[0].Slug)
	assert.Equal(t, "100", up.lastQuery().Get("pagination[pageSize]"))

	tags, err := client.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go", tags[0].Name)
}

func TestUpstreamErrors(t *testing.T) {
	up := newUpstream(t, http.StatusBadRequest, `{"error": "cannot sort by nothing"}`)
	client := New(up.server.URL, time.Second, NewMemoryCache())

	_, _, err := client.ListPosts(context.Background(), ListParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot sort by nothing")
	assert.Equal(t, http.StatusInternalServerError, errs.StatusCode(err))

	down := New("http://127.0.0.1:1", 200*time.Millisecond, nil)
	_, err = down.Projects(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, errs.StatusCode(err))
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	value, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	now = now.Add(time.Minute)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cache.entries)
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url")
	assert.Error(t, err)
}
