package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site/game"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/profile"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/web/cms"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContent struct {
	mu         sync.Mutex
	posts      []models.BlogPost
	pagination models.Pagination
	postsErr   error
	categories []models.Category
	tags       []models.Tag
	taxErr     error
	bySlug     map[string]*models.BlogPost
	related    []models.BlogPost
	projects   []models.Project
	listed     []cms.ListParams
}

func (f *fakeContent) ListPosts(_ context.Context, p cms.ListParams) ([]models.BlogPost, models.Pagination, error) {
	f.mu.Lock()
	f.listed = append(f.listed, p)
	f.mu.Unlock()
	return f.posts, f.pagination, f.postsErr
}

func (f *fakeContent) PostBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	return f.bySlug[slug], nil
}

func (f *fakeContent) RelatedPosts(context.Context, *models.BlogPost, int) ([]models.BlogPost, error) {
	return f.related, nil
}

func (f *fakeContent) Categories(context.Context) ([]models.Category, error) {
	return f.categories, f.taxErr
}

func (f *fakeContent) Tags(context.Context) ([]models.Tag, error) {
	return f.tags, f.taxErr
}

func (f *fakeContent) Projects(context.Context) ([]models.Project, error) {
	return f.projects, nil
}

type fakeSender struct {
	sent []services.ContactMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg services.ContactMessage) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	return []byte(`{"id":"email_123"}`), nil
}

type fakeNotifier struct {
	notified int
}

func (f *fakeNotifier) NotifyContact(services.ContactMessage) error {
	f.notified++
	return errors.New("sms down")
}

func testDependencies(t *testing.T, content *fakeContent) Dependencies {
	t.Helper()
	p, err := profile.Load("")
	require.NoError(t, err)
	store := game.NewSessionStore([]byte("0123456789abcdef0123456789abcdef"), false)
	return Dependencies{
		Content: content,
		Profile: p,
		Games:   game.NewRegistry(store, time.Minute, game.WithRand(func(n int) int { return n - 1 })),
	}
}

func newTestRouter(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	router, err := NewRouter(deps, false)
	require.NoError(t, err)
	return router
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(title, slug string, featured bool) models.BlogPost {
	published := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.BlogPost{Title: title, Slug: slug, Featured: featured, PublishedAt: &published}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total, start, end int
	}{
		{1, 10, 1, 5},
		{5, 10, 3, 7},
		{10, 10, 6, 10},
		{9, 10, 6, 10},
		{2, 3, 1, 3},
		{1, 1, 1, 1},
	}
	for _, tt := range tests {
		start, end := PageWindow(tt.current, tt.total)
		assert.Equal(t, tt.start, start, "start of %d/%d", tt.current, tt.total)
		assert.Equal(t, tt.end, end, "end of %d/%d", tt.current, tt.total)
	}
}

func TestNewPager(t *testing.T) {
	link := func(page int) string { return ListingURL(ListingQuery{Category: "go"}, page) }

	p := NewPager(1, 10, link)
	assert.Nil(t, p.First)
	assert.False(t, p.LeadingEllipsis)
	require.NotNil(t, p.Last)
	assert.Equal(t, 10, p.Last.Number)
	assert.True(t, p.TrailingEllipsis)
	assert.Empty(t, p.Prev)
	assert.Equal(t, "/blog?category=go&page=2", p.Next)
	assert.Len(t, p.Pages, 5)
	assert.True(t, p.Pages[0].Current)
	assert.Equal(t, "/blog?category=go", p.Pages[0].URL)

	p = NewPager(10, 10, link)
	require.NotNil(t, p.First)
	assert.True(t, p.LeadingEllipsis)
	assert.Nil(t, p.Last)
	assert.Empty(t, p.Next)
	assert.Equal(t, 6, p.Pages[0].Number)

	p = NewPager(4, 7, link)
	require.NotNil(t, p.First)
	assert.False(t, p.LeadingEllipsis)
	require.NotNil(t, p.Last)
	assert.False(t, p.TrailingEllipsis)

	assert.Empty(t, NewPager(1, 0, link).Pages)
}

func TestPostPath(t *testing.T) {
	p := post("Hello", "hello-world", false)
	assert.Equal(t, "/blog/category/uncategorized/tags/none/slug/hello-world", PostPath(p))

	p.Category = &models.Category{Slug: "engineering"}
	p.Tags = []models.Tag{{Slug: "go"}, {Slug: "web"}}
	assert.Equal(t, "/blog/category/engineering/tags/go,web/slug/hello-world", PostPath(p))
}

func TestListingURLs(t *testing.T) {
	q := ListingQuery{Page: 3, Category: "engineering", Search: "go tips"}
	assert.Equal(t, "/blog", ListingURL(ListingQuery{}, 1))
	assert.Equal(t, "/blog?category=engineering&page=2&search=go+tips", ListingURL(q, 2))
	assert.Equal(t, "/blog?search=go+tips", FilterURL(q, "category", "all"))
	assert.Equal(t, "/blog?category=engineering&search=go+tips&tag=go", FilterURL(q, "tag", "go"))
}

func TestParseListingQuery(t *testing.T) {
	q := ParseListingQuery(url.Values{"page": {"abc"}, "category": {"all"}, "tag": {"go"}})
	assert.Equal(t, ListingQuery{Page: 1, Tag: "go"}, q)
	assert.True(t, q.Filtered())

	q = ParseListingQuery(url.Values{"page": {"-2"}})
	assert.Equal(t, 1, q.Page)
	assert.False(t, q.Filtered())
}

func TestLoadListingFeaturedAreDuplicated(t *testing.T) {
	content := &fakeContent{
		posts: []models.BlogPost{
			post("One", "one", false),
			post("Two", "two", true),
			post("Three", "three", true),
			post("Four", "four", true),
		},
		pagination: models.Pagination{Page: 1, PageSize: 9, PageCount: 1, Total: 4},
	}

	l := LoadListing(context.Background(), content, ListingQuery{Page: 1}, zerolog.Nop())
	require.Len(t, l.Featured, 2)
	assert.Equal(t, "two", l.Featured[0].Slug)
	assert.Equal(t, "three", l.Featured[1].Slug)
	assert.Len(t, l.Posts, 4)
	assert.False(t, l.ConnectionError)
	assert.Equal(t, 9, content.listed[0].PageSize)

	l = LoadListing(context.Background(), content, ListingQuery{Page: 2}, zerolog.Nop())
	assert.Empty(t, l.Featured)
	l = LoadListing(context.Background(), content, ListingQuery{Page: 1, Tag: "go"}, zerolog.Nop())
	assert.Empty(t, l.Featured)
}

func TestLoadListingFallbacks(t *testing.T) {
	content := &fakeContent{postsErr: errors.New("boom"), taxErr: errors.New("boom")}

	l := LoadListing(context.Background(), content, ListingQuery{Page: 1}, zerolog.Nop())
	assert.True(t, l.ConnectionError)
	assert.Empty(t, l.Posts)
	assert.Empty(t, l.Categories)
	assert.Zero(t, l.Pagination.Total)

	l = LoadListing(context.Background(), content, ListingQuery{Page: 2, Category: "engineering"}, zerolog.Nop())
	assert.False(t, l.ConnectionError)
}

func TestBlogPageStates(t *testing.T) {
	content := &fakeContent{pagination: models.Pagination{Page: 2, PageSize: 9}}
	router := newTestRouter(t, testDependencies(t, content))

	rec := get(t, router, "/blog?category=engineering&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No articles found")
	assert.NotContains(t, rec.Body.String(), "Connection Error")
	assert.Equal(t, "engineering", content.listed[0].Category)
	assert.Equal(t, 2, content.listed[0].Page)

	content.postsErr = errors.New("connection refused")
	rec = get(t, router, "/blogs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Connection Error")
}

func TestBlogPageRendersPostsAndPager(t *testing.T) {
	featured := post("Featured <b>post</b>", "featured-post", true)
	featured.Category = &models.Category{Name: "Engineering", Slug: "engineering"}
	content := &fakeContent{
		posts:      []models.BlogPost{featured, post("Plain", "plain", false)},
		pagination: models.Pagination{Page: 1, PageSize: 9, PageCount: 3, Total: 20},
		categories: []models.Category{{Name: "Engineering", Slug: "engineering"}},
	}
	router := newTestRouter(t, testDependencies(t, content))

	rec := get(t, router, "/blog")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-state="featured"`)
	assert.Equal(t, 2, strings.Count(body, `/blog/category/engineering/tags/none/slug/featured-post`))
	assert.Contains(t, body, "Featured &lt;b&gt;post&lt;/b&gt;")
	assert.Contains(t, body, `href="/blog?page=2" rel="next"`)
	assert.Contains(t, body, "March 1, 2025")
}

func TestBlogPostPage(t *testing.T) {
	meta := "Custom title"
	p := post("Go generics", "go-generics", false)
	p.ID = 4
	p.MetaTitle = &meta
	p.Excerpt = "An excerpt"
	p.Content = "## Intro\n**bold** text\n```\n<script>x</script>\n```"
	p.Tags = []models.Tag{{Name: "Go", Slug: "go"}}
	related := post("Related one", "related-one", false)
	content := &fakeContent{
		bySlug:  map[string]*models.BlogPost{"go-generics": &p},
		related: []models.BlogPost{related},
	}
	router := newTestRouter(t, testDependencies(t, content))

	rec := get(t, router, "/blog/category/anything/tags/whatever/slug/go-generics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Custom title</title>")
	assert.Contains(t, body, `<meta name="description" content="An excerpt">`)
	assert.Contains(t, body, `<link rel="canonical" href="/blog/category/uncategorized/tags/go/slug/go-generics">`)
	assert.Contains(t, body, `<meta property="og:type" content="article">`)
	assert.Contains(t, body, "<strong>bold</strong>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>x</script>")
	assert.Contains(t, body, "Related one")

	rec = get(t, router, "/blog/category/x/tags/y/slug/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Post Not Found</title>")
}

func TestHomePage(t *testing.T) {
	content := &fakeContent{projects: []models.Project{{Title: "Portfolio", Type: "Web", Tags: []models.ProjectTag{{Value: "Go"}}}}}
	deps := testDependencies(t, content)
	router := newTestRouter(t, deps)

	rec := get(t, router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, deps.Profile.Name)
	assert.Contains(t, body, "Portfolio")
	assert.Contains(t, body, "data-contact-form")

	rec = get(t, router, "/static/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, router, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostMetadata(t *testing.T) {
	assert.Equal(t, "Post Not Found", PostMetadata(nil).Title)

	p := post("Title", "title", false)
	p.Excerpt = "Excerpt"
	p.FeaturedImage = &models.MediaAsset{URL: "https://cdn.example.com/a.png"}
	p.Author = &models.Author{Name: "Ada"}
	meta := PostMetadata(&p)
	assert.Equal(t, "Title", meta.Title)
	assert.Equal(t, "Excerpt", meta.Description)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, meta.Twitter.Images)
	assert.Equal(t, "summary_large_image", meta.Twitter.Card)
	assert.Equal(t, []string{"Ada"}, meta.OpenGraph.Authors)
	assert.Equal(t, "2025-03-01T00:00:00Z", meta.OpenGraph.PublishedTime)
}

func sendContact(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

const contactBody = `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello there"}`

func TestContactRelay(t *testing.T) {
	sender := &fakeSender{}
	notifier := &fakeNotifier{}
	deps := testDependencies(t, &fakeContent{})
	deps.Sender = sender
	deps.Notifier = notifier
	router := newTestRouter(t, deps)

	rec := sendContact(router, contactBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"email_123"}`, rec.Body.String())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Hi", sender.sent[0].Subject)
	assert.Equal(t, 1, notifier.notified)

	rec = sendContact(router, `{"name":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactRelayRateLimit(t *testing.T) {
	deps := testDependencies(t, &fakeContent{})
	deps.Sender = &fakeSender{}
	router := newTestRouter(t, deps)

	for i := 0; i < contactLimit; i++ {
		require.Equal(t, http.StatusOK, sendContact(router, contactBody).Code)
	}
	rec := sendContact(router, contactBody)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestContactRelayFailures(t *testing.T) {
	deps := testDependencies(t, &fakeContent{})
	rec := sendContact(newTestRouter(t, deps), contactBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"RESEND_API_KEY is not defined"}`, rec.Body.String())

	deps.Sender = &fakeSender{err: errors.New("dial tcp: refused")}
	rec = sendContact(newTestRouter(t, deps), contactBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to send email"}`, rec.Body.String())
}

func TestLimiterWindow(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, l.Allow("a"))
	assert.NotContains(t, l.hits, "b")
}

type gameBody struct {
	State   string `json:"state"`
	Moves   int    `json:"moves"`
	Elapsed string `json:"elapsed"`
	Cards   []struct {
		ID      int  `json:"id"`
		Flipped bool `json:"isFlipped"`
		Symbol  *struct {
			Name string `json:"name"`
		} `json:"symbol"`
	} `json:"cards"`
}

func TestGameEndpoints(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t, testDependencies(t, &fakeContent{})))
	t.Cleanup(server.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	call := func(method, path string) (int, gameBody) {
		req, err := http.NewRequest(method, server.URL+path, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body gameBody
		_ = json.Unmarshal(raw, &body)
		return resp.StatusCode, body
	}

	status, board := call(http.MethodGet, "/game")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "idle", board.State)

	status, _ = call(http.MethodPost, "/game/cards/0")
	assert.Equal(t, http.StatusConflict, status)

	status, board = call(http.MethodPost, "/game/start")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "playing", board.State)
	require.Len(t, board.Cards, 16)
	assert.Nil(t, board.Cards[0].Symbol)
	assert.Equal(t, "0:00", board.Elapsed)

	_, board = call(http.MethodPost, "/game/cards/0")
	require.NotNil(t, board.Cards[0].Symbol)
	_, board = call(http.MethodPost, "/game/cards/1")
	assert.Equal(t, 1, board.Moves)
	assert.Equal(t, board.Cards[0].Symbol.Name, board.Cards[1].Symbol.Name)

	status, _ = call(http.MethodPost, "/game/cards/99")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(http.MethodPost, "/game/cards/x")
	assert.Equal(t, http.StatusBadRequest, status)
}
