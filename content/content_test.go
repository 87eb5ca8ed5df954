package content

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPostLookup(t *testing.T) {
	tests := []struct {
		raw  string
		kind LookupKind
		id   uint
	}{
		{"42", ByID, 42},
		{"0000000000000000007", ByID, 7},
		{"my-first-post", BySlug, 0},
		{"abcdefghijk", BySlug, 0},
		// exactly at the threshold: not a slug
		{"abcdefghij", ByDefault, 0},
		{"short", ByDefault, 0},
		{"12a", ByDefault, 0},
		{"", ByDefault, 0},
		{"99999999999999999999999", ByDefault, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			lookup := PostLookup(tt.raw)
			assert.Equal(t, tt.kind, lookup.Kind)
			assert.Equal(t, tt.id, lookup.ID)
			assert.Equal(t, tt.raw, lookup.Raw)
		})
	}
}

func TestTaxonomyLookup(t *testing.T) {
	assert.Equal(t, BySlug, TaxonomyLookup("web-dev").Kind)
	assert.Equal(t, ByID, TaxonomyLookup("3").Kind)
	assert.Equal(t, ByDefault, TaxonomyLookup("engineering").Kind)
}

func TestAuthorLookup(t *testing.T) {
	assert.Equal(t, ByEmail, AuthorLookup("a@b.co").Kind)
	assert.Equal(t, ByID, AuthorLookup("12").Kind)
	assert.Equal(t, ByDefault, AuthorLookup("jane").Kind)
}

func newTestService(t *testing.T) (*Service, database.Database) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	d := database.New(db)
	require.NoError(t, d.Migrate())
	return NewService(d), d
}

func addPost(t *testing.T, d database.Database, post models.BlogPost, tagIDs ...uint) models.BlogPost {
	t.Helper()
	require.NoError(t, d.BlogPostRepo().Add(context.Background(), &post, tagIDs))
	return post
}

func viewsOf(t *testing.T, d database.Database, id uint) int64 {
	t.Helper()
	post, err := d.BlogPostRepo().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, post)
	return post.Views
}

func TestViewPostIncrementsOncePerCall(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()
	post := addPost(t, d, models.BlogPost{Title: "Building a blog in Go", Views: 0})

	for want := int64(1); want <= 3; want++ {
		viewed, err := svc.ViewPost(ctx, SlugLookup("building-a-blog-in-go"))
		require.NoError(t, err)
		assert.Equal(t, want, viewed.Views)
	}

	viewed, err := svc.ViewPost(ctx, PostLookup("1"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), viewed.Views)
	assert.Equal(t, int64(4), viewsOf(t, d, post.ID))
}

func TestViewPostNotFoundWritesNothing(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()
	post := addPost(t, d, models.BlogPost{Title: "Existing post"})

	for _, raw := range []string{"my-first-post", "999", "existing"} {
		_, err := svc.ViewPost(ctx, PostLookup(raw))
		require.Error(t, err, raw)
		assert.True(t, errs.IsNotFound(err), raw)
		assert.Equal(t, http.StatusNotFound, errs.StatusCode(err))
		assert.Equal(t, "Blog post not found", err.Error())
	}
	assert.Zero(t, viewsOf(t, d, post.ID))
}

func TestViewPostShortIdentifierDoesNotMatchSlug(t *testing.T) {
	svc, d := newTestService(t)
	addPost(t, d, models.BlogPost{Title: "Go tips", Slug: "go-tips"})

	_, err := svc.ViewPost(context.Background(), PostLookup("go-tips"))
	assert.True(t, errs.IsNotFound(err))

	viewed, err := svc.ViewPost(context.Background(), SlugLookup("go-tips"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), viewed.Views)
}

func TestViewPostByDocumentID(t *testing.T) {
	svc, d := newTestService(t)
	post := addPost(t, d, models.BlogPost{Title: "Document lookups", DocumentID: "doc42"})

	viewed, err := svc.ViewPost(context.Background(), PostLookup("doc42"))
	require.NoError(t, err)
	assert.Equal(t, post.ID, viewed.ID)
}

func TestListPostsTouchesSingleSlugMatch(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()
	first := addPost(t, d, models.BlogPost{Title: "First post here"})
	second := addPost(t, d, models.BlogPost{Title: "Second post here"})

	posts, pagination, err := svc.ListPosts(ctx, database.PostQuery{Slug: "first-post-here"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), posts[0].Views)
	assert.Equal(t, int64(1), pagination.Total)

	_, _, err = svc.ListPosts(ctx, database.PostQuery{})
	require.NoError(t, err)
	_, _, err = svc.ListPosts(ctx, database.PostQuery{Slug: "missing-post-slug"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), viewsOf(t, d, first.ID))
	assert.Zero(t, viewsOf(t, d, second.ID))
}

func TestCategoryBySlug(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()
	category := models.Category{Name: "Engineering"}
	require.NoError(t, d.CategoryRepo().Add(ctx, &category))
	tag := models.Tag{Name: "Go"}
	require.NoError(t, d.TagRepo().Add(ctx, &tag))

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		published := base.AddDate(0, 0, i)
		addPost(t, d, models.BlogPost{
			Title:       []string{"Alpha engineering", "Beta engineering", "Gamma engineering"}[i],
			Content:     "body",
			CategoryID:  &category.ID,
			PublishedAt: &published,
		}, tag.ID)
	}
	addPost(t, d, models.BlogPost{Title: "Elsewhere entirely"})

	result, pagination, err := svc.CategoryBySlug(ctx, "engineering", database.Page{Number: 1, Size: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", result.Name)
	require.Len(t, result.BlogPosts, 2)
	assert.Equal(t, "gamma-engineering", result.BlogPosts[0].Slug)
	assert.Empty(t, result.BlogPosts[0].Content)
	assert.Equal(t, []string{"go"}, result.BlogPosts[0].TagSlugs())
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 2, PageCount: 2, Total: 3}, pagination)

	_, _, err = svc.CategoryBySlug(ctx, "missing", database.Page{}, nil)
	assert.Equal(t, "Category not found", err.Error())
	assert.True(t, errs.IsNotFound(err))

	found, err := svc.CategoryByID(ctx, TaxonomyLookup("1"))
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)
	_, err = svc.CategoryByID(ctx, TaxonomyLookup("engineering"))
	assert.True(t, errs.IsNotFound(err))
}

func TestTagBySlug(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()
	category := models.Category{Name: "Engineering"}
	require.NoError(t, d.CategoryRepo().Add(ctx, &category))
	tag := models.Tag{Name: "Web Dev"}
	require.NoError(t, d.TagRepo().Add(ctx, &tag))
	addPost(t, d, models.BlogPost{Title: "Tagged with web", CategoryID: &category.ID}, tag.ID)
	addPost(t, d, models.BlogPost{Title: "Not tagged at all"})

	result, pagination, err := svc.TagBySlug(ctx, "web-dev", database.Page{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "web-dev", result.Slug)
	require.Len(t, result.BlogPosts, 1)
	require.NotNil(t, result.BlogPosts[0].Category)
	assert.Equal(t, "engineering", result.BlogPosts[0].Category.Slug)
	assert.Equal(t, int64(1), pagination.Total)

	_, _, err = svc.TagBySlug(ctx, "nope", database.Page{}, nil)
	assert.Equal(t, "Tag not found", err.Error())
}

func TestAuthorLookupByEmail(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()
	email := "writer@example.com"
	author := models.Author{Name: "Writer", Email: &email}
	require.NoError(t, d.AuthorRepo().Add(ctx, &author))

	found, err := svc.Author(ctx, AuthorLookup("Writer@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, author.ID, found.ID)

	found, err = svc.Author(ctx, AuthorLookup("1"))
	require.NoError(t, err)
	assert.Equal(t, author.ID, found.ID)

	_, err = svc.Author(ctx, AuthorLookup("ghost@example.com"))
	assert.Equal(t, "Author not found", err.Error())
}
