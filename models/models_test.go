package models

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":                "hello-world",
		"  Go 1.24: What's New?  ":   "go-1-24-what-s-new",
		"already-a-slug":             "already-a-slug",
		"---":                        "",
		"Building APIs with Go & Co": "building-apis-with-go-co",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 2, PageSize: 9, PageCount: 3, Total: 19}, NewPagination(2, 9, 19))
	assert.Equal(t, 0, NewPagination(1, 9, 0).PageCount)
	assert.Equal(t, 1, NewPagination(1, 9, 9).PageCount)
}

func TestCreateHooksFillIdentifiers(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(All()...))

	email := "  Jane@Example.COM "
	author := Author{Name: "Jane", Email: &email, SocialLinks: datatypes.JSON(`[{"platform":"github","url":"https://github.com/jane"}]`)}
	require.NoError(t, db.Create(&author).Error)
	assert.Len(t, author.DocumentID, 36)
	assert.Equal(t, "jane@example.com", *author.Email)
	assert.Equal(t, []SocialLink{{Platform: "github", URL: "https://github.com/jane"}}, author.Links())

	post := BlogPost{Title: "Concurrency in Go", AuthorID: &author.ID}
	require.NoError(t, db.Create(&post).Error)
	assert.Equal(t, "concurrency-in-go", post.Slug)
	assert.NotEmpty(t, post.DocumentID)

	project := Project{Title: "Site", Description: "d", GithubLink: "g", DemoLink: "l", Type: "web",
		Tags: []ProjectTag{{Value: "Go"}, {Value: "HTMX"}}}
	require.NoError(t, db.Create(&project).Error)
	assert.NotEqual(t, project.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, []string{"Go", "HTMX"}, project.Technologies())
}

func TestBlogPostRelationHelpers(t *testing.T) {
	post := BlogPost{}
	assert.Equal(t, "", post.CategorySlug())
	assert.Empty(t, post.TagSlugs())

	post.Category = &Category{Slug: "engineering"}
	post.Tags = []Tag{{Slug: "go"}, {Slug: "web"}}
	assert.Equal(t, "engineering", post.CategorySlug())
	assert.Equal(t, []string{"go", "web"}, post.TagSlugs())
}

func TestColumnMismatchReport(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(All()...))
	require.NoError(t, db.Exec("ALTER TABLE blog_posts ADD COLUMN legacy_views integer").Error)

	var out bytes.Buffer
	mismatches, err := GenerateColumnMismatchReport(db, &out)
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"blog_posts": {"legacy_views"}}, mismatches)
	assert.Contains(t, out.String(), "Total mismatched columns across all tables: 1")
}
