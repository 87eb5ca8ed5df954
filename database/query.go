package database

import (
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into the accepted range.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

// Sort orders a listing by one whitelisted field.
type Sort struct {
	Field string
	Desc  bool
}

// Contains is a case-insensitive substring match on one field.
type Contains struct {
	Field string
	Value string
}

var postSortColumns = map[string]string{
	"publishedAt": "blog_posts.published_at",
	"createdAt":   "blog_posts.created_at",
	"updatedAt":   "blog_posts.updated_at",
	"views":       "blog_posts.views",
	"title":       "blog_posts.title",
	"id":          "blog_posts.id",
}

var postSearchColumns = map[string]string{
	"title":   "blog_posts.title",
	"excerpt": "blog_posts.excerpt",
	"content": "blog_posts.content",
}

// ValidPostSortField reports whether field can be used to order posts.
func ValidPostSortField(field string) bool {
	_, ok := postSortColumns[field]
	return ok
}

// ValidPostSearchField reports whether field can be used in a substring match.
func ValidPostSearchField(field string) bool {
	_, ok := postSearchColumns[field]
	return ok
}

// DefaultPostSort is newest published first.
var DefaultPostSort = Sort{Field: "publishedAt", Desc: true}

// PostQuery filters a blog post listing. Zero values mean "no filter".
type PostQuery struct {
	Page         Page
	Sort         []Sort
	Slug         string
	CategorySlug string
	TagSlug      string
	CategoryID   *uint
	TagID        *uint
	ExcludeID    *uint
	Featured     *bool
	// AnyOf is OR-combined; it matches when any term matches.
	AnyOf []Contains
	// Columns restricts the selected columns; nil selects every column.
	Columns []string
	// Relations lists the associations to preload; nil preloads PostRelations.
	Relations []string
}

// PostRelations are the associations populated on full post reads.
var PostRelations = []string{"FeaturedImage", "Category", "Tags", "Author", "Author.Avatar"}

// PostSummaryColumns is the reduced field set used when posts are embedded in a category or tag.
var PostSummaryColumns = []string{
	"id", "document_id", "title", "slug", "excerpt", "created_at", "reading_time", "views",
	"featured_image_id", "category_id", "author_id",
}

func (q PostQuery) apply(tx *gorm.DB) *gorm.DB {
	if q.Slug != "" {
		tx = tx.Where("blog_posts.slug = ?", q.Slug)
	}
	if q.CategorySlug != "" {
		tx = tx.Where("blog_posts.category_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.Category{}).Select("id").Where("slug = ?", q.CategorySlug))
	}
	if q.TagSlug != "" {
		tx = tx.Where("blog_posts.id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Table("blog_post_tags").
				Select("blog_post_tags.blog_post_id").
				Joins("JOIN tags ON tags.id = blog_post_tags.tag_id").
				Where("tags.slug = ?", q.TagSlug))
	}
	if q.CategoryID != nil {
		tx = tx.Where("blog_posts.category_id = ?", *q.CategoryID)
	}
	if q.TagID != nil {
		tx = tx.Where("blog_posts.id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Table("blog_post_tags").
				Select("blog_post_id").
				Where("tag_id = ?", *q.TagID))
	}
	if q.ExcludeID != nil {
		tx = tx.Where("blog_posts.id <> ?", *q.ExcludeID)
	}
	if q.Featured != nil {
		tx = tx.Where("blog_posts.featured = ?", *q.Featured)
	}

	var clauses []string
	var args []any
	for _, term := range q.AnyOf {
		column, ok := postSearchColumns[term.Field]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", column))
		args = append(args, "%"+strings.ToLower(term.Value)+"%")
	}
	if len(clauses) > 0 {
		tx = tx.Where(strings.Join(clauses, " OR "), args...)
	}
	return tx
}

func (q PostQuery) order(tx *gorm.DB) *gorm.DB {
	sorts := q.Sort
	if len(sorts) == 0 {
		sorts = []Sort{DefaultPostSort}
	}
	for _, s := range sorts {
		column, ok := postSortColumns[s.Field]
		if !ok {
			continue
		}
		if s.Desc {
			tx = tx.Order(column + " DESC")
		} else {
			tx = tx.Order(column + " ASC")
		}
	}
	return tx.Order("blog_posts.id DESC")
}

// findPage counts the rows matched by filtered and loads the requested page,
// with ordering and preloads added by decorate, into dest.
func findPage[T any](filtered func() *gorm.DB, decorate func(*gorm.DB) *gorm.DB, page Page, dest *[]T) (models.Pagination, error) {
	page = page.Normalize()

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return models.Pagination{}, err
	}

	if err := decorate(filtered()).Offset(page.offset()).Limit(page.Size).Find(dest).Error; err != nil {
		return models.Pagination{}, err
	}

	return models.NewPagination(page.Number, page.Size, total), nil
}
