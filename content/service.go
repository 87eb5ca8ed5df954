package content

import (
	"context"

	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	msgPostNotFound     = "Blog post not found"
	msgCategoryNotFound = "Category not found"
	msgTagNotFound      = "Tag not found"
	msgAuthorNotFound   = "Author not found"
)

// Service resolves content identifiers and records post views.
type Service struct {
	db     database.Database
	logger zerolog.Logger
}

func NewService(db database.Database) *Service {
	return &Service{
		db:     db,
		logger: log.With().Str("component", "contentService").Logger(),
	}
}

// CategoryPosts is a category bundled with one page of its posts.
type CategoryPosts struct {
	database.CategorySummary
	BlogPosts []models.BlogPost `json:"blog_posts"`
}

// TagPosts is a tag bundled with one page of its posts.
type TagPosts struct {
	database.TagSummary
	BlogPosts []models.BlogPost `json:"blog_posts"`
}

func (s *Service) findPost(ctx context.Context, lookup Lookup) (*models.BlogPost, error) {
	repo := s.db.BlogPostRepo()
	switch lookup.Kind {
	case ByID:
		return repo.FindByID(ctx, lookup.ID)
	case BySlug:
		return repo.FindBySlug(ctx, lookup.Raw)
	default:
		return repo.FindByDocumentID(ctx, lookup.Raw)
	}
}

// ViewPost resolves a post with its relations and counts one view. A missing post
// is reported as not found and nothing is written.
func (s *Service) ViewPost(ctx context.Context, lookup Lookup) (*models.BlogPost, error) {
	post, err := s.findPost(ctx, lookup)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog_post", err)
	}
	if post == nil {
		return nil, errs.NewNotFoundError(msgPostNotFound)
	}
	return s.touch(ctx, post)
}

func (s *Service) touch(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	views, err := s.db.BlogPostRepo().IncrementViews(ctx, post.ID)
	if err != nil {
		if database.IsMissing(err) {
			return nil, errs.NewNotFoundError(msgPostNotFound)
		}
		return nil, errs.NewDatabaseError("update views of", "blog_post", err)
	}
	s.logger.Debug().Uint("postID", post.ID).Int64("views", views).Msg("post viewed")
	post.Views = views
	return post, nil
}

// ListPosts returns one page of posts. A slug-filtered listing that matches exactly
// one post counts as a view of that post.
func (s *Service) ListPosts(ctx context.Context, q database.PostQuery) ([]models.BlogPost, models.Pagination, error) {
	posts, pagination, err := s.db.BlogPostRepo().List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, errs.NewDatabaseError("find", "blog_posts", err)
	}
	if q.Slug != "" && len(posts) == 1 {
		if _, err := s.touch(ctx, &posts[0]); err != nil {
			return nil, models.Pagination{}, err
		}
	}
	return posts, pagination, nil
}

// CategoryBySlug returns the category with one page of its posts.
func (s *Service) CategoryBySlug(ctx context.Context, slug string, page database.Page, sort []database.Sort) (*CategoryPosts, models.Pagination, error) {
	category, err := s.db.CategoryRepo().FindBySlug(ctx, slug)
	if err != nil {
		return nil, models.Pagination{}, errs.NewDatabaseError("find", "category", err)
	}
	if category == nil {
		return nil, models.Pagination{}, errs.NewNotFoundError(msgCategoryNotFound)
	}

	posts, pagination, err := s.db.BlogPostRepo().List(ctx, database.PostQuery{
		Page:       page,
		Sort:       sort,
		CategoryID: &category.ID,
		Columns:    database.PostSummaryColumns,
		Relations:  []string{"FeaturedImage", "Tags", "Author"},
	})
	if err != nil {
		return nil, models.Pagination{}, errs.NewDatabaseError("find", "blog_posts", err)
	}

	return &CategoryPosts{CategorySummary: *category, BlogPosts: posts}, pagination, nil
}

// CategoryByID is the default category lookup.
func (s *Service) CategoryByID(ctx context.Context, lookup Lookup) (*models.Category, error) {
	if lookup.Kind != ByID {
		return nil, errs.NewNotFoundError(msgCategoryNotFound)
	}
	category, err := s.db.CategoryRepo().FindByID(ctx, lookup.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "category", err)
	}
	if category == nil {
		return nil, errs.NewNotFoundError(msgCategoryNotFound)
	}
	return category, nil
}

// TagBySlug returns the tag with one page of its posts.
func (s *Service) TagBySlug(ctx context.Context, slug string, page database.Page, sort []database.Sort) (*TagPosts, models.Pagination, error) {
	tag, err := s.db.TagRepo().FindBySlug(ctx, slug)
	if err != nil {
		return nil, models.Pagination{}, errs.NewDatabaseError("find", "tag", err)
	}
	if tag == nil {
		return nil, models.Pagination{}, errs.NewNotFoundError(msgTagNotFound)
	}

	posts, pagination, err := s.db.BlogPostRepo().List(ctx, database.PostQuery{
		Page:      page,
		Sort:      sort,
		TagID:     &tag.ID,
		Columns:   database.PostSummaryColumns,
		Relations: []string{"FeaturedImage", "Category", "Author"},
	})
	if err != nil {
		return nil, models.Pagination{}, errs.NewDatabaseError("find", "blog_posts", err)
	}

	return &TagPosts{TagSummary: *tag, BlogPosts: posts}, pagination, nil
}

// TagByID is the default tag lookup.
func (s *Service) TagByID(ctx context.Context, lookup Lookup) (*models.Tag, error) {
	if lookup.Kind != ByID {
		return nil, errs.NewNotFoundError(msgTagNotFound)
	}
	tag, err := s.db.TagRepo().FindByID(ctx, lookup.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	if tag == nil {
		return nil, errs.NewNotFoundError(msgTagNotFound)
	}
	return tag, nil
}

// Author resolves an author by email or numeric id.
func (s *Service) Author(ctx context.Context, lookup Lookup) (*models.Author, error) {
	var (
		author *models.Author
		err    error
	)
	switch lookup.Kind {
	case ByEmail:
		author, err = s.db.AuthorRepo().FindByEmail(ctx, lookup.Raw)
	case ByID:
		author, err = s.db.AuthorRepo().FindByID(ctx, lookup.ID)
	default:
		return nil, errs.NewNotFoundError(msgAuthorNotFound)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "author", err)
	}
	if author == nil {
		return nil, errs.NewNotFoundError(msgAuthorNotFound)
	}
	return author, nil
}
