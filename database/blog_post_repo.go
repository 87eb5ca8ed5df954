package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

func preload(tx *gorm.DB, relations []string) *gorm.DB {
	for _, relation := range relations {
		tx = tx.Preload(relation)
	}
	return tx
}

// List returns one page of posts matching q along with its pagination metadata
func (r *BlogPostRepo) List(ctx context.Context, q PostQuery) ([]models.BlogPost, models.Pagination, error) {
	relations := q.Relations
	if relations == nil {
		relations = PostRelations
	}

	posts := []models.BlogPost{}
	pagination, err := findPage(
		func() *gorm.DB { return q.apply(r.db.WithContext(ctx).Model(&models.BlogPost{})) },
		func(tx *gorm.DB) *gorm.DB {
			if q.Columns != nil {
				tx = tx.Select(q.Columns)
			}
			return preload(q.order(tx), relations)
		},
		q.Page,
		&posts,
	)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, pagination, nil
}

func (r *BlogPostRepo) findOne(ctx context.Context, query string, arg any) (*models.BlogPost, error) {
	var posts []models.BlogPost
	err := preload(r.db.WithContext(ctx), PostRelations).
		Where(query, arg).
		Limit(1).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// FindByID returns a populated blog post by its numeric ID, or nil when absent
func (r *BlogPostRepo) FindByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	return r.findOne(ctx, "blog_posts.id = ?", id)
}

// FindBySlug returns a populated blog post by its slug, or nil when absent
func (r *BlogPostRepo) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.findOne(ctx, "blog_posts.slug = ?", slug)
}

// FindByDocumentID returns a populated blog post by its document ID, or nil when absent
func (r *BlogPostRepo) FindByDocumentID(ctx context.Context, documentID string) (*models.BlogPost, error) {
	return r.findOne(ctx, "blog_posts.document_id = ?", documentID)
}

// IncrementViews adds one to the post's view counter and returns the new value.
// The increment is a single UPDATE so concurrent readers never lose a count.
func (r *BlogPostRepo) IncrementViews(ctx context.Context, id uint) (int64, error) {
	var views int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.BlogPost{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.BlogPost{}).
			Where("id = ?", id).
			Pluck("views", &views).Error
	})
	return views, err
}

// Add inserts a new blog post and links the given tags
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(blogPost).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		return replaceTags(tx, blogPost, tagIDs)
	})
}

// Update applies the given column changes and, when tagIDs is non-nil, replaces the post's tags
func (r *BlogPostRepo) Update(ctx context.Context, id uint, changes map[string]any, tagIDs *[]uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blogPost := &models.BlogPost{ID: id}
		if len(changes) > 0 {
			result := tx.Model(blogPost).Omit(clause.Associations).Updates(changes)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if tagIDs == nil {
			return nil
		}
		return replaceTags(tx, blogPost, *tagIDs)
	})
}

func replaceTags(tx *gorm.DB, blogPost *models.BlogPost, tagIDs []uint) error {
	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
		if len(tags) != len(uniqueIDs(tagIDs)) {
			return fmt.Errorf("blog post tags: %w", gorm.ErrForeignKeyViolated)
		}
	}
	return tx.Model(blogPost).Association("Tags").Replace(tags)
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Delete removes a blog post and its tag links
func (r *BlogPostRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blogPost := &models.BlogPost{ID: id}
		if err := tx.Model(blogPost).Association("Tags").Clear(); err != nil {
			return err
		}
		result := tx.Delete(blogPost)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IsMissing reports whether err means the addressed row does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
