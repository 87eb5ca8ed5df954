package database

import (
	"context"

	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

func (r *TagRepo) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Tag{})
}

// List returns one page of tags ordered by id
func (r *TagRepo) List(ctx context.Context, page Page) ([]models.Tag, models.Pagination, error) {
	tags := []models.Tag{}
	pagination, err := findPage(
		func() *gorm.DB { return r.model(ctx) },
		func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.id ASC") },
		page,
		&tags,
	)
	return tags, pagination, err
}

// ListMinimal returns one page of projected tags sorted by name
func (r *TagRepo) ListMinimal(ctx context.Context, page Page) ([]TagSummary, models.Pagination, error) {
	summaries := []TagSummary{}
	pagination, err := findPage(
		func() *gorm.DB { return r.model(ctx) },
		func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "slug").Order("tags.name ASC").Order("tags.id ASC")
		},
		page,
		&summaries,
	)
	return summaries, pagination, err
}

// ListWithCount returns one page of tags with their post counts, computed in a single grouped query
func (r *TagRepo) ListWithCount(ctx context.Context, page Page) ([]TagCount, models.Pagination, error) {
	counts := []TagCount{}
	pagination, err := findPage(
		func() *gorm.DB { return r.model(ctx) },
		func(tx *gorm.DB) *gorm.DB {
			return tx.Select("tags.id, tags.name, tags.slug, COUNT(blog_post_tags.blog_post_id) AS post_count").
				Joins("LEFT JOIN blog_post_tags ON blog_post_tags.tag_id = tags.id").
				Group("tags.id, tags.name, tags.slug").
				Order("tags.id ASC")
		},
		page,
		&counts,
	)
	return counts, pagination, err
}

// FindBySlug returns the projected tag with the given slug, or nil when absent
func (r *TagRepo) FindBySlug(ctx context.Context, slug string) (*TagSummary, error) {
	var summaries []TagSummary
	err := r.model(ctx).
		Select("id", "name", "slug").
		Where("slug = ?", slug).
		Limit(1).
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

// FindByID returns a tag by its ID, or nil when absent
func (r *TagRepo) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tags []models.Tag
	if err := r.model(ctx).Where("id = ?", id).Limit(1).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return &tags[0], nil
}

// Add inserts a new tag
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// Update applies column changes to an existing tag
func (r *TagRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	return updateColumns(r.db.WithContext(ctx), &models.Tag{}, id, changes)
}

// Delete removes a tag and unlinks it from every post
func (r *TagRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Tag{}, id)
	})
}
