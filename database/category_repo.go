package database

import (
	"context"

	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

func (r *CategoryRepo) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Category{})
}

// List returns one page of categories ordered by id
func (r *CategoryRepo) List(ctx context.Context, page Page) ([]models.Category, models.Pagination, error) {
	categories := []models.Category{}
	pagination, err := findPage(
		func() *gorm.DB { return r.model(ctx) },
		func(tx *gorm.DB) *gorm.DB { return tx.Order("categories.id ASC") },
		page,
		&categories,
	)
	return categories, pagination, err
}

// ListMinimal returns one page of projected categories sorted by name
func (r *CategoryRepo) ListMinimal(ctx context.Context, page Page) ([]CategorySummary, models.Pagination, error) {
	summaries := []CategorySummary{}
	pagination, err := findPage(
		func() *gorm.DB { return r.model(ctx) },
		func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "slug", "color", "description").Order("categories.name ASC").Order("categories.id ASC")
		},
		page,
		&summaries,
	)
	return summaries, pagination, err
}

// ListWithCount returns one page of categories with their post counts, computed in a single grouped query
func (r *CategoryRepo) ListWithCount(ctx context.Context, page Page) ([]CategoryCount, models.Pagination, error) {
	counts := []CategoryCount{}
	pagination, err := findPage(
		func() *gorm.DB { return r.model(ctx) },
		func(tx *gorm.DB) *gorm.DB {
			return tx.Select("categories.id, categories.name, categories.slug, categories.color, COUNT(blog_posts.id) AS post_count").
				Joins("LEFT JOIN blog_posts ON blog_posts.category_id = categories.id").
				Group("categories.id, categories.name, categories.slug, categories.color").
				Order("categories.id ASC")
		},
		page,
		&counts,
	)
	return counts, pagination, err
}

// FindBySlug returns the projected category with the given slug, or nil when absent
func (r *CategoryRepo) FindBySlug(ctx context.Context, slug string) (*CategorySummary, error) {
	var summaries []CategorySummary
	err := r.model(ctx).
		Select("id", "name", "slug", "description", "color").
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

// FindByID returns a category by its ID, or nil when absent
func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var categories []models.Category
	if err := r.model(ctx).Where("id = ?", id).Limit(1).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

// Add inserts a new category
func (r *CategoryRepo) Add(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Update applies column changes to an existing category
func (r *CategoryRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	return updateColumns(r.db.WithContext(ctx), &models.Category{}, id, changes)
}

// Delete removes a category; its posts become uncategorized
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BlogPost{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Category{}, id)
	})
}
