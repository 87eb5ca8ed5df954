package database

import (
	"context"
	"strings"

	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
)

type AuthorRepo struct {
	db *gorm.DB
}

func NewAuthorRepo(db *gorm.DB) *AuthorRepo {
	return &AuthorRepo{db}
}

// List returns one page of authors with their avatars
func (r *AuthorRepo) List(ctx context.Context, page Page) ([]models.Author, models.Pagination, error) {
	authors := []models.Author{}
	pagination, err := findPage(
		func() *gorm.DB { return r.db.WithContext(ctx).Model(&models.Author{}) },
		func(tx *gorm.DB) *gorm.DB { return tx.Preload("Avatar").Order("authors.id ASC") },
		page,
		&authors,
	)
	return authors, pagination, err
}

// ListMinimal returns every author reduced to id, name, email and avatar
func (r *AuthorRepo) ListMinimal(ctx context.Context) ([]AuthorSummary, error) {
	var authors []models.Author
	err := r.db.WithContext(ctx).
		Select("id", "name", "email", "avatar_id").
		Preload("Avatar").
		Order("authors.id ASC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]AuthorSummary, 0, len(authors))
	for _, author := range authors {
		summaries = append(summaries, AuthorSummary{
			ID:     author.ID,
			Name:   author.Name,
			Email:  author.Email,
			Avatar: author.Avatar,
		})
	}
	return summaries, nil
}

// FindByEmail returns the first author whose stored email equals the lower-cased email,
// populated with the avatar and a reduced projection of their posts; nil when absent
func (r *AuthorRepo) FindByEmail(ctx context.Context, email string) (*models.Author, error) {
	var authors []models.Author
	err := r.db.WithContext(ctx).
		Preload("Avatar").
		Preload("BlogPosts", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "document_id", "title", "slug", "author_id", "featured_image_id", "category_id").
				Order("blog_posts.id ASC")
		}).
		Preload("BlogPosts.FeaturedImage").
		Preload("BlogPosts.Category").
		Where("email = ?", strings.ToLower(email)).
		Order("authors.id ASC").
		Limit(1).
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, nil
	}
	return &authors[0], nil
}

// FindByID returns an author with their avatar, or nil when absent
func (r *AuthorRepo) FindByID(ctx context.Context, id uint) (*models.Author, error) {
	var authors []models.Author
	err := r.db.WithContext(ctx).Preload("Avatar").Where("id = ?", id).Limit(1).Find(&authors).Error
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, nil
	}
	return &authors[0], nil
}

// Add inserts a new author
func (r *AuthorRepo) Add(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Omit("Avatar", "BlogPosts").Create(author).Error
}

// Update applies column changes to an existing author
func (r *AuthorRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	if email, ok := changes["email"].(string); ok {
		changes["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	return updateColumns(r.db.WithContext(ctx), &models.Author{}, id, changes)
}

// Delete removes an author; their posts keep existing without an author
func (r *AuthorRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BlogPost{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Author{}, id)
	})
}
