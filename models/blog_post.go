package models

import (
	"time"

	"gorm.io/gorm"
)

// BlogPost represents a published article with its populated relations
type BlogPost struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	DocumentID      string      `json:"documentId" gorm:"type:varchar(36);uniqueIndex;not null"`
	Title           string      `json:"title" gorm:"type:text;not null"`
	Slug            string      `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Excerpt         string      `json:"excerpt,omitempty" gorm:"type:text"`
	Content         string      `json:"content,omitempty" gorm:"type:text"`
	MetaTitle       *string     `json:"meta_title,omitempty" gorm:"type:text"`
	MetaDescription *string     `json:"meta_description,omitempty" gorm:"type:text"`
	Featured        bool        `json:"featured" gorm:"not null;default:false"`
	Views           int64       `json:"views" gorm:"not null;default:0"`
	ReadingTime     *int        `json:"reading_time,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	PublishedAt     *time.Time  `json:"publishedAt,omitempty" gorm:"index"`
	FeaturedImageID *uint       `json:"-"`
	FeaturedImage   *MediaAsset `json:"featured_image,omitempty" gorm:"foreignKey:FeaturedImageID;constraint:OnDelete:SET NULL"`
	CategoryID      *uint       `json:"-" gorm:"index"`
	Category        *Category   `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Tags            []Tag       `json:"tags,omitempty" gorm:"many2many:blog_post_tags"`
	AuthorID        *uint       `json:"-" gorm:"index"`
	Author          *Author     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.DocumentID == "" {
		p.DocumentID = newDocumentID()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return nil
}

// CategorySlug returns the slug of the post's category, or "" when uncategorized.
func (p BlogPost) CategorySlug() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Slug
}

// TagSlugs returns the slugs of the post's tags in their stored order.
func (p BlogPost) TagSlugs() []string {
	slugs := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		slugs = append(slugs, tag.Slug)
	}
	return slugs
}
