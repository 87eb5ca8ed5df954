package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag labels blog posts; a post can carry many tags
type Tag struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	DocumentID string     `json:"documentId" gorm:"type:varchar(36);uniqueIndex;not null"`
	Name       string     `json:"name" gorm:"type:text;not null"`
	Slug       string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	BlogPosts  []BlogPost `json:"blog_posts,omitempty" gorm:"many2many:blog_post_tags"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.DocumentID == "" {
		t.DocumentID = newDocumentID()
	}
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	return nil
}
