package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups blog posts; Color is used as a display tint
type Category struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	DocumentID  string     `json:"documentId" gorm:"type:varchar(36);uniqueIndex;not null"`
	Name        string     `json:"name" gorm:"type:text;not null"`
	Slug        string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	Color       *string    `json:"color,omitempty" gorm:"type:varchar(32)"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	BlogPosts   []BlogPost `json:"blog_posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.DocumentID == "" {
		c.DocumentID = newDocumentID()
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}
