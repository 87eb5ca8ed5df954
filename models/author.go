package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Author writes blog posts. Email is an alternate lookup key and is stored lower-cased.
type Author struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	DocumentID  string         `json:"documentId" gorm:"type:varchar(36);uniqueIndex;not null"`
	Name        string         `json:"name" gorm:"type:text;not null"`
	Email       *string        `json:"email,omitempty" gorm:"type:varchar(320);index"`
	Bio         *string        `json:"bio,omitempty" gorm:"type:text"`
	SocialLinks datatypes.JSON `json:"social_links,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	AvatarID    *uint          `json:"-"`
	Avatar      *MediaAsset    `json:"avatar,omitempty" gorm:"foreignKey:AvatarID;constraint:OnDelete:SET NULL"`
	BlogPosts   []BlogPost     `json:"blog_posts,omitempty" gorm:"foreignKey:AuthorID"`
}

// SocialLink is one entry of an author's social_links document.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.DocumentID == "" {
		a.DocumentID = newDocumentID()
	}
	return nil
}

func (a *Author) BeforeSave(tx *gorm.DB) error {
	if a.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*a.Email))
		a.Email = &email
	}
	return nil
}

// Links decodes the social_links column, ignoring malformed documents.
func (a Author) Links() []SocialLink {
	if len(a.SocialLinks) == 0 {
		return nil
	}
	var links []SocialLink
	if err := json.Unmarshal(a.SocialLinks, &links); err != nil {
		return nil
	}
	return links
}
