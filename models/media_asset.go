package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MediaAsset is an uploaded file referenced as a featured image or avatar
type MediaAsset struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	DocumentID       string         `json:"documentId" gorm:"type:varchar(36);uniqueIndex;not null"`
	Name             string         `json:"name" gorm:"type:text;not null"`
	AlternativeText  *string        `json:"alternativeText,omitempty" gorm:"type:text"`
	Caption          *string        `json:"caption,omitempty" gorm:"type:text"`
	Width            int            `json:"width"`
	Height           int            `json:"height"`
	URL              string         `json:"url" gorm:"type:text;not null"`
	Mime             string         `json:"mime" gorm:"type:varchar(127)"`
	Size             float64        `json:"size"`
	Provider         string         `json:"provider" gorm:"type:varchar(64)"`
	ProviderMetadata datatypes.JSON `json:"provider_metadata,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (m *MediaAsset) BeforeCreate(tx *gorm.DB) error {
	if m.DocumentID == "" {
		m.DocumentID = newDocumentID()
	}
	return nil
}

// AltText returns the alternative text, falling back to the given default.
func (m *MediaAsset) AltText(fallback string) string {
	if m == nil || m.AlternativeText == nil || *m.AlternativeText == "" {
		return fallback
	}
	return *m.AlternativeText
}
