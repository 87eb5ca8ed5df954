package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a portfolio project shown on the home page
type Project struct {
	ID          uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string       `json:"title" db:"title" gorm:"type:text;not null;unique"`
	Description string       `json:"description" db:"description" gorm:"type:text;not null"`
	GithubLink  string       `json:"github_link" db:"github_link" gorm:"type:text;not null"`
	DemoLink    string       `json:"demo_link" db:"demo_link" gorm:"type:text;not null"`
	Type        string       `json:"type" db:"type" gorm:"type:text;not null"`
	Image       *string      `json:"image,omitempty" db:"image" gorm:"type:text"`
	Position    int          `json:"position" db:"position" gorm:"type:integer;not null;default:0"`
	Tags        []ProjectTag `json:"tags,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Technologies returns the tag values in stored order.
func (p Project) Technologies() []string {
	values := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		values = append(values, tag.Value)
	}
	return values
}
