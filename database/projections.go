package database

import "github.com/rpupo63/portfolio-site/models"

// CategorySummary is the projected field set of a category.
type CategorySummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// CategoryCount is a category with the number of posts filed under it.
type CategoryCount struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Color     *string `json:"color"`
	PostCount int64   `json:"postCount"`
}

// TagSummary is the projected field set of a tag.
type TagSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagCount is a tag with the number of posts carrying it.
type TagCount struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"postCount"`
}

// AuthorSummary is the minimal author listing entry.
type AuthorSummary struct {
	ID     uint               `json:"id"`
	Name   string             `json:"name"`
	Email  *string            `json:"email"`
	Avatar *models.MediaAsset `json:"avatar"`
}
