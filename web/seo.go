package web

import (
	"time"

	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/profile"
)

// Metadata fills the document head of a page.
type Metadata struct {
	Title       string
	Description string
	Canonical   string
	OpenGraph   OpenGraph
	Twitter     TwitterCard
}

type OpenGraph struct {
	Title         string
	Description   string
	Type          string
	Images        []string
	PublishedTime string
	ModifiedTime  string
	Authors       []string
	Tags          []string
}

type TwitterCard struct {
	Card        string
	Title       string
	Description string
	Images      []string
}

// SiteMetadata is the head of pages that describe the site rather than a post.
func SiteMetadata(p *profile.Profile, title, canonical string) Metadata {
	siteTitle := p.Name
	if p.Role != "" {
		siteTitle += " | " + p.Role
	}
	if title != "" {
		siteTitle = title + " | " + p.Name
	}
	return Metadata{
		Title:       siteTitle,
		Description: p.Hero.Summary,
		Canonical:   canonical,
		OpenGraph: OpenGraph{
			Title:       siteTitle,
			Description: p.Hero.Summary,
			Type:        "website",
		},
		Twitter: TwitterCard{Card: "summary", Title: siteTitle, Description: p.Hero.Summary},
	}
}

// PostMetadata describes post. A nil post yields the not-found head.
func PostMetadata(post *models.BlogPost) Metadata {
	if post == nil {
		return Metadata{Title: "Post Not Found"}
	}

	title := post.Title
	if post.MetaTitle != nil && *post.MetaTitle != "" {
		title = *post.MetaTitle
	}
	description := post.Excerpt
	if post.MetaDescription != nil && *post.MetaDescription != "" {
		description = *post.MetaDescription
	}

	var images []string
	if post.FeaturedImage != nil && post.FeaturedImage.URL != "" {
		images = []string{post.FeaturedImage.URL}
	}
	var authors []string
	if post.Author != nil {
		authors = []string{post.Author.Name}
	}
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Name)
	}

	var published string
	if post.PublishedAt != nil {
		published = post.PublishedAt.UTC().Format(time.RFC3339)
	}
	var modified string
	if !post.UpdatedAt.IsZero() {
		modified = post.UpdatedAt.UTC().Format(time.RFC3339)
	}

	return Metadata{
		Title:       title,
		Description: description,
		Canonical:   PostPath(*post),
		OpenGraph: OpenGraph{
			Title:         title,
			Description:   description,
			Type:          "article",
			Images:        images,
			PublishedTime: published,
			ModifiedTime:  modified,
			Authors:       authors,
			Tags:          tags,
		},
		Twitter: TwitterCard{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Images:      images,
		},
	}
}
