package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-site/models"
)

// PostPath builds the detail link of post from its category and tag slugs.
// Only the trailing slug segment is used when the link is resolved.
func PostPath(post models.BlogPost) string {
	category := post.CategorySlug()
	if category == "" {
		category = "uncategorized"
	}
	tags := strings.Join(post.TagSlugs(), ",")
	if tags == "" {
		tags = "none"
	}
	return "/blog/category/" + category + "/tags/" + tags + "/slug/" + post.Slug
}

// ListingURL links to page of the listing with q's filters kept.
func ListingURL(q ListingQuery, page int) string {
	values := url.Values{}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Tag != "" {
		values.Set("tag", q.Tag)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if len(values) == 0 {
		return "/blog"
	}
	return "/blog?" + values.Encode()
}

// FilterURL links to the first page with the category or tag filter changed.
// An empty value or "all" removes that filter.
func FilterURL(q ListingQuery, key, value string) string {
	if value == "all" {
		value = ""
	}
	switch key {
	case "category":
		q.Category = value
	case "tag":
		q.Tag = value
	}
	return ListingURL(q, 1)
}
