package models

import (
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

func newDocumentID() string {
	return uuid.NewString()
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its alphanumeric runs with '-'.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Pagination is the page metadata returned with every list response.
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Total     int64 `json:"total"`
}

// NewPagination computes the page count for total rows split into pageSize pages.
func NewPagination(page, pageSize int, total int64) Pagination {
	pageCount := 0
	if pageSize > 0 {
		pageCount = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Pagination{Page: page, PageSize: pageSize, PageCount: pageCount, Total: total}
}

// All returns one value of every persisted model, in migration order.
func All() []any {
	return []any{
		&MediaAsset{},
		&Category{},
		&Tag{},
		&Author{},
		&BlogPost{},
		&Project{},
		&ProjectTag{},
	}
}
