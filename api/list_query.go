package api

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
)

var orFilterKey = regexp.MustCompile(`^filters\[\$or\]\[(\d+)\]\[([A-Za-z_]+)\]\[\$containsi\]$`)

func parsePositiveInt(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errs.NewInvalidFieldError(key, "must be a positive integer")
	}
	return n, nil
}

// parsePage reads pagination[page] and pagination[pageSize].
func parsePage(values url.Values) (database.Page, error) {
	number, err := parsePositiveInt(values, "pagination[page]")
	if err != nil {
		return database.Page{}, err
	}
	size, err := parsePositiveInt(values, "pagination[pageSize]")
	if err != nil {
		return database.Page{}, err
	}
	return database.Page{Number: number, Size: size}.Normalize(), nil
}

// parseSort reads sort=field[:asc|:desc] given either as a comma list or as sort[i] entries.
func parseSort(values url.Values) ([]database.Sort, error) {
	var raw []string
	for _, value := range values["sort"] {
		raw = append(raw, strings.Split(value, ",")...)
	}
	var indexed []string
	for key := range values {
		if strings.HasPrefix(key, "sort[") {
			indexed = append(indexed, key)
		}
	}
	sort.Strings(indexed)
	for _, key := range indexed {
		raw = append(raw, values.Get(key))
	}

	var sorts []database.Sort
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		field, direction, _ := strings.Cut(entry, ":")
		if !database.ValidPostSortField(field) {
			return nil, errs.NewInvalidFieldError("sort", "cannot sort by "+field)
		}
		switch strings.ToLower(direction) {
		case "", "asc":
			sorts = append(sorts, database.Sort{Field: field})
		case "desc":
			sorts = append(sorts, database.Sort{Field: field, Desc: true})
		default:
			return nil, errs.NewInvalidFieldError("sort", "direction must be asc or desc")
		}
	}
	return sorts, nil
}

// parsePostQuery translates the supported filter, sort and pagination parameters
// of a blog post listing. populate parameters are accepted and ignored.
func parsePostQuery(values url.Values) (database.PostQuery, error) {
	var q database.PostQuery
	var err error

	if q.Page, err = parsePage(values); err != nil {
		return q, err
	}
	if q.Sort, err = parseSort(values); err != nil {
		return q, err
	}

	q.Slug = values.Get("filters[slug][$eq]")
	q.CategorySlug = values.Get("filters[category][slug][$eq]")
	q.TagSlug = values.Get("filters[tags][slug][$eq]")

	if raw := values.Get("filters[id][$ne]"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return q, errs.NewInvalidFieldError("filters[id][$ne]", "must be a numeric id")
		}
		exclude := uint(id)
		q.ExcludeID = &exclude
	}

	if raw := values.Get("filters[featured][$eq]"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errs.NewInvalidFieldError("filters[featured][$eq]", "must be true or false")
		}
		q.Featured = &featured
	}

	type orTerm struct {
		index int
		term  database.Contains
	}
	var terms []orTerm
	for key := range values {
		match := orFilterKey.FindStringSubmatch(key)
		if match == nil {
			continue
		}
		if !database.ValidPostSearchField(match[2]) {
			return q, errs.NewInvalidFieldError(key, "cannot search by "+match[2])
		}
		value := values.Get(key)
		if value == "" {
			continue
		}
		index, _ := strconv.Atoi(match[1])
		terms = append(terms, orTerm{index, database.Contains{Field: match[2], Value: value}})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].index < terms[j].index })
	for _, t := range terms {
		q.AnyOf = append(q.AnyOf, t.term)
	}

	return q, nil
}
