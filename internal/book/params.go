package book

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseQuery reads pageSize, page, sorted and the repeatable categories
// parameter. Missing values take their defaults; malformed ones are rejected.
func ParseQuery(v url.Values) (Query, error) {
	q := DefaultQuery()

	if raw, ok := lookup(v, "pageSize"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Query{}, invalidParam("pageSize", "pageSize must be a positive integer")
		}
		q.PageSize = n
	}
	if raw, ok := lookup(v, "page"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Query{}, invalidParam("page", "page must be a positive integer")
		}
		q.Page = n
	}
	if raw, ok := lookup(v, "sorted"); ok {
		sorted, err := parseSorted(raw)
		if err != nil {
			return Query{}, err
		}
		q.Sorted = sorted
	}

	for _, c := range v["categories"] {
		if c != "" {
			q.Categories = append(q.Categories, c)
		}
	}
	return q, nil
}

func lookup(v url.Values, key string) (string, bool) {
	raw := strings.TrimSpace(v.Get(key))
	return raw, raw != ""
}

func parseSorted(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, invalidParam("sorted", "sorted must be 1, 0, true or false")
}
