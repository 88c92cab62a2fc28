package api

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// SortDirection orders a collection listing.
type SortDirection string

const (
	Asc  SortDirection = "ASC"
	Desc SortDirection = "DESC"
)

// SortField is one sort key.
type SortField struct {
	Field     string
	Direction SortDirection
}

// Query filters and sorts a collection listing.
type Query struct {
	// Filter matches fields exactly; string values are quoted, anything else
	// is written as is. Conditions are joined with "&&".
	Filter map[string]any
	// RawFilter is used verbatim instead of Filter when set.
	RawFilter string

	Sort []SortField
	// RawSort is used verbatim instead of Sort when set.
	RawSort string
}

// Encode returns the query string fragment, each parameter prefixed by "&".
func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	var sb strings.Builder

	filter := q.RawFilter
	if filter == "" && len(q.Filter) > 0 {
		keys := make([]string, 0, len(q.Filter))
		for k := range q.Filter {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		conds := make([]string, 0, len(keys))
		for _, k := range keys {
			switch v := q.Filter[k].(type) {
			case string:
				conds = append(conds, fmt.Sprintf("%s=%q", k, v))
			default:
				conds = append(conds, fmt.Sprintf("%s=%v", k, v))
			}
		}
		filter = strings.Join(conds, "&&")
	}
	if filter != "" {
		sb.WriteString("&filter=")
		sb.WriteString(url.QueryEscape(filter))
	}

	sorting := q.RawSort
	if sorting == "" && len(q.Sort) > 0 {
		keys := make([]string, 0, len(q.Sort))
		for _, s := range q.Sort {
			if s.Direction == Desc {
				keys = append(keys, "-"+s.Field)
			} else {
				keys = append(keys, s.Field)
			}
		}
		sorting = strings.Join(keys, ",")
	}
	if sorting != "" {
		sb.WriteString("&sort=")
		sb.WriteString(url.QueryEscape(sorting))
	}
	return sb.String()
}
