package utils

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// ListParams — параметры списка из query: ?search=&limit=&page=
type ListParams struct {
	Search string
	Limit  uint64
	Offset uint64
	Page   uint64
}

func ParseListParams(values url.Values) ListParams {
	p := ListParams{Limit: DefaultLimit, Page: 1, Search: strings.TrimSpace(values.Get("search"))}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.ParseUint(limitStr, 10, 64); err == nil && l > 0 {
			if l > MaxLimit {
				l = MaxLimit
			}
			p.Limit = l
		}
	}
	if pageStr := values.Get("page"); pageStr != "" {
		if pg, err := strconv.ParseUint(pageStr, 10, 64); err == nil && pg > 0 {
			p.Page = pg
		}
	}
	// OFFSET в Postgres — bigint.
	if maxPage := math.MaxInt64 / p.Limit; p.Page > maxPage {
		p.Page = maxPage
	}
	p.Offset = (p.Page - 1) * p.Limit
	return p
}
