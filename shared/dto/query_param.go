package dto

import (
	"net/url"
	"rentals/shared/constant"
	"rentals/shared/failure"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries paging and ordering for list endpoints. Zero values mean "unset":
// no limit lists everything, and SortBy is only a requested key, never a raw column.
type QueryParams struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// ParseQueryParams reads page, limit, sort_by and sort_dir. Page and limit must be positive
// integers when given, and limit is capped at constant.MaxValueLimit. A sort direction other
// than asc or desc is dropped.
func ParseQueryParams(values url.Values) (QueryParams, error) {
	var (
		q   QueryParams
		err error
	)

	if q.Page, err = positive(values.Get(constant.RequestParamPage)); err != nil {
		return QueryParams{}, failure.InvalidPageParam
	}

	if q.Limit, err = positive(values.Get(constant.RequestParamLimit)); err != nil {
		return QueryParams{}, failure.InvalidLimitParam
	}

	q.Limit = min(q.Limit, constant.MaxValueLimit)
	q.SortBy = strings.TrimSpace(values.Get(constant.RequestParamSortBy))

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	return q, nil
}

func positive(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	if n <= 0 {
		return 0, strconv.ErrRange
	}

	return n, nil
}
