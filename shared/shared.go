package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"rentals/shared/cache"
	"rentals/shared/constant"
	"rentals/shared/dto"
	"rentals/shared/timezone"
	"strings"

	"github.com/rs/zerolog/log"
)

// ChangedColumns maps the non-zero db-tagged fields of a change struct to their columns and
// stamps the modification metadata for actor.
func ChangedColumns(changes any, actor string) map[string]any {
	val := reflect.ValueOf(changes)
	typ := val.Type()

	columns := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	for i := range typ.NumField() {
		name := typ.Field(i).Tag.Get("db")
		if name == "" || name == "-" || val.Field(i).IsZero() {
			continue
		}

		columns[name] = val.Field(i).Interface()
	}

	return columns
}

// FilterByID matches field against id on table.
func FilterByID(id, field, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: field, Value: id, Operator: dto.FilterOperatorEq, Table: table},
		},
	}
}

// BuildCacheKey joins a cache prefix with its identifying parts.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery derives a stable key for list queries from their params and filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	raw, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Where  string          `json:"where"`
		Args   map[string]any  `json:"args"`
	}{params, where, args})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache key query")

		return BuildCacheKey(prefix, fmt.Sprintf("%d:%d", params.Page, params.Limit))
	}

	sum := sha256.Sum256(raw)

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:]))
}

// InvalidateCaches clears every key under prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
