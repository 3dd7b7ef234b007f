package shared_test

import (
	"context"
	"errors"
	"rentals/shared"
	cacheMocks "rentals/shared/cache/mocks"
	"rentals/shared/constant"
	"rentals/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestChangedColumns(t *testing.T) {
	type profileChanges struct {
		FirstName string   `db:"first_name"`
		Email     string   `db:"email"`
		WishList  []string `db:"wish_list"`
		Draft     string   `db:"-"`
		Untagged  string
	}

	tests := []struct {
		name    string
		changes profileChanges
		want    map[string]any
	}{
		{
			name:    "only set columns",
			changes: profileChanges{FirstName: "Ayu", Draft: "skip", Untagged: "skip"},
			want:    map[string]any{"first_name": "Ayu"},
		},
		{
			name:    "nothing set",
			changes: profileChanges{},
			want:    map[string]any{},
		},
		{
			name:    "slices kept",
			changes: profileChanges{Email: "ayu@example.com", WishList: []string{"listing-1"}},
			want:    map[string]any{"email": "ayu@example.com", "wish_list": []string{"listing-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shared.ChangedColumns(tt.changes, "user-1")

			assert.IsType(t, time.Time{}, got[constant.FieldModifiedAt])
			assert.Equal(t, "user-1", got[constant.FieldModifiedBy])

			delete(got, constant.FieldModifiedAt)
			delete(got, constant.FieldModifiedBy)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByID(t *testing.T) {
	got := shared.FilterByID("listing-1", "id", "listings")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "listing-1", Operator: dto.FilterOperatorEq, Table: "listings"},
		},
	}, got)

	where, args := got.GetWhereClause()
	assert.Equal(t, "(listings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "listing-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "listing:get", shared.BuildCacheKey("listing:get"))
	assert.Equal(t, "listing:get:abc", shared.BuildCacheKey("listing:get", "abc"))
	assert.Equal(t, "limiter:127.0.0.1:curl", shared.BuildCacheKey("limiter", "127.0.0.1", "curl"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	beach := dto.FilterGroup{Filters: []any{dto.Filter{Field: "category", Value: "Beach", Operator: dto.FilterOperatorEq}}}
	city := dto.FilterGroup{Filters: []any{dto.Filter{Field: "category", Value: "City", Operator: dto.FilterOperatorEq}}}

	first := shared.BuildCacheKeyWithQuery("listing:get_all", params, beach)
	second := shared.BuildCacheKeyWithQuery("listing:get_all", params, beach)
	other := shared.BuildCacheKeyWithQuery("listing:get_all", params, city)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Contains(t, first, "listing:get_all:")
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "listing:get_all*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "listing:get_all")

	mockCache.EXPECT().Clear(gomock.Any(), "listing:count*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "listing:count")
}
