package dto_test

import (
	"net/url"
	"rentals/shared/constant"
	"rentals/shared/dto"
	"rentals/shared/failure"
	"rentals/shared/model"
	"rentals/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_FromModel(t *testing.T) {
	timezone.Use("UTC")

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{
		CreatedAt:  time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		ModifiedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		CreatedBy:  "host-1",
	})

	assert.Equal(t, dto.Metadata{
		CreatedAt:  "2024-03-01T08:30:00Z",
		ModifiedAt: "2024-03-02T09:00:00Z",
		CreatedBy:  "host-1",
	}, metadata)
}

func TestParseQueryParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    dto.QueryParams
		wantErr error
	}{
		{
			name:  "empty lists everything",
			query: "",
			want:  dto.QueryParams{},
		},
		{
			name:  "paging and ordering",
			query: "page=2&limit=20&sort_by=price&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "price", SortDir: dto.SortDirAsc},
		},
		{
			name:  "limit capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:  "unknown direction dropped",
			query: "sort_by=title&sort_dir=sideways",
			want:  dto.QueryParams{SortBy: "title"},
		},
		{
			name:    "page not a number",
			query:   "page=two",
			wantErr: failure.InvalidPageParam,
		},
		{
			name:    "negative page",
			query:   "page=-1",
			wantErr: failure.InvalidPageParam,
		},
		{
			name:    "zero limit",
			query:   "limit=0",
			wantErr: failure.InvalidLimitParam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := dto.ParseQueryParams(values)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
