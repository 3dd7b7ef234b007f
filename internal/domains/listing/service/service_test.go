package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rentals/config"
	"rentals/infras/otel/mocks"
	storageMocks "rentals/infras/storage/mocks"
	"rentals/internal/domains/listing/model"
	"rentals/internal/domains/listing/model/dto"
	listingMocks "rentals/internal/domains/listing/repository/mocks"
	"rentals/internal/domains/listing/service"
	cacheMocks "rentals/shared/cache/mocks"
	gDto "rentals/shared/dto"
	"rentals/shared/failure"
)

type fixture struct {
	repo    *listingMocks.MockListing
	cache   *cacheMocks.MockRedisCache
	store   *storageMocks.MockObjectStore
	svc     service.Listing
	cleared *clearedPatterns
}

// clearedPatterns records the cache patterns passed to Clear from background invalidations.
type clearedPatterns struct {
	mu       sync.Mutex
	patterns []string
}

func (c *clearedPatterns) add(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.patterns = append(c.patterns, pattern)
}

func (c *clearedPatterns) has(pattern string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Contains(c.patterns, pattern)
}

func newFixture(t *testing.T, applyZeroPatches bool) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:    listingMocks.NewMockListing(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		store:   storageMocks.NewMockObjectStore(ctrl),
		cleared: &clearedPatterns{},
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Listing.ApplyZeroPatches = applyZeroPatches

	f.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pattern string) error {
			f.cleared.add(pattern)

			return nil
		}).
		AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.store)

	return f
}

// expectDeletes registers the best-effort photo deletes and returns a wait for them.
func (f fixture) expectDeletes(t *testing.T, paths ...string) func() {
	t.Helper()

	var wg sync.WaitGroup

	wg.Add(len(paths))

	for _, path := range paths {
		f.store.EXPECT().
			Delete(gomock.Any(), path).
			DoAndReturn(func(context.Context, string) error {
				wg.Done()

				return errors.New("disk busy")
			})
	}

	return func() {
		done := make(chan struct{})

		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for photo deletes")
		}
	}
}

func photos(names ...string) []*multipart.FileHeader {
	headers := make([]*multipart.FileHeader, len(names))
	for i, name := range names {
		headers[i] = &multipart.FileHeader{Filename: name, Size: 1}
	}

	return headers
}

func createRequest(files []*multipart.FileHeader) dto.CreateListingRequest {
	return dto.NewCreateListingRequest(dto.FieldsFromForm(map[string][]string{
		"category":    {"Beach"},
		"type":        {"House"},
		"title":       {"T"},
		"description": {"D"},
		"price":       {"100"},
	}), files)
}

func stored(paths ...string) model.ListingDetail {
	return model.ListingDetail{
		Listing: model.Listing{
			ID:                "L1",
			Creator:           "U1",
			Category:          "Beach",
			Title:             "Seaside",
			Price:             50,
			Amenities:         pq.StringArray{"wifi"},
			ListingPhotoPaths: pq.StringArray(paths),
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestListingService_Create(t *testing.T) {
	t.Run("stores photos in upload order and binds the creator", func(t *testing.T) {
		f := newFixture(t, false)

		gomock.InOrder(
			f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("listings/p1.jpg", nil),
			f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("listings/p2.jpg", nil),
		)

		var inserted model.Listing

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, listing model.Listing) error {
				inserted = listing

				return nil
			})

		res, err := f.svc.Create(context.Background(), "U1", createRequest(photos("p1.jpg", "p2.jpg")))
		require.NoError(t, err)

		assert.Equal(t, "U1", inserted.Creator)
		assert.InDelta(t, 100.0, inserted.Price, 0)
		assert.Equal(t, pq.StringArray{"listings/p1.jpg", "listings/p2.jpg"}, inserted.ListingPhotoPaths)
		assert.Equal(t, inserted.ID, res.ID)
		assert.Equal(t, []string{"listings/p1.jpg", "listings/p2.jpg"}, res.ListingPhotoPaths)
		assert.Equal(t, "U1", res.Creator.ID)
	})

	t.Run("missing required fields fail before any upload", func(t *testing.T) {
		for _, field := range []string{"category", "type", "title", "description", "price"} {
			t.Run(field, func(t *testing.T) {
				f := newFixture(t, false)

				form := map[string][]string{
					"category":    {"Beach"},
					"type":        {"House"},
					"title":       {"T"},
					"description": {"D"},
					"price":       {"100"},
				}
				delete(form, field)

				req := dto.NewCreateListingRequest(dto.FieldsFromForm(form), photos("p1.jpg"))

				_, err := f.svc.Create(context.Background(), "U1", req)
				require.Error(t, err)

				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
				assert.Equal(t, field+" is required", err.Error())
			})
		}
	})

	t.Run("no photos", func(t *testing.T) {
		f := newFixture(t, false)

		_, err := f.svc.Create(context.Background(), "U1", createRequest(nil))
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("negative count is rejected", func(t *testing.T) {
		f := newFixture(t, false)

		req := createRequest(photos("p1.jpg"))
		req.BedCount = "-2"

		_, err := f.svc.Create(context.Background(), "U1", req)
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("upload failure discards stored photos", func(t *testing.T) {
		f := newFixture(t, false)

		gomock.InOrder(
			f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("listings/p1.jpg", nil),
			f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("", errors.New("disk full")),
		)

		wait := f.expectDeletes(t, "listings/p1.jpg")

		_, err := f.svc.Create(context.Background(), "U1", createRequest(photos("p1.jpg", "p2.jpg")))
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Equal(t, "disk full", failure.GetDetail(err))

		wait()
	})

	t.Run("persistence failure is a conflict and discards photos", func(t *testing.T) {
		f := newFixture(t, false)

		f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("listings/p1.jpg", nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		wait := f.expectDeletes(t, "listings/p1.jpg")

		_, err := f.svc.Create(context.Background(), "U1", createRequest(photos("p1.jpg")))
		require.Error(t, err)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, "Fail to create Listing", err.Error())
		assert.Equal(t, "connection refused", failure.GetDetail(err))

		wait()
	})
}

func TestListingService_Update(t *testing.T) {
	t.Run("appends new photos then removes listed paths", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a", "b", "c"), nil)
		f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("d", nil)

		var saved map[string]any

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, doc map[string]any, _ gDto.FilterGroup) error {
				saved = doc

				return nil
			})

		wait := f.expectDeletes(t, "b")

		res, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{
			ListingPhotos: photos("d.jpg"),
			RemovedPhotos: []string{"b"},
		})
		require.NoError(t, err)

		assert.Equal(t, pq.StringArray{"a", "c", "d"}, saved[model.FieldListingPhotoPaths])
		assert.Equal(t, []string{"a", "c", "d"}, res.ListingPhotoPaths)
		assert.Equal(t, "U1", saved["modified_by"])

		wait()

		assert.Eventually(t, func() bool {
			return f.cleared.has("booking*") && f.cleared.has("listing:get_all*")
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("photo over the size limit is rejected before upload", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)

		files := photos("small.jpg", "big.jpg")
		files[1].Size = 50 << 20

		_, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{ListingPhotos: files})
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Equal(t, "listingPhotos[1] must not exceed 10 MB", err.Error())
	})

	t.Run("forbidden for anyone but the creator", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)

		_, err := f.svc.Update(context.Background(), "L1", "U2", dto.UpdateListingRequest{
			Patch:         model.Patch{Title: ptr("Hijacked")},
			ListingPhotos: photos("x.jpg"),
			RemovedPhotos: []string{"a"},
		})
		require.Error(t, err)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("empty patch leaves the record unchanged", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a", "b"), nil)

		res, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{})
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, res.ListingPhotoPaths)
		assert.Equal(t, "Seaside", res.Title)
	})

	t.Run("zero price is ignored by default", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)

		res, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{
			Patch: model.Patch{Price: ptr(0.0)},
		})
		require.NoError(t, err)

		assert.InDelta(t, 50.0, res.Price, 0)
	})

	t.Run("zero price is applied when configured", func(t *testing.T) {
		f := newFixture(t, true)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, doc map[string]any, _ gDto.FilterGroup) error {
				assert.InDelta(t, 0.0, doc[model.FieldPrice], 0)

				return nil
			})

		res, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{
			Patch: model.Patch{Price: ptr(0.0)},
		})
		require.NoError(t, err)

		assert.InDelta(t, 0.0, res.Price, 0)
	})

	t.Run("photo uploaded and removed in the same request is deleted", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)
		f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("listings/x.jpg", nil)

		wait := f.expectDeletes(t, "listings/x.jpg")

		res, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{
			ListingPhotos: photos("x.jpg"),
			RemovedPhotos: []string{"listings/x.jpg"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"a"}, res.ListingPhotoPaths)

		wait()
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ListingDetail{}, nil)

		_, err := f.svc.Update(context.Background(), "missing", "U1", dto.UpdateListingRequest{})
		require.Error(t, err)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("load failure", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ListingDetail{}, errors.New("timeout"))

		_, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{})
		require.Error(t, err)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)
		f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("", errors.New("bad file"))

		_, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{ListingPhotos: photos("x.jpg")})
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Equal(t, "File upload error", err.Error())
	})

	t.Run("negative patch value", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)

		_, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{
			Patch: model.Patch{GuestCount: ptr(-1)},
		})
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("save failure discards the new photos", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored("a"), nil)
		f.store.EXPECT().Save(gomock.Any(), model.PhotoDirectory, gomock.Any()).Return("listings/x.jpg", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock"))

		wait := f.expectDeletes(t, "listings/x.jpg")

		_, err := f.svc.Update(context.Background(), "L1", "U1", dto.UpdateListingRequest{ListingPhotos: photos("x.jpg")})
		require.Error(t, err)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.Equal(t, "deadlock", failure.GetDetail(err))

		wait()
	})
}

func TestListingService_Get(t *testing.T) {
	first := "Ada"

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "cache hit",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "listing:get:L1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "loaded with creator",
			setupMock: func(f fixture) {
				detail := stored("a")
				detail.CreatorFirstName = &first

				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(detail, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ListingDetail{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "store error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.ListingDetail{}, errors.New("invalid uuid"))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "L1")
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			if tt.name == "loaded with creator" {
				assert.Equal(t, "Ada", res.Creator.FirstName)
				assert.Equal(t, "U1", res.Creator.ID)
			}
		})
	}
}

func TestListingService_Search(t *testing.T) {
	tests := []struct {
		name        string
		term        string
		wantFilters int
	}{
		{name: "all returns every listing", term: "all", wantFilters: 0},
		{name: "term matches category or title", term: "beach", wantFilters: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
			f.repo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.ListingDetail, error) {
					assert.Len(t, filter.Filters, tt.wantFilters)
					assert.Equal(t, gDto.FilterGroupOperatorOr, filter.Operator)
					assert.Equal(t, "listings.created_at", params.SortBy)

					for _, item := range filter.Filters {
						fil, ok := item.(gDto.Filter)
						require.True(t, ok)
						assert.Equal(t, gDto.FilterOperatorRegex, fil.Operator)
						assert.Equal(t, tt.term, fil.Value)
					}

					return []model.ListingDetail{stored("a")}, nil
				})

			res, err := f.svc.Search(context.Background(), tt.term)
			require.NoError(t, err)
			assert.Len(t, res, 1)
		})
	}

	t.Run("store error", func(t *testing.T) {
		f := newFixture(t, false)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("invalid regular expression"))

		_, err := f.svc.Search(context.Background(), "(")
		require.Error(t, err)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Equal(t, "Fail to fetch listings", err.Error())
	})
}

func TestListingService_GetAll(t *testing.T) {
	f := newFixture(t, false)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.ListingDetail, error) {
			require.Len(t, filter.Filters, 1)

			fil, ok := filter.Filters[0].(gDto.Filter)
			require.True(t, ok)
			assert.Equal(t, "Beach", fil.Value)
			assert.Equal(t, model.FieldCategory, fil.Field)
			assert.Equal(t, "listings.price", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.ListingDetail{stored("a"), stored("b")}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{SortBy: "price", SortDir: gDto.SortDirDesc}, "Beach")
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestListingService_GetByCreator(t *testing.T) {
	f := newFixture(t, false)

	f.cache.EXPECT().Get(gomock.Any(), "listing:creator:U1", gomock.Any()).Return(errors.New("cache miss"))
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.ListingDetail{stored("a")}, nil)

	res, err := f.svc.GetByCreator(context.Background(), "U1")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "U1", res[0].Creator.ID)
}
