package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
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
	listingDto "rentals/internal/domains/listing/model/dto"
	listingMocks "rentals/internal/domains/listing/service/mocks"
	"rentals/internal/domains/user/model"
	"rentals/internal/domains/user/model/dto"
	userMocks "rentals/internal/domains/user/repository/mocks"
	"rentals/internal/domains/user/service"
	cacheMocks "rentals/shared/cache/mocks"
	gDto "rentals/shared/dto"
	"rentals/shared/failure"
)

type fixture struct {
	repo     *userMocks.MockUser
	listings *listingMocks.MockListing
	cache    *cacheMocks.MockRedisCache
	store    *storageMocks.MockObjectStore
	svc      service.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     userMocks.NewMockUser(ctrl),
		listings: listingMocks.NewMockListing(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		store:    storageMocks.NewMockObjectStore(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.listings, cfg, f.cache, mocks.NewOtel(), f.store)

	return f
}

func ada() model.User {
	return model.User{
		ID:               "U1",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		ProfileImagePath: "profiles/old.png",
		WishList:         pq.StringArray{"L1"},
	}
}

func TestUserService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "user:get:U1", gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ada(), nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "store error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "U1")
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Ada", res.FirstName)
			assert.Equal(t, []string{"L1"}, res.WishList)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("only the owner may edit", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateProfile(context.Background(), "U1", "U2", dto.UpdateProfileRequest{FirstName: "Eve"})
		require.Error(t, err)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("writes non-empty fields and replaces the image", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ada(), nil)
		f.store.EXPECT().Save(gomock.Any(), model.ProfileDirectory, gomock.Any()).Return("profiles/new.png", nil)

		var wg sync.WaitGroup

		wg.Add(1)
		f.store.EXPECT().
			Delete(gomock.Any(), "profiles/old.png").
			DoAndReturn(func(context.Context, string) error {
				wg.Done()

				return nil
			})

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Augusta", fields[model.FieldFirstName])
				assert.Equal(t, "profiles/new.png", fields[model.FieldProfileImagePath])
				assert.NotContains(t, fields, model.FieldLastName)
				assert.NotContains(t, fields, model.FieldEmail)

				return nil
			})

		res, err := f.svc.UpdateProfile(context.Background(), "U1", "U1", dto.UpdateProfileRequest{
			FirstName:    "Augusta",
			ProfileImage: &multipart.FileHeader{Filename: "me.png", Size: 1},
		})
		require.NoError(t, err)

		assert.Equal(t, "Augusta", res.FirstName)
		assert.Equal(t, "Lovelace", res.LastName)
		assert.Equal(t, "profiles/new.png", res.ProfileImagePath)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("old profile image was not deleted")
		}
	})

	t.Run("taken email", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ada(), nil)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.UpdateProfile(context.Background(), "U1", "U1", dto.UpdateProfileRequest{Email: "eve@example.com"})
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateProfile(context.Background(), "U1", "U1", dto.UpdateProfileRequest{Email: "eve"})
		require.Error(t, err)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("save failure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ada(), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock"))

		_, err := f.svc.UpdateProfile(context.Background(), "U1", "U1", dto.UpdateProfileRequest{LastName: "Byron"})
		require.Error(t, err)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.Equal(t, "Failed to update profile", err.Error())
	})
}

func TestUserService_ToggleWishList(t *testing.T) {
	t.Run("adds a listing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ada(), nil)
		f.listings.EXPECT().Get(gomock.Any(), "L2").Return(listingDto.ListingResponse{ID: "L2"}, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, pq.StringArray{"L1", "L2"}, fields[model.FieldWishList])

				return nil
			})

		res, err := f.svc.ToggleWishList(context.Background(), "U1", "U1", "L2")
		require.NoError(t, err)

		assert.True(t, res.Added)
		assert.Equal(t, "Listing is added to wish list", res.Message)
		assert.Equal(t, []string{"L1", "L2"}, res.WishList)
	})

	t.Run("removes a listing without looking it up", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ada(), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.ToggleWishList(context.Background(), "U1", "U1", "L1")
		require.NoError(t, err)

		assert.False(t, res.Added)
		assert.Equal(t, "Listing is removed from wish list", res.Message)
		assert.Empty(t, res.WishList)
	})

	t.Run("unknown listing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ada(), nil)
		f.listings.EXPECT().Get(gomock.Any(), "L9").Return(listingDto.ListingResponse{}, failure.NotFound("Listing not found"))

		_, err := f.svc.ToggleWishList(context.Background(), "U1", "U1", "L9")
		require.Error(t, err)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("someone else's wish list", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ToggleWishList(context.Background(), "U1", "U2", "L1")
		require.Error(t, err)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestUserService_GetProperties(t *testing.T) {
	f := newFixture(t)

	f.listings.EXPECT().GetByCreator(gomock.Any(), "U1").Return([]listingDto.ListingResponse{{ID: "L1"}}, nil)

	res, err := f.svc.GetProperties(context.Background(), "U1")
	require.NoError(t, err)
	assert.Len(t, res, 1)

	f.listings.EXPECT().GetByCreator(gomock.Any(), "U2").Return(nil, errors.New("timeout"))

	_, err = f.svc.GetProperties(context.Background(), "U2")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.Equal(t, "Can not find properties!", err.Error())
}
