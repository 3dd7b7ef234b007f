package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"net/http"
	"rentals/config"
	"rentals/infras/otel"
	"rentals/infras/storage"
	bookingModel "rentals/internal/domains/booking/model"
	listingModel "rentals/internal/domains/listing/model"
	listingDto "rentals/internal/domains/listing/model/dto"
	listingService "rentals/internal/domains/listing/service"
	"rentals/internal/domains/user/model"
	"rentals/internal/domains/user/model/dto"
	"rentals/internal/domains/user/repository"
	"rentals/permissions"
	"rentals/shared"
	"rentals/shared/cache"
	"rentals/shared/constant"
	gDto "rentals/shared/dto"
	"rentals/shared/failure"
	gRepo "rentals/shared/repository"
	"rentals/shared/timezone"
	"rentals/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser = model.CachePrefix + ":get"
)

const (
	msgUserNotFound       = "User not found"
	msgFetchUserFailed    = "Failed to fetch user"
	msgUpdateFailed       = "Failed to update profile"
	msgEmailTaken         = "email already registered"
	msgUploadFailed       = "File upload error"
	msgPropertiesNotFound = "Can not find properties!"
	msgWishListFailed     = "Failed to update wish list"
	msgWishAdded          = "Listing is added to wish list"
	msgWishRemoved        = "Listing is removed from wish list"
)

type User interface {
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID, subject string, req dto.UpdateProfileRequest) (dto.UserResponse, error)
	ToggleWishList(ctx context.Context, userID, subject, listingID string) (dto.WishListResponse, error)
	GetProperties(ctx context.Context, userID string) ([]listingDto.ListingResponse, error)
}

type serviceImpl struct {
	repo     repository.User
	listings listingService.Listing
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	store    storage.ObjectStore
}

func New(repo repository.User, listings listingService.Listing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, store storage.ObjectStore) User {
	return &serviceImpl{
		repo:     repo,
		listings: listings,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		store:    store,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, userID, subject string, req dto.UpdateProfileRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = permissions.RequireOwner(subject, userID); err != nil {
		log.Warn().Str("userID", userID).Str("subject", subject).Msg("profile update rejected, not the profile owner")

		return res, err
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return res, err
	}

	if req.Email != constant.Empty && req.Email != user.Email {
		if err = s.ensureEmailAvailable(ctx, req.Email); err != nil {
			return res, err
		}
	}

	var imagePath string

	if req.ProfileImage != nil {
		imagePath, err = s.store.Save(ctx, model.ProfileDirectory, req.ProfileImage)
		if err != nil {
			log.Error().Err(err).Msg("failed to store profile image")

			return res, failure.Wrap(http.StatusBadRequest, msgUploadFailed, err)
		}
	}

	changes := req.ToChanges(imagePath)
	filter := shared.FilterByID(userID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.ChangedColumns(changes, subject), filter); err != nil {
		log.Error().Err(err).Msg("failed to update profile")

		s.deleteFile(ctx, imagePath)

		if errors.Is(err, gRepo.ErrDuplicate) {
			return res, failure.BadRequestFromString(msgEmailTaken)
		}

		return res, failure.Wrap(http.StatusInternalServerError, msgUpdateFailed, err)
	}

	if imagePath != constant.Empty && user.ProfileImagePath != constant.Empty {
		s.deleteFile(ctx, user.ProfileImagePath)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, userID)); err != nil {
			log.Error().Err(err).Msg("failed to delete user cache")
		}

		// listing and booking reads embed the profile
		shared.InvalidateCaches(c, s.cache, listingModel.CachePrefix)
		shared.InvalidateCaches(c, s.cache, bookingModel.CachePrefix)
	}()

	updated := changes.Apply(user)
	updated.ModifiedAt = timezone.Now()
	updated.ModifiedBy = subject

	res.FromModel(updated)

	return res, nil
}

// ToggleWishList adds the listing to the user's wish list, or removes it when already there.
func (s *serviceImpl) ToggleWishList(ctx context.Context, userID, subject, listingID string) (res dto.WishListResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleWishList")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = permissions.RequireOwner(subject, userID); err != nil {
		return res, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return res, err
	}

	wishList, added := user.ToggleWish(listingID)

	if added {
		if _, err = s.listings.Get(ctx, listingID); err != nil {
			return res, err
		}
	}

	updatedFields := map[string]any{
		model.FieldWishList:      wishList,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: subject,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(userID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update wish list")

		return res, failure.Wrap(http.StatusNotFound, msgWishListFailed, err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, userID)); err != nil {
			log.Error().Err(err).Msg("failed to delete user cache")
		}
	}()

	res.Added = added
	res.WishList = wishList

	res.Message = msgWishRemoved
	if added {
		res.Message = msgWishAdded
	}

	return res, nil
}

func (s *serviceImpl) GetProperties(ctx context.Context, userID string) (res []listingDto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProperties")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.listings.GetByCreator(ctx, userID)
	if err != nil {
		return nil, failure.Wrap(http.StatusNotFound, msgPropertiesNotFound, err)
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, failure.Wrap(http.StatusInternalServerError, msgFetchUserFailed, err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound(msgUserNotFound)
	}

	return user, nil
}

func (s *serviceImpl) ensureEmailAvailable(ctx context.Context, email string) error {
	exists, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check email")

		return failure.Wrap(http.StatusInternalServerError, msgUpdateFailed, err)
	}

	if exists {
		return failure.BadRequestFromString(msgEmailTaken)
	}

	return nil
}

func (s *serviceImpl) deleteFile(ctx context.Context, path string) {
	if path == constant.Empty {
		return
	}

	go func() {
		if err := s.store.Delete(context.WithoutCancel(ctx), path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to delete profile image")
		}
	}()
}
