package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"mime/multipart"
	"net/http"
	"rentals/config"
	"rentals/infras/otel"
	"rentals/infras/storage"
	bookingModel "rentals/internal/domains/booking/model"
	"rentals/internal/domains/listing/model"
	"rentals/internal/domains/listing/model/dto"
	"rentals/internal/domains/listing/repository"
	"rentals/permissions"
	"rentals/shared"
	"rentals/shared/cache"
	"rentals/shared/constant"
	gDto "rentals/shared/dto"
	"rentals/shared/failure"
	"rentals/shared/timezone"
	"rentals/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetListing     = model.CachePrefix + ":get"
	cacheGetAllListing  = model.CachePrefix + ":get_all"
	cacheSearchListing  = model.CachePrefix + ":search"
	cacheCreatorListing = model.CachePrefix + ":creator"
)

const (
	msgCreateFailed = "Fail to create Listing"
	msgUpdateFailed = "Failed to update listing"
	msgUploadFailed = "File upload error"
	msgFetchFailed  = "Fail to fetch listings"
	msgGetFailed    = "Listing can not found!"
	msgNotFound     = "Listing not found"
)

var sortableColumns = map[string]string{
	constant.FieldCreatedAt: model.TableName + "." + constant.FieldCreatedAt,
	model.FieldPrice:        model.TableName + "." + model.FieldPrice,
	model.FieldTitle:        model.TableName + "." + model.FieldTitle,
	model.FieldGuestCount:   model.TableName + "." + model.FieldGuestCount,
}

type Listing interface {
	Create(ctx context.Context, creatorID string, req dto.CreateListingRequest) (dto.ListingResponse, error)
	Update(ctx context.Context, listingID, userID string, req dto.UpdateListingRequest) (dto.ListingResponse, error)
	Get(ctx context.Context, id string) (dto.ListingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, category string) ([]dto.ListingResponse, error)
	Search(ctx context.Context, term string) ([]dto.ListingResponse, error)
	GetByCreator(ctx context.Context, creatorID string) ([]dto.ListingResponse, error)
}

type serviceImpl struct {
	repo   repository.Listing
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
	store  storage.ObjectStore
	policy model.PatchPolicy
}

func New(repo repository.Listing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, store storage.ObjectStore) Listing {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
		store:  store,
		policy: model.PolicyFromConfig(cfg.App.Listing.ApplyZeroPatches),
	}
}

func (s *serviceImpl) Create(ctx context.Context, creatorID string, req dto.CreateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	listing := req.ToModel(creatorID, nil)
	if err = listing.Validate(); err != nil {
		return res, err
	}

	paths, err := s.savePhotos(ctx, req.ListingPhotos)
	if err != nil {
		return res, failure.Wrap(http.StatusBadRequest, msgUploadFailed, err)
	}

	listing.ListingPhotoPaths = model.StringArray(paths)

	if err = s.repo.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Msg("failed to create listing")

		s.discard(ctx, paths)

		return res, failure.Wrap(http.StatusConflict, msgCreateFailed, err)
	}

	log.Info().Str("listingID", listing.ID).Int("photos", len(paths)).Msg("listing created")

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateLists(c)
	}()

	res.FromModel(listing)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, listingID, userID string, req dto.UpdateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(listingID, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load listing for update")

		return res, failure.Wrap(http.StatusInternalServerError, msgUpdateFailed, err)
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound(msgNotFound)
	}

	if err = permissions.RequireOwner(userID, current.Creator); err != nil {
		log.Warn().Str("listingID", listingID).Str("userID", userID).Msg("update rejected, not the listing creator")

		return res, err
	}

	if req.Patch.IsEmpty() && len(req.ListingPhotos) == 0 && len(req.RemovedPhotos) == 0 {
		res.FromDetail(current)

		return res, nil
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	newPaths, err := s.savePhotos(ctx, req.ListingPhotos)
	if err != nil {
		return res, failure.Wrap(http.StatusBadRequest, msgUploadFailed, err)
	}

	merged, dropped := model.Merge(current.Listing, req.Patch, newPaths, req.RemovedPhotos, s.policy)

	if err = merged.Validate(); err != nil {
		s.discard(ctx, newPaths)

		return res, err
	}

	if !model.Changed(current.Listing, merged) {
		s.discard(ctx, dropped)
		res.FromDetail(current)

		return res, nil
	}

	merged.ModifiedAt = timezone.Now()
	merged.ModifiedBy = userID

	if err = s.repo.Update(ctx, merged.Document(), filter); err != nil {
		log.Error().Err(err).Msg("failed to update listing")

		s.discard(ctx, newPaths)

		return res, failure.Wrap(http.StatusInternalServerError, msgUpdateFailed, err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		for _, path := range dropped {
			if err := s.store.Delete(c, path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to delete removed listing photo")
			}
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetListing, listingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete listing cache")
		}

		s.invalidateLists(c)
		// trips and reservations embed listing photos and prices
		shared.InvalidateCaches(c, s.cache, bookingModel.CachePrefix)
	}()

	current.Listing = merged
	res.FromDetail(current)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetListing, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listing")

		return res, nil
	}

	listing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return res, failure.Wrap(http.StatusNotFound, msgGetFailed, err)
	}

	if listing.ID == constant.Empty {
		return res, failure.NotFound(msgNotFound)
	}

	res.FromDetail(listing)

	s.remember(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, category string) (res []dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if category != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	return s.list(ctx, shared.BuildCacheKeyWithQuery(cacheGetAllListing, params, filter), params, filter)
}

// Search matches category or title against term as a case-insensitive regular expression.
func (s *serviceImpl) Search(ctx context.Context, term string) (res []dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Search")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters:  []any{},
	}

	if term != constant.SearchAll {
		filter.Filters = append(filter.Filters,
			gDto.Filter{
				ArgName:  constant.RequestParamSearch,
				Field:    model.FieldCategory,
				Operator: gDto.FilterOperatorRegex,
				Value:    term,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  constant.RequestParamSearch,
				Field:    model.FieldTitle,
				Operator: gDto.FilterOperatorRegex,
				Value:    term,
				Table:    model.TableName,
			},
		)
	}

	return s.list(ctx, shared.BuildCacheKey(cacheSearchListing, term), gDto.QueryParams{}, filter)
}

func (s *serviceImpl) GetByCreator(ctx context.Context, creatorID string) (res []dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByCreator")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(creatorID, model.FieldCreator, model.TableName)

	return s.list(ctx, shared.BuildCacheKey(cacheCreatorListing, creatorID), gDto.QueryParams{}, filter)
}

func (s *serviceImpl) list(ctx context.Context, cacheKey string, params gDto.QueryParams, filter gDto.FilterGroup) (res []dto.ListingResponse, err error) {
	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listings")

		return res, nil
	}

	params.SortBy, params.SortDir = sortOrder(params)

	listings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return nil, failure.Wrap(http.StatusNotFound, msgFetchFailed, err)
	}

	res = dto.FromDetails(listings)

	s.remember(ctx, cacheKey, res)

	return res, nil
}

// sortOrder maps a requested sort onto a qualified listings column, oldest first by default.
func sortOrder(params gDto.QueryParams) (string, string) {
	column, ok := sortableColumns[params.SortBy]
	if !ok {
		column = sortableColumns[constant.FieldCreatedAt]
	}

	dir := params.SortDir
	if dir == constant.Empty {
		dir = gDto.SortDirAsc
	}

	return column, dir
}

func (s *serviceImpl) savePhotos(ctx context.Context, photos []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(photos))

	for _, photo := range photos {
		path, err := s.store.Save(ctx, model.PhotoDirectory, photo)
		if err != nil {
			log.Error().Err(err).Str("file", photo.Filename).Msg("failed to store listing photo")

			s.discard(ctx, paths)

			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// discard removes stored photos that no record references.
func (s *serviceImpl) discard(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		for _, path := range paths {
			if err := s.store.Delete(c, path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to discard listing photo")
			}
		}
	}()
}

func (s *serviceImpl) remember(ctx context.Context, cacheKey string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", cacheKey).Msg("failed to save listings to cache")
		}
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllListing)
	shared.InvalidateCaches(ctx, s.cache, cacheSearchListing)
	shared.InvalidateCaches(ctx, s.cache, cacheCreatorListing)
}
