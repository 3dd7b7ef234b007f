package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"net/http"
	"rentals/config"
	"rentals/infras/kafka"
	"rentals/infras/otel"
	"rentals/internal/domains/booking/model"
	"rentals/internal/domains/booking/model/dto"
	"rentals/internal/domains/booking/repository"
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
	cacheTrips        = model.CachePrefix + ":trips"
	cacheReservations = model.CachePrefix + ":reservations"
)

const (
	msgCreateFailed         = "Fail to create a new Booking!"
	msgTripsNotFound        = "Can not find trips!"
	msgReservationsNotFound = "Can not find reservations!"
)

type Booking interface {
	Create(ctx context.Context, subject string, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Trips(ctx context.Context, userID string) ([]dto.BookingDetailResponse, error)
	Reservations(ctx context.Context, userID string) ([]dto.BookingDetailResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	producer kafka.Producer
}

func New(repo repository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, producer kafka.Producer) Booking {
	return &serviceImpl{
		repo:     repo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		producer: producer,
	}
}

func (s *serviceImpl) Create(ctx context.Context, subject string, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	booking, err := req.ToModel(subject)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse booking request")

		return res, failure.Wrap(http.StatusBadRequest, msgCreateFailed, err)
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, failure.Wrap(http.StatusBadRequest, msgCreateFailed, err)
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		for _, key := range []string{
			shared.BuildCacheKey(cacheTrips, booking.CustomerID),
			shared.BuildCacheKey(cacheReservations, booking.HostID),
		} {
			if err := s.cache.Delete(c, key); err != nil {
				log.Error().Err(err).Str("cacheKey", key).Msg("failed to delete booking cache")
			}
		}

		event := kafka.Message{Key: booking.ListingID, Value: dto.NewBookingCreatedEvent(res, timezone.Now())}
		if err := s.producer.Publish(c, s.cfg.Kafka.Topics.Bookings, event); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}
	}()

	return res, nil
}

// Trips lists the bookings the user made as a customer.
func (s *serviceImpl) Trips(ctx context.Context, userID string) (res []dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Trips")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, shared.BuildCacheKey(cacheTrips, userID), model.FieldCustomerID, userID, msgTripsNotFound)
}

// Reservations lists the bookings made on the user's listings.
func (s *serviceImpl) Reservations(ctx context.Context, userID string) (res []dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservations")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, shared.BuildCacheKey(cacheReservations, userID), model.FieldHostID, userID, msgReservationsNotFound)
}

func (s *serviceImpl) list(ctx context.Context, cacheKey, field, userID, notFound string) (res []dto.BookingDetailResponse, err error) {
	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	bookings, err := s.repo.GetAll(ctx, params, shared.FilterByID(userID, field, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to get bookings")

		return nil, failure.Wrap(http.StatusNotFound, notFound, err)
	}

	res = dto.FromDetails(bookings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}
