//go:build wireinject
// +build wireinject

package di

import (
	"rentals/config"
	"rentals/infras/jwt"
	"rentals/infras/kafka"
	"rentals/infras/otel"
	"rentals/infras/postgres"
	"rentals/infras/redis"
	"rentals/infras/s3"
	"rentals/infras/storage"
	"rentals/permissions"
	"rentals/shared/cache"
	"rentals/transport/http"
	"rentals/transport/http/middleware"
	"rentals/transport/http/router"

	authService "rentals/internal/domains/auth/service"
	bookingRepository "rentals/internal/domains/booking/repository"
	bookingService "rentals/internal/domains/booking/service"
	listingRepository "rentals/internal/domains/listing/repository"
	listingService "rentals/internal/domains/listing/service"
	userRepository "rentals/internal/domains/user/repository"
	userService "rentals/internal/domains/user/service"
	authHandler "rentals/internal/handlers/auth"
	bookingHandler "rentals/internal/handlers/booking"
	listingHandler "rentals/internal/handlers/listing"
	userHandler "rentals/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	storage.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	listingDomain,
	userDomain,
	authDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	listingHandler.New,
	bookingHandler.New,
	userHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
