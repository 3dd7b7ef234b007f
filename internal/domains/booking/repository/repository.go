package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

import (
	"context"
	"rentals/infras/otel"
	"rentals/infras/postgres"
	"rentals/internal/domains/booking/model"
	gDto "rentals/shared/dto"
	gRepo "rentals/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BookingDetail, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.BookingDetail]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.BookingDetail](model.EntityName, model.TableName, db, otel),
	}
}

// Insert writes only the bookings columns of the detail row.
func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking) error {
	return r.Repository.Insert(ctx, model.BookingDetail{Booking: booking}) //nolint:wrapcheck
}
