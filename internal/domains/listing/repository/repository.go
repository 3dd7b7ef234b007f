package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

import (
	"context"
	"rentals/infras/otel"
	"rentals/infras/postgres"
	"rentals/internal/domains/listing/model"
	gDto "rentals/shared/dto"
	gRepo "rentals/shared/repository"
)

// Listing reads listings joined with their creator and writes the listings table.
type Listing interface {
	Insert(ctx context.Context, listing model.Listing) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.ListingDetail, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ListingDetail, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.ListingDetail]
}

func New(db *postgres.Connection, otel otel.Otel) Listing {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ListingDetail](model.EntityName, model.TableName, db, otel),
	}
}

// Insert writes only the listings columns; the creator columns belong to the join.
func (r *repositoryImpl) Insert(ctx context.Context, listing model.Listing) error {
	return r.Repository.Insert(ctx, model.ListingDetail{Listing: listing}) //nolint:wrapcheck
}
