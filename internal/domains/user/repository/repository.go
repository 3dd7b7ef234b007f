package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

import (
	"context"
	"rentals/infras/otel"
	"rentals/infras/postgres"
	"rentals/internal/domains/user/model"
	gDto "rentals/shared/dto"
	gRepo "rentals/shared/repository"
)

// User stores accounts. Email is unique; a clashing Insert or Update fails with gRepo.ErrDuplicate.
type User interface {
	Insert(ctx context.Context, user model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, changes map[string]any, filter gDto.FilterGroup) error
}

func New(db *postgres.Connection, otel otel.Otel) User {
	repo := gRepo.NewRepository[model.User](model.EntityName, model.TableName, db, otel)

	return &repo
}
