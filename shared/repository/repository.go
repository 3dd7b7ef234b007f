package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"rentals/infras/otel"
	"rentals/infras/postgres"
	"rentals/shared/constant"
	"rentals/shared/dto"
	"rentals/shared/logger"
	"slices"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrFilterRequired = errors.New("filter required")
	// ErrDuplicate reports a unique constraint violation, e.g. a second account on one email.
	ErrDuplicate = errors.New("duplicate key")
	// ErrReference reports a foreign key violation, e.g. a booking on a missing listing.
	ErrReference = errors.New("referenced row does not exist")
)

// Repository is the table gateway shared by every domain. T describes one row of the
// table plus any joined columns; see describe for the tag rules.
type Repository[T any] struct {
	db     *postgres.Connection
	otel   otel.Otel
	entity string
	schema schema
}

func NewRepository[T any](entityName, tableName string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:     dbConnection,
		otel:   otl,
		entity: entityName,
		schema: describe[T](tableName),
	}
}

func (repo *Repository[T]) newScope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

// fail records err on the scope and wraps it with the operation, classifying constraint violations.
func (repo *Repository[T]) fail(scope otel.Scope, op string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	if kind := classify(err); kind != nil {
		return fmt.Errorf("failed to %s %s: %w: %w", op, repo.entity, kind, err)
	}

	return fmt.Errorf("failed to %s %s: %w", op, repo.entity, err)
}

func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeUniqueViolation:
		return ErrDuplicate
	case constant.PqErrorCodeFkViolation:
		return ErrReference
	default:
		return nil
	}
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.newScope(ctx, "Insert")
	defer scope.End()

	query := repo.schema.insertQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.newScope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, ErrFilterRequired
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.schema.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exist bool
	if err := repo.get(ctx, query, args, &exist); err != nil {
		return false, repo.fail(scope, "check", err)
	}

	return exist, nil
}

// Get returns the first matching row, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.newScope(ctx, "Get")
	defer scope.End()

	where, args := whereClause(filter)
	query := strings.Join(slices.DeleteFunc([]string{
		"SELECT", repo.schema.selectList(columns...),
		"FROM", repo.schema.table, repo.schema.join, where,
	}, isBlank), " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := repo.get(ctx, query, args, &model)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get", err)
	}

	return model, nil
}

// GetAll pages only when params carry a limit; SortBy must already be a trusted column expression.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.newScope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)

	var ordering, pagination string

	if params.SortBy != "" && params.SortDir != "" {
		ordering = fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			pagination += " OFFSET :offset"
		}
	}

	query := strings.Join(slices.DeleteFunc([]string{
		"SELECT", repo.schema.selectList(columns...),
		"FROM", repo.schema.table, repo.schema.join, where, ordering, pagination,
	}, isBlank), " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.fail(scope, "prepare list of", err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, "list", err)
	}

	return models, nil
}

// Update writes the given columns on every matching row. An empty filter is refused.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.newScope(ctx, "Update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return ErrFilterRequired
	}

	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.schema.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	maps.Copy(args, mod)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "update", err)
	}

	return nil
}

func (repo *Repository[T]) get(ctx context.Context, query string, args map[string]any, dest any) error {
	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
