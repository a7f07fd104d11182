package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"simaru/infras/otel"
	"simaru/infras/postgres"
	"simaru/internal/domains/dashboard/model"
	"simaru/shared/constant"
	"simaru/shared/logger"
	"time"
)

type Dashboard interface {
	Totals(ctx context.Context) (model.Totals, error)
	RoomsByStatus(ctx context.Context) ([]model.StatusCount, error)
	// DailyCounts groups the rows of table created since the given instant by calendar day in loc.
	DailyCounts(ctx context.Context, table string, since time.Time, loc *time.Location) ([]model.DailyCount, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Dashboard {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (repo *repositoryImpl) Totals(ctx context.Context) (res model.Totals, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".Totals")
	defer scope.End()

	query := model.TotalsQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := repo.db.Read.GetContext(ctx, &res, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return res, fmt.Errorf("failed to count totals: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) RoomsByStatus(ctx context.Context) (res []model.StatusCount, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".RoomsByStatus")
	defer scope.End()

	query := model.RoomStatusQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := repo.db.Read.SelectContext(ctx, &res, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count rooms by status: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) DailyCounts(ctx context.Context, table string, since time.Time, loc *time.Location) (res []model.DailyCount, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".DailyCounts")
	defer scope.End()

	query := model.DailyCountQuery(table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := repo.db.Read.SelectContext(ctx, &res, query, loc.String(), since); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count %s per day: %w", table, err)
	}

	return res, nil
}
