package repository

//go:generate go run go.uber.org/mock/mockgen -source=./detail.go -destination=../mocks/detail_mock.go -package=mocks

import (
	"context"
	"fmt"
	"simaru/infras/otel"
	"simaru/infras/postgres"
	"simaru/internal/domains/booking/model"
	"simaru/shared/constant"
	gDto "simaru/shared/dto"
	gRepo "simaru/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Detail interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BookingDetail, error)
	// GetByBookingTx reads the details of a booking and locks them until the transaction ends.
	GetByBookingTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string) ([]model.BookingDetail, error)
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.BookingDetail) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type detailRepositoryImpl struct {
	gRepo.Repository[model.BookingDetail]
	otel otel.Otel
}

func NewDetail(db *postgres.Connection, otel otel.Otel) Detail {
	return &detailRepositoryImpl{
		Repository: gRepo.NewRepository[model.BookingDetail](model.DetailEntityName, model.DetailTableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *detailRepositoryImpl) GetByBookingTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string) ([]model.BookingDetail, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.DetailEntityName+".GetByBookingTx")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: bookingID, Table: model.DetailTableName},
		},
	}

	order := gDto.QueryParams{SortBy: model.DetailTableName + "." + model.FieldStartTime, SortDir: gDto.SortDirAsc}

	details, err := repo.LockTx(ctx, sqltx, order, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get details of booking: %w", err)
	}

	return details, nil
}
