package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Airline, error)
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PGAirlineRepository) GetByCode(ctx context.Context, code string) (*domain.Airline, error) {
	sqlStr, args, err := r.sb.Select("id", "code", "name").From("airlines").Where(sq.Eq{"code": code}).ToSql()
	if err != nil {
		return nil, err
	}

	var a domain.Airline
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&a.ID, &a.Code, &a.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "airline", Key: code}
		}
		return nil, err
	}
	return &a, nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
