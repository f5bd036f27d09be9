package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

type PGAccountRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &PGAccountRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var accountColumns = []string{
	"id", "email", "first_name", "last_name", "role",
	"profile_picture_url", "profile_picture_public_id", "passport_number", "created_at", "updated_at",
}

const uniqueViolation = "23505"

func (r *PGAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := r.sb.Insert("accounts").
		Columns("id", "email", "first_name", "last_name", "role", "profile_picture_url", "profile_picture_public_id", "passport_number").
		Values(account.ID, account.Email, account.FirstName, account.LastName, account.Role,
			account.ProfilePictureURL, account.ProfilePicturePublicID, account.PassportNumber).
		Suffix("RETURNING created_at, updated_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			verr := &domain.ValidationError{}
			verr.Add("An account with this email already exists.", "unique", "email")
			return verr
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *PGAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	sqlStr, args, err := r.sb.Select(accountColumns...).From("accounts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var a domain.Account
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Role,
		&a.ProfilePictureURL, &a.ProfilePicturePublicID, &a.PassportNumber, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "account", Key: id.String()}
		}
		return nil, err
	}
	return &a, nil
}

var _ AccountRepository = (*PGAccountRepository)(nil)
