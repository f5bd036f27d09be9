package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationFilter narrows the reservation listing. FlightNumber and OnDate
// match either leg; PeriodStart/PeriodEnd bound the first leg's departure.
// Soft-deleted rows are always excluded.
type ReservationFilter struct {
	AccountID    *uuid.UUID
	FlightNumber string
	OnDate       *time.Time
	PeriodStart  *time.Time
	PeriodEnd    *time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	Filter(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
	// DueReminders returns active reservations with either leg departing in
	// [start, end) that have not been reminded yet.
	DueReminders(ctx context.Context, start, end time.Time) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var reservationColumns = []string{
	"id", "author_id", "first_flight_id", "return_flight_id",
	"ticket_type", "flight_class", "reminder_sent", "created_at", "updated_at", "deleted_at",
}

// legMatchesNumber matches a flight number against either leg.
func legMatchesNumber(number string) sq.Sqlizer {
	return sq.Or{
		sq.Eq{"ff.flight_number": number},
		sq.Eq{"rf.flight_number": number},
	}
}

// legDepartsOn matches a calendar date against either leg's departure.
func legDepartsOn(day time.Time) sq.Sqlizer {
	return sq.Or{
		departsOn("ff.expected_departure", day),
		departsOn("rf.expected_departure", day),
	}
}

// legDepartsWithin bounds either leg's departure to [start, end).
func legDepartsWithin(start, end time.Time) sq.Sqlizer {
	return sq.Or{
		sq.And{sq.GtOrEq{"ff.expected_departure": start}, sq.Lt{"ff.expected_departure": end}},
		sq.And{sq.GtOrEq{"rf.expected_departure": start}, sq.Lt{"rf.expected_departure": end}},
	}
}

func (r *PGReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := r.sb.Insert("reservations").
		Columns("id", "author_id", "first_flight_id", "return_flight_id", "ticket_type", "flight_class").
		Values(reservation.ID, reservation.AuthorID, reservation.FirstFlightID, reservation.ReturnFlightID, reservation.TicketType, reservation.FlightClass).
		Suffix("RETURNING created_at, updated_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert reservation sql: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	sqlStr, args, err := r.sb.Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var res domain.Reservation
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&res.ID, &res.AuthorID, &res.FirstFlightID, &res.ReturnFlightID,
		&res.TicketType, &res.FlightClass, &res.ReminderSent, &res.CreatedAt, &res.UpdatedAt, &res.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "reservation", Key: id.String()}
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGReservationRepository) Filter(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error) {
	query := r.sb.Select(prefixed("r", reservationColumns)...).
		From("reservations r").
		Join("flights ff ON ff.id = r.first_flight_id").
		LeftJoin("flights rf ON rf.id = r.return_flight_id").
		Where(sq.Eq{"r.deleted_at": nil}).
		OrderBy("r.created_at")

	if filter.AccountID != nil {
		query = query.Where(sq.Eq{"r.author_id": *filter.AccountID})
	}
	if filter.FlightNumber != "" {
		query = query.Where(legMatchesNumber(filter.FlightNumber))
	}
	if filter.OnDate != nil {
		query = query.Where(legDepartsOn(*filter.OnDate))
	}
	if filter.PeriodStart != nil && filter.PeriodEnd != nil {
		query = query.Where(legDepartsWithin(*filter.PeriodStart, *filter.PeriodEnd))
	}

	return r.queryReservations(ctx, query)
}

func (r *PGReservationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := r.sb.Update("reservations").
		Set("deleted_at", sq.Expr("now()")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "reservation", Key: id.String()}
	}
	return nil
}

func (r *PGReservationRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := r.sb.Update("reservations").
		Set("reminder_sent", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

func (r *PGReservationRepository) DueReminders(ctx context.Context, start, end time.Time) ([]domain.Reservation, error) {
	query := r.sb.Select(prefixed("r", reservationColumns)...).
		From("reservations r").
		Join("flights ff ON ff.id = r.first_flight_id").
		LeftJoin("flights rf ON rf.id = r.return_flight_id").
		Where(sq.Eq{"r.deleted_at": nil, "r.reminder_sent": false}).
		Where(legDepartsWithin(start, end)).
		OrderBy("r.created_at")

	return r.queryReservations(ctx, query)
}

func (r *PGReservationRepository) queryReservations(ctx context.Context, query sq.SelectBuilder) ([]domain.Reservation, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reservation query sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID, &res.AuthorID, &res.FirstFlightID, &res.ReturnFlightID,
			&res.TicketType, &res.FlightClass, &res.ReminderSent, &res.CreatedAt, &res.UpdatedAt, &res.DeletedAt,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
