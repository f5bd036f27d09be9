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

// FlightFilter narrows the upcoming-flight listing. From and To are matched
// as case-insensitive substrings against city, country and airport name of
// the departure and arrival side respectively.
type FlightFilter struct {
	DepartingAfter time.Time
	OnDate         *time.Time
	From           string
	To             string
}

type FlightRepository interface {
	// Create inserts one flight. It reports false when the row was skipped
	// because a flight with the same airline, number and departure date
	// already exists.
	Create(ctx context.Context, flight *domain.Flight) (bool, error)
	// CreateBatch inserts flights in one transaction and returns the rows
	// actually created, in input order. Duplicate-schedule rows are skipped.
	CreateBatch(ctx context.Context, flights []*domain.Flight) ([]domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	Filter(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	ListByAirline(ctx context.Context, airlineCode, flightNumber string, onDate *time.Time) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var flightColumns = []string{
	"id", "airline_code", "flight_number", "departure_airport", "arrival_airport",
	"expected_departure", "expected_arrival", "departure", "arrival", "created_at", "updated_at",
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// airportMatches is the OR-across-three-fields substring predicate used by
// the from/to filters.
func airportMatches(alias, term string) sq.Sqlizer {
	pattern := "%" + term + "%"
	return sq.Or{
		sq.ILike{alias + ".city": pattern},
		sq.ILike{alias + ".country": pattern},
		sq.ILike{alias + ".name": pattern},
	}
}

// departsOn matches a timestamp column against a calendar date.
func departsOn(column string, day time.Time) sq.Sqlizer {
	return sq.Expr(column+"::date = ?::date", day)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	created, err := r.insertTx(ctx, tx, flight)
	if err != nil {
		return false, err
	}
	return created, tx.Commit(ctx)
}

func (r *PGFlightRepository) CreateBatch(ctx context.Context, flights []*domain.Flight) ([]domain.Flight, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]domain.Flight, 0, len(flights))
	for _, flight := range flights {
		ok, err := r.insertTx(ctx, tx, flight)
		if err != nil {
			return nil, err
		}
		if ok {
			created = append(created, *flight)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// insertTx relies on the (airline_code, flight_number, departure_date)
// unique index: conflicting rows are dropped silently so schedule re-runs
// stay idempotent.
func (r *PGFlightRepository) insertTx(ctx context.Context, tx pgx.Tx, flight *domain.Flight) (bool, error) {
	query := r.sb.Insert("flights").
		Columns("id", "airline_code", "flight_number", "departure_airport", "arrival_airport", "expected_departure", "expected_arrival").
		Values(flight.ID, flight.AirlineCode, flight.FlightNumber, flight.DepartureAirport, flight.ArrivalAirport, flight.ExpectedDeparture, flight.ExpectedArrival).
		Suffix("ON CONFLICT (airline_code, flight_number, departure_date) DO NOTHING RETURNING created_at, updated_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert flight sql: %w", err)
	}

	err = tx.QueryRow(ctx, sqlStr, args...).Scan(&flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert flight: %w", err)
	}
	return true, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	sqlStr, args, err := r.sb.Select(flightColumns...).From("flights").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var f domain.Flight
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&f.ID, &f.AirlineCode, &f.FlightNumber, &f.DepartureAirport, &f.ArrivalAirport,
		&f.ExpectedDeparture, &f.ExpectedArrival, &f.Departure, &f.Arrival, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "flight", Key: id.String()}
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Filter(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query := r.sb.Select(prefixed("f", flightColumns)...).
		From("flights f").
		Join("airports dep ON dep.code = f.departure_airport").
		Join("airports arr ON arr.code = f.arrival_airport").
		Where(sq.GtOrEq{"f.expected_departure": filter.DepartingAfter}).
		OrderBy("f.expected_departure")

	if filter.OnDate != nil {
		query = query.Where(departsOn("f.expected_departure", *filter.OnDate))
	}
	if filter.From != "" {
		query = query.Where(airportMatches("dep", filter.From))
	}
	if filter.To != "" {
		query = query.Where(airportMatches("arr", filter.To))
	}

	return r.queryFlights(ctx, query)
}

func (r *PGFlightRepository) ListByAirline(ctx context.Context, airlineCode, flightNumber string, onDate *time.Time) ([]domain.Flight, error) {
	query := r.sb.Select(prefixed("f", flightColumns)...).
		From("flights f").
		Where(sq.Eq{"f.airline_code": airlineCode}).
		OrderBy("f.expected_departure")

	if flightNumber != "" {
		query = query.Where(sq.Eq{"f.flight_number": flightNumber})
	}
	if onDate != nil {
		query = query.Where(departsOn("f.expected_departure", *onDate))
	}

	return r.queryFlights(ctx, query)
}

func (r *PGFlightRepository) queryFlights(ctx context.Context, query sq.SelectBuilder) ([]domain.Flight, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build flight query sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(
			&f.ID, &f.AirlineCode, &f.FlightNumber, &f.DepartureAirport, &f.ArrivalAirport,
			&f.ExpectedDeparture, &f.ExpectedArrival, &f.Departure, &f.Arrival, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
