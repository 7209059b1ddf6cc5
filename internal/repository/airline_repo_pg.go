package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Airline, error)
	List(ctx context.Context) ([]domain.Airline, error)
	// Create fails with ErrAlreadyExists when the code is taken.
	Create(ctx context.Context, airline *domain.Airline) error
	Update(ctx context.Context, airline *domain.Airline) error
	Delete(ctx context.Context, code string) error
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

func (r *PGAirlineRepository) GetByCode(ctx context.Context, code string) (*domain.Airline, error) {
	var a domain.Airline
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT code, name FROM airlines WHERE code=$1`, code).Scan(&a.Code, &a.Name)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *PGAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT code, name FROM airlines ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.Code, &a.Name); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO airlines (code, name) VALUES ($1, $2)`, airline.Code, airline.Name)
	if isUniqueViolation(err, "airlines_pkey") {
		return fmt.Errorf("airline %s: %w", airline.Code, ErrAlreadyExists)
	}
	return err
}

func (r *PGAirlineRepository) Update(ctx context.Context, airline *domain.Airline) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE airlines SET name=$2 WHERE code=$1`, airline.Code, airline.Name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGAirlineRepository) Delete(ctx context.Context, code string) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM airlines WHERE code=$1`, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
