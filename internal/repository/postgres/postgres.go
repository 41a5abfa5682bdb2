package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
	repository.ReservationRepository
	repository.VehicleRepository
	repository.PartyRepository
}

type Option func(*Store)

// WithLockTimeout bounds how long a unit of work waits for a row lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:                    db,
		ReservationRepository: NewReservationRepository(db),
		VehicleRepository:     NewVehicleRepository(db),
		PartyRepository:       NewPartyRepository(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Reservations: s.ReservationRepository,
		Vehicles:     s.VehicleRepository,
		Parties:      s.PartyRepository,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	repos := repository.Repositories{
		Reservations: NewReservationRepository(tx),
		Vehicles:     newVehicleRepository(tx, true),
		Parties:      NewPartyRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}
