package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewVehicleRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM vehicles WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "plate", "daily_rate_cents", "status", "updated_on"}).
			AddRow(3, "UTILITY", "ABC1D23", 15000, "AVAILABLE", time.Now()))

	v, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleKindUtility, v.Kind)
	assert.Equal(t, int64(15000), v.DailyRateCents)

	mock.ExpectQuery(`SELECT (.+) FROM vehicles WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_TryReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("WonOutsideTx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE vehicles SET status").
			WithArgs(domain.VehicleStatusReserved, sqlmock.AnyArg(), int64(3), domain.VehicleStatusAvailable).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := postgres.NewVehicleRepository(db).TryReserve(ctx, 3)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LostOutsideTx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE vehicles SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := postgres.NewVehicleRepository(db).TryReserve(ctx, 3)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SavepointInsideTx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("SET LOCAL lock_timeout = '2000ms'").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("^SAVEPOINT try_reserve$").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE vehicles SET status").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("RELEASE SAVEPOINT try_reserve").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		store := postgres.NewStore(db, postgres.WithLockTimeout(2*time.Second))
		var won bool
		err = store.WithinTx(ctx, func(tx repository.Repositories) error {
			var err error
			won, err = tx.Vehicles.TryReserve(ctx, 3)
			return err
		})
		require.NoError(t, err)
		assert.True(t, won)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LockTimeoutRollsBackToSavepoint", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("^SAVEPOINT try_reserve$").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE vehicles SET status").
			WillReturnError(&pq.Error{Code: "55P03", Message: "canceling statement due to lock timeout"})
		mock.ExpectExec("ROLLBACK TO SAVEPOINT try_reserve").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		store := postgres.NewStore(db)
		err = store.WithinTx(ctx, func(tx repository.Repositories) error {
			_, err := tx.Vehicles.TryReserve(ctx, 3)
			return err
		})
		assert.True(t, errors.Is(err, repository.ErrLockContention))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVehicleRepository_SetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewVehicleRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE vehicles SET status").
		WithArgs(domain.VehicleStatusRented, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetStatus(ctx, 3, domain.VehicleStatusRented))

	mock.ExpectExec("UPDATE vehicles SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SetStatus(ctx, 99, domain.VehicleStatusRented), domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
