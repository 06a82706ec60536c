package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Stigz/eigernordvan/internal/ledger/migrations"
	"github.com/Stigz/eigernordvan/internal/trip"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore persists the ledger in the trip_ledger table.
type PostgresStore struct {
	db   db
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn, verifies the connection and applies pending
// migrations.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{db: pool, pool: pool}, nil
}

// NewPostgresStore wraps an existing connection. In tests pass a pgx.Tx so
// every test rolls back.
func NewPostgresStore(conn db) *PostgresStore {
	return &PostgresStore{db: conn}
}

// Migrate applies the embedded goose migrations through pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Append inserts one entry row.
func (s *PostgresStore) Append(ctx context.Context, entry trip.Entry) error {
	const q = `
		INSERT INTO trip_ledger
			(id, logged_at, user_name, start_km, end_km, delta_km, trip_cost_chf, event_type, ledger_comment)
		VALUES
			(@id::uuid, @logged_at, @user_name, @start_km, @end_km, @delta_km, @trip_cost_chf, @event_type, @ledger_comment)`

	args := pgx.NamedArgs{
		"id":             entry.ID,
		"logged_at":      entry.LoggedAt,
		"user_name":      entry.UserName,
		"start_km":       entry.StartKM,
		"end_km":         entry.EndKM,
		"delta_km":       entry.DeltaKM,
		"trip_cost_chf":  entry.TripCostCHF,
		"event_type":     entry.EventType,
		"ledger_comment": entry.Comment,
	}

	if _, err := s.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("ledger.PostgresStore.Append: %w", err)
	}
	return nil
}

// List returns the newest rows first, optionally for one user.
func (s *PostgresStore) List(ctx context.Context, q Query) ([]trip.Entry, error) {
	q = q.normalized()

	const sql = `
		SELECT id::text, logged_at, user_name, start_km, end_km, delta_km, trip_cost_chf, event_type, ledger_comment
		FROM trip_ledger
		WHERE @user_name = '' OR user_name = @user_name
		ORDER BY seq DESC
		LIMIT @limit`

	rows, err := s.db.Query(ctx, sql, pgx.NamedArgs{
		"user_name": q.UserName,
		"limit":     q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("ledger.PostgresStore.List: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (trip.Entry, error) {
		var e trip.Entry
		err := row.Scan(&e.ID, &e.LoggedAt, &e.UserName, &e.StartKM, &e.EndKM,
			&e.DeltaKM, &e.TripCostCHF, &e.EventType, &e.Comment)
		e.LoggedAt = e.LoggedAt.UTC()
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("ledger.PostgresStore.List: %w", err)
	}
	return entries, nil
}

// Close releases the pool when the store opened it.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
