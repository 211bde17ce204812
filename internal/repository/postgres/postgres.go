package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carbonsense/backend/internal/domain"
)

// PostgresRepository implements domain.ActivityRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the activity log table if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS activity_log (
			id          UUID PRIMARY KEY,
			log_key     TEXT NOT NULL,
			type        TEXT NOT NULL,
			co2         DOUBLE PRECISION NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL,
			seq         BIGSERIAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS activity_log_key_seq_idx ON activity_log (log_key, seq DESC);
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to migrate activity_log: %w", err)
	}
	return nil
}

// Append persists an entry and prunes the log beyond MaxActivityEntries
func (r *PostgresRepository) Append(ctx context.Context, key string, entry domain.ActivityEntry) error {
	insert := `
		INSERT INTO activity_log (id, log_key, type, co2, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	prune := `
		DELETE FROM activity_log
		WHERE log_key = $1 AND id NOT IN (
			SELECT id FROM activity_log
			WHERE log_key = $1
			ORDER BY seq DESC
			LIMIT $2
		)
	`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insert, entry.ID, key, entry.Type, entry.CO2, entry.Date); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, prune, key, domain.MaxActivityEntries)
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres: failed to append activity: %w", err)
	}

	return nil
}

// Recent retrieves the latest entries of a log, oldest first
func (r *PostgresRepository) Recent(ctx context.Context, key string, limit int) ([]domain.ActivityEntry, error) {
	query := `
		SELECT id::text, type, co2, recorded_at FROM (
			SELECT id, type, co2, recorded_at, seq
			FROM activity_log
			WHERE log_key = $1
			ORDER BY seq DESC
			LIMIT $2
		) latest
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query activities: %w", err)
	}
	defer rows.Close()

	var results []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.CO2, &e.Date); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan activity row: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read activity rows: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
