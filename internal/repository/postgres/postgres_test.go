package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonsense/backend/internal/domain"
)

// Runs against a real database only when TEST_DATABASE_URL is set
func newTestRepository(t *testing.T) *PostgresRepository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewPostgresRepository(pool)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestPostgresRepository_AppendAndPrune(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < domain.MaxActivityEntries+2; i++ {
		require.NoError(t, repo.Append(ctx, key, domain.ActivityEntry{
			ID:   uuid.NewString(),
			Type: "commute",
			CO2:  float64(i),
			Date: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	entries, err := repo.Recent(ctx, key, domain.MaxActivityEntries)
	require.NoError(t, err)
	require.Len(t, entries, domain.MaxActivityEntries)
	assert.Equal(t, 2.0, entries[0].CO2)
	assert.Equal(t, float64(domain.MaxActivityEntries+1), entries[len(entries)-1].CO2)
	assert.True(t, entries[0].Date.Equal(base.Add(2*time.Hour)))

	assert.NoError(t, repo.Health(ctx))
}
