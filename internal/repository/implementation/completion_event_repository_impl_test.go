package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/internal/repository/specification"
	"starter-coach-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a real PostgreSQL: DB_CONNECTION_STRING=... go test ./...
func TestCompletionEventRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	repo := NewCompletionEventRepository(db, logger.NewNopLogger())
	require.NoError(t, repo.Migrate())

	ctx := context.Background()
	// A far-future day keeps this test away from real data.
	day := time.Date(2199, 1, 1, 0, 0, 0, 0, time.UTC)
	sid := uuid.NewString()

	defer db.Exec("DELETE FROM completion_events WHERE session_id = ?", sid)

	_, ok := repo.ReadAll(ctx, day)
	assert.False(t, ok)

	for i, variant := range []entity.Variant{entity.VariantA, entity.VariantB, entity.VariantA} {
		require.NoError(t, repo.Append(ctx, entity.CompletionEvent{
			SessionID:  sid,
			Timestamp:  day.Add(time.Duration(i) * time.Hour),
			GoalType:   "portfolio",
			TimeBudget: "10-minute",
			TaskID:     "pf_goal",
			Variant:    variant,
			Done:       1,
		}))
	}

	table, ok := repo.ReadAll(ctx, day)
	require.True(t, ok)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, entity.VariantB, table.Rows[1].Variant)

	count, err := repo.Count(ctx, specification.ByLogDate{Day: day}, specification.ByVariant{Variant: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
