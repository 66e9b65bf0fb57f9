package implementation

import (
	"context"
	"testing"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/internal/repository/specification"
	"starter-coach-be/pkg/eventlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// closedRepository is backed by a pool that was closed before any query, so
// every statement fails without a server.
func closedRepository(t *testing.T) *CompletionEventRepositoryImpl {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=coach dbname=coach sslmode=disable",
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	return NewCompletionEventRepository(db, logger.NewNopLogger())
}

func TestCompletionEventRepository_QueryFailureReadsAsAbsent(t *testing.T) {
	repo := closedRepository(t)

	table, ok := repo.ReadAll(context.Background(), time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
	assert.Nil(t, table)

	_, err := repo.Count(context.Background(), specification.ByVariant{Variant: "A"})
	assert.Error(t, err)
}

func TestCompletionEventRepository_InsertFailureIsStorageWriteError(t *testing.T) {
	repo := closedRepository(t)
	day := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	err := repo.Append(context.Background(), entity.CompletionEvent{
		SessionID:  "sid-1",
		Timestamp:  day,
		GoalType:   "portfolio",
		TimeBudget: "10-minute",
		TaskID:     "pf_goal",
		Variant:    entity.VariantA,
		Done:       1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, eventlog.ErrStorageWrite)

	var writeErr *eventlog.StorageWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "insert", writeErr.Op)
	assert.Equal(t, "starter_log_2026-10-15.csv", writeErr.Partition)
}
