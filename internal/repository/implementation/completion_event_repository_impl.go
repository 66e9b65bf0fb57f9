// FILE: internal/repository/implementation/completion_event_repository_impl.go
// GORM-backed completion log; also satisfies eventlog.EventLog
package implementation

import (
	"context"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/mapper"
	"starter-coach-be/internal/model"
	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/internal/repository/contract"
	"starter-coach-be/internal/repository/specification"
	"starter-coach-be/pkg/eventlog"

	"gorm.io/gorm"
)

type CompletionEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CompletionEventMapper
	logger logger.ILogger
}

var (
	_ contract.CompletionEventRepository = (*CompletionEventRepositoryImpl)(nil)
	_ eventlog.EventLog                  = (*CompletionEventRepositoryImpl)(nil)
)

func NewCompletionEventRepository(db *gorm.DB, log logger.ILogger) *CompletionEventRepositoryImpl {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &CompletionEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewCompletionEventMapper(),
		logger: log,
	}
}

// Migrate creates or updates the completion_events table.
func (r *CompletionEventRepositoryImpl) Migrate() error {
	return r.db.AutoMigrate(&model.CompletionEvent{})
}

func (r *CompletionEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CompletionEventRepositoryImpl) Create(ctx context.Context, event *entity.CompletionEvent) error {
	m := r.mapper.ToModel(event)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CompletionEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]eventlog.Row, error) {
	var models []*model.CompletionEvent
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CompletionEvent{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToRows(models), nil
}

func (r *CompletionEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CompletionEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CompletionEventRepositoryImpl) Append(ctx context.Context, event entity.CompletionEvent) error {
	if err := r.Create(ctx, &event); err != nil {
		return &eventlog.StorageWriteError{
			Partition: eventlog.PartitionFileName(event.Day()),
			Op:        "insert",
			Err:       err,
		}
	}
	return nil
}

func (r *CompletionEventRepositoryImpl) ReadAll(ctx context.Context, day time.Time) (*eventlog.Table, bool) {
	rows, err := r.FindAll(ctx,
		specification.ByLogDate{Day: day},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		r.logger.Warn("EventLog", "Partition query failed, treating as absent", map[string]interface{}{
			"day":   day.Format("2006-01-02"),
			"error": err.Error(),
		})
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	return &eventlog.Table{Day: entity.TruncateDay(day), Rows: rows}, true
}
