// FILE: internal/repository/contract/completion_event_repository.go
// Repository interface for the relational completion log
package contract

import (
	"context"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/repository/specification"
	"starter-coach-be/pkg/eventlog"
)

type CompletionEventRepository interface {
	Create(ctx context.Context, event *entity.CompletionEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]eventlog.Row, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
