package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/dto"
	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/pkg/catalog"
	"starter-coach-be/pkg/dashboard"
	"starter-coach-be/pkg/eventlog"
	"starter-coach-be/pkg/events"
)

// ErrUnknownTask is returned when a completion names a task that is not in
// the requested catalog bucket.
var ErrUnknownTask = errors.New("task is not part of the selected goal and time budget")

// EventPublisher forwards domain events outside the process. *nats.Publisher
// implements it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ICompletionService interface {
	Record(ctx context.Context, session *entity.SessionContext, req *dto.CreateCompletionRequest) (*dto.CreateCompletionResponse, error)
	Summary(ctx context.Context, day time.Time) *dto.SummaryResponse
}

type CompletionOption func(*completionService)

// WithPartitionNotifier announces every successful append on the in-process
// bus so live dashboards refresh.
func WithPartitionNotifier(p IPublisherService) CompletionOption {
	return func(s *completionService) { s.notifier = p }
}

func WithEventPublisher(p EventPublisher) CompletionOption {
	return func(s *completionService) { s.eventPublisher = p }
}

func WithCompletionClock(now func() time.Time) CompletionOption {
	return func(s *completionService) { s.now = now }
}

type completionService struct {
	catalog        *catalog.Catalog
	eventLog       eventlog.EventLog
	aggregator     *dashboard.Aggregator
	notifier       IPublisherService
	eventPublisher EventPublisher
	logger         logger.ILogger
	now            func() time.Time
}

func NewCompletionService(
	c *catalog.Catalog,
	eventLog eventlog.EventLog,
	aggregator *dashboard.Aggregator,
	log logger.ILogger,
	opts ...CompletionOption,
) ICompletionService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	s := &completionService{
		catalog:    c,
		eventLog:   eventLog,
		aggregator: aggregator,
		logger:     log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends one completion row. The error from the log is returned
// unchanged so callers can match eventlog.ErrStorageWrite; nothing is
// announced unless the row is durable.
func (s *completionService) Record(ctx context.Context, session *entity.SessionContext, req *dto.CreateCompletionRequest) (*dto.CreateCompletionResponse, error) {
	if _, ok := s.catalog.Find(req.GoalType, req.TimeBudget, req.TaskId); !ok {
		return nil, ErrUnknownTask
	}

	event := entity.CompletionEvent{
		SessionID:  session.SessionID,
		Timestamp:  s.now().UTC(),
		GoalType:   req.GoalType,
		TimeBudget: req.TimeBudget,
		TaskID:     req.TaskId,
		Variant:    session.Variant,
		Done:       1,
	}

	if err := s.eventLog.Append(ctx, event); err != nil {
		s.logger.Error("CompletionService", "Failed to append completion", map[string]interface{}{
			"session_id": event.SessionID,
			"task_id":    event.TaskID,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.announce(ctx, event)

	return &dto.CreateCompletionResponse{
		SessionId:  event.SessionID,
		TaskId:     event.TaskID,
		Variant:    event.Variant,
		RecordedAt: event.Timestamp,
	}, nil
}

// announce is best effort: the row is already stored.
func (s *completionService) announce(ctx context.Context, event entity.CompletionEvent) {
	date := event.Day().Format(constant.DateLayout)

	if s.notifier != nil {
		payload, err := json.Marshal(dto.PartitionChangedMessage{Date: date})
		if err == nil {
			err = s.notifier.Publish(ctx, payload)
		}
		if err != nil {
			s.logger.Warn("CompletionService", "Failed to announce partition change", map[string]interface{}{
				"date":  date,
				"error": err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewCompletionRecorded(event)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("CompletionService", "Failed to publish completion event", map[string]interface{}{
				"type":  evt.Type,
				"error": err.Error(),
			})
		}
	}
}

func (s *completionService) Summary(ctx context.Context, day time.Time) *dto.SummaryResponse {
	day = entity.TruncateDay(day)
	table, ok := s.eventLog.ReadAll(ctx, day)
	return &dto.SummaryResponse{
		Date:    day.Format(constant.DateLayout),
		HasLogs: ok,
		Summary: s.aggregator.Summarize(table),
	}
}
