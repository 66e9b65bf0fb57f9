package eventlog

import (
	"context"
	"sync"
	"time"

	"starter-coach-be/internal/entity"
)

// MemoryStore keeps partitions in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions map[string][]Row
	writeErr   error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		partitions: make(map[string][]Row),
	}
}

// FailWrites makes every following Append fail with err wrapped in a
// StorageWriteError. Pass nil to restore normal behaviour.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

func (s *MemoryStore) Append(ctx context.Context, event entity.CompletionEvent) error {
	key := PartitionFileName(event.Day())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return &StorageWriteError{Partition: key, Op: "write", Err: s.writeErr}
	}
	s.partitions[key] = append(s.partitions[key], RowFromEvent(event))
	return nil
}

// AppendRow stores an already-shaped row, bypassing event validation. Tests
// use it to plant rows a real writer would never produce.
func (s *MemoryStore) AppendRow(day time.Time, row Row) {
	key := PartitionFileName(day)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitions[key] = append(s.partitions[key], row)
}

func (s *MemoryStore) ReadAll(ctx context.Context, day time.Time) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.partitions[PartitionFileName(day)]
	if len(rows) == 0 {
		return nil, false
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return &Table{Day: entity.TruncateDay(day), Rows: out}, true
}
