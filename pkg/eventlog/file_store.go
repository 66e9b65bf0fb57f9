package eventlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/pkg/logger"
)

const (
	partitionPrefix = "starter_log_"
	partitionSuffix = ".csv"
	dayLayout       = "2006-01-02"

	// utf8BOM lets spreadsheet tools detect the encoding.
	utf8BOM = "\ufeff"
)

// FileStore keeps one CSV file per UTC day in dir.
type FileStore struct {
	dir    string
	locks  *mutexMap
	logger logger.ILogger
}

func NewFileStore(dir string, log logger.ILogger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &FileStore{
		dir:    dir,
		locks:  newMutexMap(),
		logger: log,
	}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// PartitionFileName is starter_log_<YYYY-MM-DD>.csv for day's UTC date.
func PartitionFileName(day time.Time) string {
	return partitionPrefix + day.UTC().Format(dayLayout) + partitionSuffix
}

// ParsePartitionFileName reports the day encoded in a partition file name.
func ParsePartitionFileName(name string) (time.Time, bool) {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, partitionPrefix) || !strings.HasSuffix(base, partitionSuffix) {
		return time.Time{}, false
	}
	day, err := time.Parse(dayLayout, strings.TrimSuffix(strings.TrimPrefix(base, partitionPrefix), partitionSuffix))
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func (s *FileStore) PartitionPath(day time.Time) string {
	return filepath.Join(s.dir, PartitionFileName(day))
}

func (s *FileStore) Append(ctx context.Context, event entity.CompletionEvent) error {
	path := s.PartitionPath(event.Day())

	line, err := encodeRecord(eventRecord(event))
	if err != nil {
		return &StorageWriteError{Partition: path, Op: "encode", Err: err}
	}
	header, err := encodeRecord(Columns)
	if err != nil {
		return &StorageWriteError{Partition: path, Op: "encode", Err: err}
	}
	header = append([]byte(utf8BOM), header...)

	s.locks.Lock(path)
	defer s.locks.Unlock(path)

	// O_EXCL makes exactly one writer the creator of the partition; only the
	// creator emits the header. BOM, header and first row go out in one write.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case err == nil:
		line = append(header, line...)
	case errors.Is(err, fs.ErrExist):
		f, err = os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0o644)
		if err != nil {
			return &StorageWriteError{Partition: path, Op: "open", Err: err}
		}
		size, err := s.dropTornTail(f, path)
		if err != nil {
			f.Close()
			return &StorageWriteError{Partition: path, Op: "repair", Err: err}
		}
		// A zero-length file means a creator died before writing; finish its job.
		if size == 0 {
			line = append(header, line...)
		}
	default:
		return &StorageWriteError{Partition: path, Op: "create", Err: err}
	}

	if _, err := f.Write(line); err != nil {
		f.Close()
		return &StorageWriteError{Partition: path, Op: "write", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &StorageWriteError{Partition: path, Op: "sync", Err: err}
	}
	if err := f.Close(); err != nil {
		return &StorageWriteError{Partition: path, Op: "close", Err: err}
	}
	return nil
}

// dropTornTail truncates a trailing partial record left by an interrupted
// write and returns the resulting size. Those bytes belong to an Append that
// already reported failure.
func (s *FileStore) dropTornTail(f *os.File, path string) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := info.Size()
	keep, err := completeLength(f, size)
	if err != nil {
		return 0, err
	}
	if keep == size {
		return size, nil
	}
	if err := f.Truncate(keep); err != nil {
		return 0, err
	}
	s.logger.Warn("EventLog", "Dropped torn record at end of partition", map[string]interface{}{
		"partition": path,
		"bytes":     size - keep,
	})
	return keep, nil
}

// completeLength is the offset just past the last newline in the first size
// bytes of f, or 0 when there is none.
func completeLength(f *os.File, size int64) (int64, error) {
	const chunkSize = 4096
	buf := make([]byte, chunkSize)
	for end := size; end > 0; {
		start := end - chunkSize
		if start < 0 {
			start = 0
		}
		chunk := buf[:end-start]
		if _, err := f.ReadAt(chunk, start); err != nil {
			return 0, err
		}
		if i := bytes.LastIndexByte(chunk, '\n'); i >= 0 {
			return start + int64(i) + 1, nil
		}
		end = start
	}
	return 0, nil
}

func (s *FileStore) ReadAll(ctx context.Context, day time.Time) (*Table, bool) {
	path := s.PartitionPath(day)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("EventLog", "Partition unreadable, treating as absent", map[string]interface{}{
				"partition": path,
				"error":     err.Error(),
			})
		}
		return nil, false
	}

	table, err := decodeTable(data, entity.TruncateDay(day))
	if err != nil {
		s.logger.Warn("EventLog", "Partition corrupt, treating as absent", map[string]interface{}{
			"partition": path,
			"error":     err.Error(),
		})
		return nil, false
	}
	if table.Len() == 0 {
		return nil, false
	}
	return table, true
}

func eventRecord(e entity.CompletionEvent) []string {
	return []string{
		e.SessionID,
		FormatTimestamp(e.Timestamp),
		e.GoalType,
		e.TimeBudget,
		e.TaskID,
		string(e.Variant),
		strconv.Itoa(e.Done),
	}
}

func encodeRecord(record []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(record); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeTable(data []byte, day time.Time) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	table := &Table{Day: day}
	if len(records) == 0 {
		return table, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("header is missing column %q", col)
		}
	}

	table.Rows = make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		done, err := strconv.Atoi(strings.TrimSpace(rec[index["done"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid done value %q", n+1, rec[index["done"]])
		}
		raw := rec[index["ts"]]
		ts, _ := ParseTimestamp(strings.TrimSpace(raw))
		table.Rows = append(table.Rows, Row{
			SessionID:    rec[index["sid"]],
			Timestamp:    ts,
			RawTimestamp: raw,
			GoalType:     rec[index["goal_type"]],
			TimeBudget:   rec[index["time_budget"]],
			TaskID:       rec[index["task_id"]],
			Variant:      entity.Variant(rec[index["variant"]]),
			Done:         done,
		})
	}
	return table, nil
}
