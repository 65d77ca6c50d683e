/*
Package journal appends one JSON line per completed pipeline run.

Each Append opens the file in append mode, writes a single line and closes
it again, so concurrent processes never hold the file open between runs.
Appends from one process are serialised by a mutex.
*/
package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPath is the journal file used when none is configured.
const DefaultPath = "learning_log.jsonl"

// Timestamps are local time with no zone. The microsecond fraction is
// omitted when it is zero.
const (
	TimestampLayout       = "2006-01-02T15:04:05.000000"
	WholeSecondTimeLayout = "2006-01-02T15:04:05"
)

// maxLineSize bounds a single journal line when reading.
const maxLineSize = 1 << 20

// Entry is one journal line.
type Entry struct {
	Timestamp     string  `json:"timestamp"`
	LatestSales   float64 `json:"latest_sales"`
	Anomaly       bool    `json:"anomaly"`
	ZScore        float64 `json:"z_score"`
	ForecastSales float64 `json:"forecast_sales"`
	Decision      string  `json:"decision"`
}

// Time parses the entry timestamp in the local zone, with or without
// the fractional part.
func (e Entry) Time() (time.Time, error) {
	return time.ParseInLocation(WholeSecondTimeLayout, e.Timestamp, time.Local)
}

// Journal is an append-only JSONL file.
type Journal struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// New creates a journal writing to path. An empty path uses DefaultPath.
func New(path string, logger *zap.Logger) *Journal {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Stamp returns the current time formatted for an entry.
func (j *Journal) Stamp() string {
	return FormatTimestamp(j.now())
}

// FormatTimestamp renders t in TimestampLayout, or in WholeSecondTimeLayout
// when its microsecond part is zero.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(WholeSecondTimeLayout)
	}
	return t.Format(TimestampLayout)
}

// Append writes entry as a single line. A blank Timestamp is filled in.
func (j *Journal) Append(entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = j.Stamp()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write journal entry: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}

	return nil
}

// Recent returns up to limit of the most recent entries, oldest first.
// A limit of zero or less returns every entry. Malformed lines are skipped
// and a missing file yields no entries.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			j.logger.Debug("skipping malformed journal line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
