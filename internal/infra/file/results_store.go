package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"verb-quiz-portal/internal/domain"
)

// ResultsStore is the CSV-file results log. Appends are serialized behind a
// mutex and each row is issued as a single O_APPEND write, so rows from
// concurrent in-process submissions cannot interleave. Cross-process
// deployments should use the postgres store instead.
type ResultsStore struct {
	path string
	mu   sync.Mutex
}

func NewResultsStore(path string) *ResultsStore {
	return &ResultsStore{path: path}
}

// Append adds one record to the log, creating the file with its header row
// on first use.
func (s *ResultsStore) Append(_ context.Context, rec domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open results log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat results log: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		_ = w.Write(domain.ResultColumns[:])
	}
	_ = w.Write([]string{
		rec.Date.Format(domain.RecordTimeLayout),
		rec.Student,
		strconv.FormatFloat(rec.Score, 'f', 2, 64),
		rec.Week,
		rec.StudentID,
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode result row: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append result row: %w", err)
	}
	return nil
}

// ReadAll returns every record in file order plus the number of malformed
// rows that were skipped. An absent log reads as empty: it just means no
// submissions yet.
func (s *ResultsStore) ReadAll(_ context.Context) ([]domain.ResultRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read results log: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parse results log: %w", err)
	}

	records := make([]domain.ResultRecord, 0, len(rows))
	malformed := 0
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == domain.ResultColumns[0] {
			continue // header
		}
		rec, ok := parseRow(row)
		if !ok {
			malformed++
			continue
		}
		records = append(records, rec)
	}
	return records, malformed, nil
}

// ReadByWeek full-scans the log and keeps records for one quiz identifier.
func (s *ResultsStore) ReadByWeek(ctx context.Context, week string) ([]domain.ResultRecord, int, error) {
	records, malformed, err := s.ReadAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	filtered := make([]domain.ResultRecord, 0, len(records))
	for _, rec := range records {
		if rec.Week == week {
			filtered = append(filtered, rec)
		}
	}
	return filtered, malformed, nil
}

func parseRow(row []string) (domain.ResultRecord, bool) {
	if len(row) < 5 {
		return domain.ResultRecord{}, false
	}
	date, err := time.Parse(domain.RecordTimeLayout, row[0])
	if err != nil {
		return domain.ResultRecord{}, false
	}
	score, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return domain.ResultRecord{}, false
	}
	return domain.ResultRecord{
		Date:      date,
		Student:   row[1],
		Score:     score,
		Week:      row[3],
		StudentID: row[4],
	}, true
}
