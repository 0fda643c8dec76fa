package postgres

import (
	"context"
	"fmt"
	"time"

	"verb-quiz-portal/internal/domain"
	"github.com/uptrace/bun"
)

type resultRow struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Date      time.Time `bun:"date,notnull"`
	Student   string    `bun:"student,notnull"`
	Score     float64   `bun:"score,notnull"`
	Week      string    `bun:"week,notnull"`
	StudentID string    `bun:"student_id,notnull"`
}

// ResultsStore is the postgres-backed results log. The serial primary key
// preserves insertion order, and the database's atomic inserts give the
// append the durability the CSV file cannot offer across processes.
type ResultsStore struct {
	db *bun.DB
}

func NewResultsStore(db *bun.DB) *ResultsStore {
	return &ResultsStore{db: db}
}

func (s *ResultsStore) Append(ctx context.Context, rec domain.ResultRecord) error {
	row := resultRow{
		Date:      rec.Date,
		Student:   rec.Student,
		Score:     rec.Score,
		Week:      rec.Week,
		StudentID: rec.StudentID,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultsStore) ReadAll(ctx context.Context) ([]domain.ResultRecord, int, error) {
	var rows []resultRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, 0, fmt.Errorf("select results: %w", err)
	}
	return toRecords(rows), 0, nil
}

func (s *ResultsStore) ReadByWeek(ctx context.Context, week string) ([]domain.ResultRecord, int, error) {
	var rows []resultRow
	err := s.db.NewSelect().Model(&rows).Where("week = ?", week).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("select results for %s: %w", week, err)
	}
	return toRecords(rows), 0, nil
}

func toRecords(rows []resultRow) []domain.ResultRecord {
	records := make([]domain.ResultRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.ResultRecord{
			Date:      row.Date,
			Student:   row.Student,
			Score:     row.Score,
			Week:      row.Week,
			StudentID: row.StudentID,
		})
	}
	return records
}
