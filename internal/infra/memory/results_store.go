package memory

import (
	"context"
	"sync"

	"verb-quiz-portal/internal/domain"
)

// ResultsStore is an in-memory implementation of app.ResultsStore, used by
// tests and as a scratch store for local development.
type ResultsStore struct {
	mu      sync.RWMutex
	records []domain.ResultRecord
}

func NewResultsStore() *ResultsStore {
	return &ResultsStore{}
}

func (s *ResultsStore) Append(_ context.Context, rec domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *ResultsStore) ReadAll(_ context.Context) ([]domain.ResultRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResultRecord, len(s.records))
	copy(out, s.records)
	return out, 0, nil
}

func (s *ResultsStore) ReadByWeek(_ context.Context, week string) ([]domain.ResultRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResultRecord, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Week == week {
			out = append(out, rec)
		}
	}
	return out, 0, nil
}
