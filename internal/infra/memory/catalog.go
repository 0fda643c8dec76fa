package memory

import (
	"context"

	"verb-quiz-portal/internal/domain"
)

// StaticCatalogLoader serves a fixed quiz catalog (useful for tests/demos).
type StaticCatalogLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticCatalogLoader(quizzes map[string]domain.Quiz) *StaticCatalogLoader {
	return &StaticCatalogLoader{quizzes: quizzes}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	return domain.NewCatalog(l.quizzes), nil
}
