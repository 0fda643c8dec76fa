package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"verb-quiz-portal/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

const dueDateLayout = "2006-01-02"

type quizDef struct {
	DueDate string                      `json:"due_date"`
	Verbs   map[string]domain.VerbForms `json:"verbs"`
}

// CatalogLoader loads quiz definitions stored as JSONB rows. The whole
// catalog is read once at startup; the table is the deployment's source of
// truth for quiz content.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, data FROM quizzes`)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	quizzes := make(map[string]domain.Quiz)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return domain.Catalog{}, fmt.Errorf("scan quiz row: %w", err)
		}
		var def quizDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return domain.Catalog{}, fmt.Errorf("unmarshal quiz %s: %w", id, err)
		}
		due, err := time.Parse(dueDateLayout, def.DueDate)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("quiz %s due_date: %w", id, err)
		}
		verbs := make([]domain.VerbEntry, 0, len(def.Verbs))
		for verb, forms := range def.Verbs {
			verbs = append(verbs, domain.VerbEntry{Verb: verb, Forms: forms})
		}
		quizzes[id] = domain.Quiz{ID: id, DueDate: due, Verbs: verbs}
	}
	if err := rows.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return domain.NewCatalog(quizzes), nil
}
