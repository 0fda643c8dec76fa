package file

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"verb-quiz-portal/internal/domain"
)

const dueDateLayout = "2006-01-02"

// quizDef matches the quizzes.json definition format:
// {"week1": {"due_date": "2025-01-06", "verbs": {"run": {"v1": ...}}}}
type quizDef struct {
	DueDate string                      `json:"due_date"`
	Verbs   map[string]domain.VerbForms `json:"verbs"`
}

// CatalogLoader builds the immutable quiz catalog from a JSON definition
// file. A missing or malformed file yields an empty catalog with a logged
// diagnostic rather than an error; the portal then simply lists no quizzes.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

func (l *CatalogLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		log.Printf("quiz catalog %s not readable: %v", l.path, err)
		return domain.NewCatalog(nil), nil
	}

	var defs map[string]quizDef
	if err := json.Unmarshal(data, &defs); err != nil {
		log.Printf("quiz catalog %s is not valid JSON: %v", l.path, err)
		return domain.NewCatalog(nil), nil
	}

	quizzes := make(map[string]domain.Quiz, len(defs))
	for id, def := range defs {
		due, err := time.Parse(dueDateLayout, def.DueDate)
		if err != nil {
			log.Printf("quiz %s skipped: bad due_date %q: %v", id, def.DueDate, err)
			continue
		}
		verbs := make([]domain.VerbEntry, 0, len(def.Verbs))
		for verb, forms := range def.Verbs {
			verbs = append(verbs, domain.VerbEntry{Verb: verb, Forms: forms})
		}
		quizzes[id] = domain.Quiz{ID: id, DueDate: due, Verbs: verbs}
	}
	return domain.NewCatalog(quizzes), nil
}
