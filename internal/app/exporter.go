package app

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"verb-quiz-portal/internal/domain"
)

// Export serializes the records matching the week filter as CSV with the
// results log's column schema, and returns a suggested download filename.
// An empty filtered set still yields a header-only CSV; callers decide
// whether an entirely absent store should instead surface ErrNoResults.
func Export(records []domain.ResultRecord, week string) ([]byte, string) {
	filtered := filterByWeek(records, week)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(domain.ResultColumns[:])
	for _, rec := range filtered {
		_ = w.Write([]string{
			rec.Date.Format(domain.RecordTimeLayout),
			rec.Student,
			strconv.FormatFloat(rec.Score, 'f', 2, 64),
			rec.Week,
			rec.StudentID,
		})
	}
	w.Flush()

	name := "quiz_results_all_weeks.csv"
	if week != domain.FilterAll {
		name = "quiz_results_" + strings.ReplaceAll(week, " ", "_") + ".csv"
	}
	return buf.Bytes(), name
}
