package app_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/domain"
)

func TestExportRoundTrip(t *testing.T) {
	records := []domain.ResultRecord{
		record("Alice", "week1", 87.5, 1),
		record("Bob", "week2", 40, 2),
	}
	data, name := app.Export(records, domain.FilterAll)
	if name != "quiz_results_all_weeks.csv" {
		t.Fatalf("unexpected filename %q", name)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse exported csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	for i, col := range domain.ResultColumns {
		if rows[0][i] != col {
			t.Fatalf("header mismatch at %d: %q", i, rows[0][i])
		}
	}
	want := [][]string{
		{"2026-09-01 09:01", "Alice", "87.50", "week1", "id-Alice"},
		{"2026-09-01 09:02", "Bob", "40.00", "week2", "id-Bob"},
	}
	for i, row := range rows[1:] {
		for j := range want[i] {
			if row[j] != want[i][j] {
				t.Fatalf("row %d col %d: got %q want %q", i, j, row[j], want[i][j])
			}
		}
	}
}

func TestExportFilteredFilename(t *testing.T) {
	records := []domain.ResultRecord{record("Alice", "week 1", 100, 1)}
	data, name := app.Export(records, "week 1")
	if name != "quiz_results_week_1.csv" {
		t.Fatalf("expected spaces replaced with underscores, got %q", name)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d (%v)", len(rows), err)
	}
}

func TestExportFilterMatchingNothingYieldsHeaderOnly(t *testing.T) {
	records := []domain.ResultRecord{record("Alice", "week1", 100, 1)}
	data, _ := app.Export(records, "week9")
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected header-only csv, got %d rows (%v)", len(rows), err)
	}
}
