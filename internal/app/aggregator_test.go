package app_test

import (
	"fmt"
	"testing"
	"time"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/domain"
)

func record(student, week string, score float64, minute int) domain.ResultRecord {
	return domain.ResultRecord{
		Date:      time.Date(2026, time.September, 1, 9, minute, 0, 0, time.UTC),
		Student:   student,
		Score:     score,
		Week:      week,
		StudentID: "id-" + student,
	}
}

func TestAggregateEmptySet(t *testing.T) {
	report := app.Aggregate(nil, domain.FilterAll)
	if report.TotalStudents != 0 || report.TotalAttempts != 0 {
		t.Fatalf("expected zero totals, got %+v", report)
	}
	if report.AverageScore != nil {
		t.Fatalf("expected absent mean over empty set, got %v", *report.AverageScore)
	}
	if report.PassingRate != 0 {
		t.Fatalf("expected pass rate 0 over empty set, got %v", report.PassingRate)
	}
}

func TestAggregatePassRate(t *testing.T) {
	records := []domain.ResultRecord{
		record("Alice", "week1", 40, 1),
		record("Bob", "week1", 70, 2),
		record("Cara", "week1", 100, 3),
	}
	report := app.Aggregate(records, domain.FilterAll)
	if report.TotalPassing != 2 {
		t.Fatalf("expected 2 passing, got %d", report.TotalPassing)
	}
	if report.PassingRate != 66.7 {
		t.Fatalf("expected pass rate 66.7, got %v", report.PassingRate)
	}
	if report.AverageScore == nil || *report.AverageScore != 70.0 {
		t.Fatalf("expected mean 70.0, got %v", report.AverageScore)
	}
	if report.TotalStudents != 3 {
		t.Fatalf("expected 3 students, got %d", report.TotalStudents)
	}
}

func TestAggregateWeekFilterDoesNotLeak(t *testing.T) {
	records := []domain.ResultRecord{
		record("Alice", "week1", 80, 1),
		record("Bob", "week2", 90, 2),
		record("Alice", "week2", 60, 3),
	}
	report := app.Aggregate(records, "week1")
	if report.TotalAttempts != 1 {
		t.Fatalf("expected 1 attempt for week1, got %d", report.TotalAttempts)
	}
	if len(report.Students) != 1 || report.Students[0].Student != "Alice" {
		t.Fatalf("expected only Alice in the week1 rollup, got %+v", report.Students)
	}
	if report.Students[0].MeanScore != 80.0 || report.Students[0].Weeks != "week1" {
		t.Fatalf("week2 records leaked into the week1 rollup: %+v", report.Students[0])
	}
	// The week selector still lists every week in the store.
	if len(report.AllWeeks) != 2 || report.AllWeeks[0] != "week1" || report.AllWeeks[1] != "week2" {
		t.Fatalf("expected sorted all-weeks list, got %v", report.AllWeeks)
	}
}

func TestAggregateRecentResults(t *testing.T) {
	var records []domain.ResultRecord
	for i := 0; i < 12; i++ {
		records = append(records, record(fmt.Sprintf("Student%02d", i), "week1", 50, i))
	}
	report := app.Aggregate(records, domain.FilterAll)
	if len(report.Recent) != 10 {
		t.Fatalf("expected 10 recent results, got %d", len(report.Recent))
	}
	// Last 10 of the store, newest first: minutes 11 down to 2.
	if report.Recent[0].Date.Minute() != 11 || report.Recent[9].Date.Minute() != 2 {
		t.Fatalf("expected recent sorted newest first over the store tail, got %v .. %v",
			report.Recent[0].Date, report.Recent[9].Date)
	}
}

func TestAggregateRecentKeepsStoreOrderOnTies(t *testing.T) {
	records := []domain.ResultRecord{
		record("First", "week1", 10, 5),
		record("Second", "week1", 20, 5),
	}
	report := app.Aggregate(records, domain.FilterAll)
	if report.Recent[0].Student != "First" || report.Recent[1].Student != "Second" {
		t.Fatalf("expected stable order for equal timestamps, got %+v", report.Recent)
	}
}

func TestAggregateStudentRollups(t *testing.T) {
	records := []domain.ResultRecord{
		record("Alice", "week2", 85, 1),
		record("Bob", "week1", 60, 2),
		record("Alice", "week1", 90, 3),
		record("Bob", "week1", 70, 4),
	}
	report := app.Aggregate(records, domain.FilterAll)
	if len(report.Students) != 2 {
		t.Fatalf("expected 2 rollup rows, got %d", len(report.Students))
	}
	alice := report.Students[0]
	if alice.Student != "Alice" {
		t.Fatalf("expected rollups sorted by mean descending, got %+v", report.Students)
	}
	if alice.MeanScore != 87.5 || alice.Attempts != 2 {
		t.Fatalf("unexpected Alice rollup: %+v", alice)
	}
	if alice.Weeks != "week1, week2" {
		t.Fatalf("expected sorted comma-joined weeks, got %q", alice.Weeks)
	}
	if report.Students[1].MeanScore != 65.0 {
		t.Fatalf("unexpected Bob rollup: %+v", report.Students[1])
	}
}

func TestAggregateGroupsByDisplayName(t *testing.T) {
	// Two accounts sharing a display name collapse into one row; this is the
	// portal's historical grouping behavior.
	records := []domain.ResultRecord{
		{Date: time.Now(), Student: "Alice", Score: 100, Week: "week1", StudentID: "id-1"},
		{Date: time.Now(), Student: "Alice", Score: 50, Week: "week2", StudentID: "id-2"},
	}
	report := app.Aggregate(records, domain.FilterAll)
	if report.TotalStudents != 1 {
		t.Fatalf("expected same-name accounts to collapse, got %d students", report.TotalStudents)
	}
	if report.Students[0].MeanScore != 75.0 || report.Students[0].Attempts != 2 {
		t.Fatalf("unexpected collapsed rollup: %+v", report.Students[0])
	}
}

func TestAggregateMeanRounding(t *testing.T) {
	records := []domain.ResultRecord{
		record("Alice", "week1", 33.33, 1),
		record("Alice", "week1", 33.34, 2),
		record("Alice", "week1", 33.34, 3),
	}
	report := app.Aggregate(records, domain.FilterAll)
	if report.AverageScore == nil || *report.AverageScore != 33.34 {
		t.Fatalf("expected mean rounded to 2 decimals, got %v", report.AverageScore)
	}
}
