package app

import (
	"math"
	"sort"
	"strings"

	"verb-quiz-portal/internal/domain"
)

const recentResultCount = 10

// Aggregate reduces a slice of result records into the teacher dashboard
// view. week filters records by quiz identifier (exact, case-sensitive);
// domain.FilterAll keeps everything. AllWeeks is always computed over the
// unfiltered set so the dashboard's week selector stays complete.
//
// Per-student rollups group by display name, not student ID: accounts that
// share a display name collapse into a single row. That matches the portal's
// historical behavior and is kept deliberately.
func Aggregate(records []domain.ResultRecord, week string) domain.AggregateReport {
	report := domain.AggregateReport{Week: week, AllWeeks: distinctWeeks(records)}

	filtered := filterByWeek(records, week)
	report.TotalAttempts = len(filtered)

	type rollup struct {
		sum   float64
		count int
		weeks map[string]struct{}
	}
	byStudent := make(map[string]*rollup)
	var seen []string // first-appearance order keeps rollup ties stable
	var sum float64

	for _, rec := range filtered {
		sum += rec.Score
		if rec.Score >= domain.PassThreshold {
			report.TotalPassing++
		}
		student, ok := byStudent[rec.Student]
		if !ok {
			student = &rollup{weeks: make(map[string]struct{})}
			byStudent[rec.Student] = student
			seen = append(seen, rec.Student)
		}
		student.sum += rec.Score
		student.count++
		student.weeks[rec.Week] = struct{}{}
	}

	report.TotalStudents = len(byStudent)
	if len(filtered) > 0 {
		mean := round2(sum / float64(len(filtered)))
		report.AverageScore = &mean
		report.PassingRate = round1(float64(report.TotalPassing) / float64(len(filtered)) * 100)
	}

	// Last 10 in store order, then newest first; stable so timestamp ties
	// keep their store order.
	start := len(filtered) - recentResultCount
	if start < 0 {
		start = 0
	}
	recent := make([]domain.ResultRecord, len(filtered)-start)
	copy(recent, filtered[start:])
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	report.Recent = recent

	rows := make([]domain.StudentRollup, 0, len(seen))
	for _, name := range seen {
		student := byStudent[name]
		weeks := make([]string, 0, len(student.weeks))
		for w := range student.weeks {
			weeks = append(weeks, w)
		}
		sort.Strings(weeks)
		rows = append(rows, domain.StudentRollup{
			Student:   name,
			MeanScore: round2(student.sum / float64(student.count)),
			Attempts:  student.count,
			Weeks:     strings.Join(weeks, ", "),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MeanScore > rows[j].MeanScore
	})
	report.Students = rows

	return report
}

func filterByWeek(records []domain.ResultRecord, week string) []domain.ResultRecord {
	if week == domain.FilterAll {
		return records
	}
	filtered := make([]domain.ResultRecord, 0, len(records))
	for _, rec := range records {
		if rec.Week == week {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func distinctWeeks(records []domain.ResultRecord) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		set[rec.Week] = struct{}{}
	}
	weeks := make([]string, 0, len(set))
	for w := range set {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	return weeks
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
