package memory

import (
	"context"
	"testing"
	"time"

	"verb-quiz-portal/internal/domain"
)

func TestResultsStoreAppendAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewResultsStore()

	recs := []domain.ResultRecord{
		{Date: time.Now().Truncate(time.Minute), Student: "Alice", Score: 80, Week: "week1", StudentID: "s-1"},
		{Date: time.Now().Truncate(time.Minute), Student: "Bob", Score: 90, Week: "week2", StudentID: "s-2"},
	}
	for _, rec := range recs {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, malformed, err := store.ReadAll(ctx)
	if err != nil || malformed != 0 {
		t.Fatalf("read all: %v (malformed %d)", err, malformed)
	}
	if len(all) != 2 || all[0].Student != "Alice" {
		t.Fatalf("unexpected records: %+v", all)
	}

	week1, _, err := store.ReadByWeek(ctx, "week1")
	if err != nil {
		t.Fatalf("read by week: %v", err)
	}
	if len(week1) != 1 || week1[0].Student != "Alice" {
		t.Fatalf("unexpected filtered records: %+v", week1)
	}

	// Mutating the returned slice must not affect the store.
	all[0].Student = "Mallory"
	again, _, _ := store.ReadAll(ctx)
	if again[0].Student != "Alice" {
		t.Fatalf("store leaked its internal slice")
	}
}
