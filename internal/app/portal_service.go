package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"verb-quiz-portal/internal/domain"
)

// ResultsStore abstracts the durable results log (CSV file, postgres, or
// in-memory for tests). Append is the only mutation; reads return records in
// store order plus a count of malformed rows that were skipped.
type ResultsStore interface {
	Append(ctx context.Context, rec domain.ResultRecord) error
	ReadAll(ctx context.Context) ([]domain.ResultRecord, int, error)
	ReadByWeek(ctx context.Context, week string) ([]domain.ResultRecord, int, error)
}

// StudentDirectory resolves student identifiers to directory entries and
// checks login credentials.
type StudentDirectory interface {
	Resolve(ctx context.Context, studentID string) (domain.Student, error)
	Authenticate(ctx context.Context, studentID, password string) (domain.Student, error)
}

// CatalogLoader loads the quiz catalog from a definition source at startup.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// ReportProvider produces the dashboard report for a week filter. The portal
// service is the canonical provider; caches wrap it.
type ReportProvider interface {
	Report(ctx context.Context, week string) (domain.AggregateReport, error)
}

// PortalService contains the portal use cases: grade-and-record a
// submission, build the teacher dashboard, export results, and feed live
// dashboard subscribers.
type PortalService struct {
	catalog  domain.Catalog
	store    ResultsStore
	students StudentDirectory
	feed     *dashboardFeed
	now      func() time.Time
}

func NewPortalService(catalog domain.Catalog, store ResultsStore, students StudentDirectory) *PortalService {
	return NewPortalServiceWithClock(catalog, store, students, time.Now)
}

// NewPortalServiceWithClock is test-only for deterministic timestamps.
func NewPortalServiceWithClock(catalog domain.Catalog, store ResultsStore, students StudentDirectory, now func() time.Time) *PortalService {
	return &PortalService{
		catalog:  catalog,
		store:    store,
		students: students,
		feed:     newDashboardFeed(),
		now:      now,
	}
}

// Catalog exposes the immutable quiz catalog.
func (s *PortalService) Catalog() domain.Catalog {
	return s.catalog
}

// Submit grades a submission, appends the result record, and notifies live
// dashboard subscribers. Unknown quizzes and unknown students are surfaced
// as sentinel errors for the caller to redirect on; nothing is recorded.
func (s *PortalService) Submit(ctx context.Context, sub domain.Submission) (domain.GradeResult, domain.ResultRecord, error) {
	quiz, ok := s.catalog.Quiz(sub.QuizID)
	if !ok {
		return domain.GradeResult{}, domain.ResultRecord{}, domain.ErrQuizNotFound
	}
	student, err := s.students.Resolve(ctx, sub.StudentID)
	if err != nil {
		return domain.GradeResult{}, domain.ResultRecord{}, err
	}

	result := Grade(quiz, sub)
	rec := domain.ResultRecord{
		Date:      s.now().Truncate(time.Minute),
		Student:   student.Name,
		Score:     result.Score,
		Week:      quiz.ID,
		StudentID: student.ID,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return domain.GradeResult{}, domain.ResultRecord{}, fmt.Errorf("append result: %w", err)
	}

	s.publishSnapshot(ctx)
	return result, rec, nil
}

// Login verifies a student's credentials against the directory.
func (s *PortalService) Login(ctx context.Context, studentID, password string) (domain.Student, error) {
	return s.students.Authenticate(ctx, studentID, password)
}

// Report reads the full store and reduces it to the dashboard view.
// Snapshot-at-call: appends made after the read began are not observed.
func (s *PortalService) Report(ctx context.Context, week string) (domain.AggregateReport, error) {
	records, malformed, err := s.store.ReadAll(ctx)
	if err != nil {
		return domain.AggregateReport{}, fmt.Errorf("read results: %w", err)
	}
	report := Aggregate(records, week)
	report.Malformed = malformed
	return report, nil
}

// Results returns the raw records for one week, or every record for
// domain.FilterAll, plus the malformed-row count.
func (s *PortalService) Results(ctx context.Context, week string) ([]domain.ResultRecord, int, error) {
	if week == domain.FilterAll {
		return s.store.ReadAll(ctx)
	}
	return s.store.ReadByWeek(ctx, week)
}

// ExportCSV serializes the filtered records for download. A store with no
// rows at all yields domain.ErrNoResults; a week filter that matches nothing
// over a non-empty store still yields a header-only CSV.
func (s *PortalService) ExportCSV(ctx context.Context, week string) ([]byte, string, error) {
	records, _, err := s.Results(ctx, week)
	if err != nil {
		return nil, "", err
	}
	if len(records) == 0 {
		all, _, err := s.store.ReadAll(ctx)
		if err != nil {
			return nil, "", err
		}
		if len(all) == 0 {
			return nil, "", domain.ErrNoResults
		}
	}
	data, name := Export(records, week)
	return data, name, nil
}

// Subscribe returns a channel receiving all-weeks dashboard snapshots,
// starting with the current one, refreshed after every graded submission.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *PortalService) Subscribe(ctx context.Context) (<-chan domain.AggregateReport, func(), error) {
	initial, err := s.Report(ctx, domain.FilterAll)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.subscribe()
	ch <- initial
	return ch, cancel, nil
}

func (s *PortalService) publishSnapshot(ctx context.Context) {
	if !s.feed.hasSubscribers() {
		return
	}
	report, err := s.Report(ctx, domain.FilterAll)
	if err != nil {
		return // best-effort; the next submission retries
	}
	s.feed.publish(report)
}

// dashboardFeed fans dashboard snapshots out to live subscribers.
type dashboardFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.AggregateReport]struct{}
}

func newDashboardFeed() *dashboardFeed {
	return &dashboardFeed{subscribers: make(map[chan domain.AggregateReport]struct{})}
}

func (f *dashboardFeed) subscribe() (chan domain.AggregateReport, func()) {
	ch := make(chan domain.AggregateReport, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *dashboardFeed) hasSubscribers() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers) > 0
}

func (f *dashboardFeed) publish(report domain.AggregateReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- report:
		default:
			// Drop the oldest pending snapshot so slow clients never block.
			select {
			case <-ch:
			default:
			}
			ch <- report
		}
	}
}
