package domain

import (
	"sort"
	"time"
)

// FormSlotCount is the number of conjugation forms graded per verb.
const FormSlotCount = 5

// FilterAll is the sentinel week filter meaning "every record".
const FilterAll = "all"

// PassThreshold is the fixed score cutoff used for pass-rate statistics.
const PassThreshold = 70.0

// RecordTimeLayout is how result timestamps are rendered (minute precision).
const RecordTimeLayout = "2006-01-02 15:04"

// ResultColumns is the results log's column schema, shared by the CSV store
// and the export endpoint.
var ResultColumns = [...]string{"Date", "Student", "Score", "Week", "Student_ID"}

// VerbForms is the fixed 5-slot record of expected (or submitted) forms.
type VerbForms struct {
	Base           string `json:"v1" yaml:"v1"`
	ThirdPerson    string `json:"v1_3rd" yaml:"v1_3rd"`
	Participle     string `json:"v1_ing" yaml:"v1_ing"`
	Past           string `json:"v2" yaml:"v2"`
	PastParticiple string `json:"v3" yaml:"v3"`
}

// Slots returns the forms in grading order: base, 3rd-person, present
// participle, simple past, past participle.
func (f VerbForms) Slots() [FormSlotCount]string {
	return [FormSlotCount]string{f.Base, f.ThirdPerson, f.Participle, f.Past, f.PastParticiple}
}

// VerbEntry pairs a verb with its expected forms.
type VerbEntry struct {
	Verb  string    `json:"verb"`
	Forms VerbForms `json:"forms"`
}

// Quiz is one week's verb set with its due date.
type Quiz struct {
	ID      string      `json:"id"`
	DueDate time.Time   `json:"dueDate"`
	Verbs   []VerbEntry `json:"verbs"`
}

// Catalog is the immutable quiz catalog built once at startup.
type Catalog struct {
	quizzes map[string]Quiz
	ids     []string
}

// NewCatalog builds a catalog from quiz definitions. Quiz IDs and each
// quiz's verb set are sorted lexicographically for a stable iteration order.
func NewCatalog(quizzes map[string]Quiz) Catalog {
	byID := make(map[string]Quiz, len(quizzes))
	ids := make([]string, 0, len(quizzes))
	for id, quiz := range quizzes {
		quiz.ID = id
		sort.Slice(quiz.Verbs, func(i, j int) bool {
			return quiz.Verbs[i].Verb < quiz.Verbs[j].Verb
		})
		byID[id] = quiz
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return Catalog{quizzes: byID, ids: ids}
}

// Quiz looks up one quiz by identifier.
func (c Catalog) Quiz(id string) (Quiz, bool) {
	quiz, ok := c.quizzes[id]
	return quiz, ok
}

// IDs returns the sorted quiz identifiers.
func (c Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len reports how many quizzes the catalog holds.
func (c Catalog) Len() int {
	return len(c.ids)
}

// Submission is a student's answer set for one quiz. Verbs missing from
// Answers grade as five empty slots; verbs not in the quiz are ignored.
type Submission struct {
	QuizID    string               `json:"week"`
	StudentID string               `json:"studentId"`
	Answers   map[string]VerbForms `json:"answers"`
}

// VerbBreakdown is the per-verb feedback for one graded submission:
// submitted and expected answers in slot order, normalized for display.
type VerbBreakdown struct {
	Verb     string   `json:"verb"`
	Answers  []string `json:"answers"`
	Expected []string `json:"correct"`
}

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Score     float64         `json:"score"`
	Correct   int             `json:"correct"`
	Total     int             `json:"total"`
	Breakdown []VerbBreakdown `json:"results"`
}

// ResultRecord is one graded submission as persisted in the results log.
// Records are immutable once appended.
type ResultRecord struct {
	Date      time.Time `json:"date"`
	Student   string    `json:"student"`
	Score     float64   `json:"score"`
	Week      string    `json:"week"`
	StudentID string    `json:"studentId"`
}

// StudentRollup is one dashboard row: a student's aggregate over the
// filtered records. Grouping is by display name, matching the portal's
// historical behavior; accounts sharing a name collapse into one row.
type StudentRollup struct {
	Student   string  `json:"student"`
	MeanScore float64 `json:"mean"`
	Attempts  int     `json:"count"`
	Weeks     string  `json:"weeks"`
}

// AggregateReport is the derived dashboard view over the results log.
// AverageScore is nil when the filtered set is empty.
type AggregateReport struct {
	Week          string          `json:"week"`
	TotalStudents int             `json:"totalStudents"`
	AverageScore  *float64        `json:"averageScore"`
	Recent        []ResultRecord  `json:"recentResults"`
	Students      []StudentRollup `json:"studentAverages"`
	AllWeeks      []string        `json:"allWeeks"`
	TotalAttempts int             `json:"totalQuizzes"`
	TotalPassing  int             `json:"totalPassing"`
	PassingRate   float64         `json:"passingRate"`
	Malformed     int             `json:"malformedRows,omitempty"`
}

// Student is one entry in the student directory.
type Student struct {
	ID           string    `json:"-"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	Teacher      string    `json:"teacher"`
}
