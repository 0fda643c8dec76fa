package app

import (
	"strings"

	"verb-quiz-portal/internal/domain"
)

// Grade scores a submission against a quiz's expected forms. Comparison is
// case-insensitive and whitespace-trimmed exact equality per slot; each
// matching slot earns one point and the score is points/(verbs*5)*100.
// Iteration is driven by the quiz's verb set, so verbs the submission adds
// are ignored and verbs it omits grade as five empty answers. Pure: identical
// inputs always yield an identical result.
func Grade(quiz domain.Quiz, sub domain.Submission) domain.GradeResult {
	total := len(quiz.Verbs) * domain.FormSlotCount
	result := domain.GradeResult{
		Total:     total,
		Breakdown: make([]domain.VerbBreakdown, 0, len(quiz.Verbs)),
	}

	for _, entry := range quiz.Verbs {
		expected := entry.Forms.Slots()
		submitted := sub.Answers[entry.Verb].Slots()

		breakdown := domain.VerbBreakdown{
			Verb:     entry.Verb,
			Answers:  make([]string, 0, domain.FormSlotCount),
			Expected: make([]string, 0, domain.FormSlotCount),
		}
		for i := range expected {
			want := normalizeAnswer(expected[i])
			got := normalizeAnswer(submitted[i])
			if got == want {
				result.Correct++
			}
			breakdown.Answers = append(breakdown.Answers, got)
			breakdown.Expected = append(breakdown.Expected, want)
		}
		result.Breakdown = append(result.Breakdown, breakdown)
	}

	// Empty verb set scores 0 rather than dividing by zero.
	if total > 0 {
		result.Score = float64(result.Correct) / float64(total) * 100
	}
	return result
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
