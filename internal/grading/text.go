package grading

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// normalizeAnswer folds case and trims surrounding whitespace; free-text
// comparisons are otherwise exact.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type shortAnswerStrategy struct{}

func (shortAnswerStrategy) Grade(q quiz.Question, a quiz.Answer) Result {
	return allOrNothing(q, normalizeAnswer(a.SelectedAnswer) == normalizeAnswer(q.CorrectAnswer))
}

// essayStrategy cannot determine correctness; it awards heuristic partial
// credit for a substantive answer and flags the response for manual review.
// Partial credit is not correctness: IsCorrect stays false either way.
type essayStrategy struct {
	minChars int
}

func (s essayStrategy) Grade(q quiz.Question, a quiz.Answer) Result {
	p := q.Policy()
	f := false
	res := Result{MaxPoints: p.MaxPoints, IsCorrect: &f, NeedsManual: true}
	text := a.SelectedAnswer
	if utf8.RuneCountInString(text) > s.minChars {
		res.PointsEarned = math.Floor(p.MaxPoints * 0.5)
		res.Feedback = feedbackManual
	} else {
		res.Feedback = feedbackTooShort
	}
	return res
}

// fillBlankStrategy grades per named blank when the mapping shape was
// submitted. A bare string is accepted for single-blank questions and matched
// against the set of all correct blank values.
type fillBlankStrategy struct{}

func (fillBlankStrategy) Grade(q quiz.Question, a quiz.Answer) Result {
	p := q.Policy()

	if len(a.BlankAnswers) == 0 {
		values := correctBlankValues(q)
		hit := false
		for _, v := range values {
			if normalizeAnswer(a.SelectedAnswer) == normalizeAnswer(v) {
				hit = true
				break
			}
		}
		return allOrNothing(q, hit)
	}

	hits, misses := 0, 0
	for name, want := range q.Blanks {
		got, ok := a.BlankAnswers[name]
		if !ok || got == "" {
			continue
		}
		if normalizeAnswer(got) == normalizeAnswer(want) {
			hits++
		} else {
			misses++
		}
	}
	exact := hits == len(q.Blanks)

	if p.Kind == quiz.ScoringWeighted {
		return weightedResult(q, p, exact, hits, misses, len(q.Blanks))
	}
	return allOrNothing(q, exact)
}

func correctBlankValues(q quiz.Question) []string {
	out := make([]string, 0, len(q.Blanks)+len(q.CorrectAnswers))
	for _, v := range q.Blanks {
		out = append(out, v)
	}
	out = append(out, q.CorrectAnswers...)
	if q.CorrectAnswer != "" {
		out = append(out, q.CorrectAnswer)
	}
	return out
}
