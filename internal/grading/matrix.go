package grading

import (
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// matrixStrategy grades selection-matrix questions row by row. Under the
// matrix policy's partial mode each matched row earns PointsPerRow; under a
// simple policy every row must match.
type matrixStrategy struct {
	multi bool // multiple selections per row
}

func (s matrixStrategy) Grade(q quiz.Question, a quiz.Answer) Result {
	matched := 0
	for _, row := range q.Rows {
		got := a.MatrixAnswers[row.ID]
		if s.rowMatches(row.Expected, got) {
			matched++
		}
	}
	exact := len(q.Rows) > 0 && matched == len(q.Rows)

	p := q.Policy()
	if p.Kind != quiz.ScoringMatrix || p.Mode != quiz.ModePartial {
		return allOrNothing(q, exact)
	}

	ppr := p.PointsPerRow
	if ppr == 0 && len(q.Rows) > 0 {
		ppr = p.MaxPoints / float64(len(q.Rows))
	}
	res := Result{
		MaxPoints:     p.MaxPoints,
		PointsEarned:  clamp(ppr*float64(matched), 0, p.MaxPoints),
		CorrectAnswer: echoCorrect(q),
	}
	c := exact
	res.IsCorrect = &c
	if exact {
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = incorrectFeedback(q)
	}
	return res
}

func (s matrixStrategy) rowMatches(expected, got []string) bool {
	if len(expected) == 0 {
		return false
	}
	if !s.multi {
		return len(got) == 1 && got[0] == expected[0]
	}
	return setEqual(toSet(expected), toSet(got))
}
