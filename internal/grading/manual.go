package grading

import (
	"fmt"

	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// whiteboardStrategy handles opaque drawing payloads. Nothing can be graded
// automatically; correctness stays undetermined rather than false.
type whiteboardStrategy struct{}

func (whiteboardStrategy) Grade(q quiz.Question, _ quiz.Answer) Result {
	p := q.Policy()
	return Result{
		MaxPoints:   p.MaxPoints,
		NeedsManual: true,
		Feedback:    feedbackManual,
	}
}

// ScoreRubric applies a teacher's per-criterion awards to a rubric policy,
// clamping each criterion to its own maximum and the total to the policy
// maximum. Used by the manual-grading path, never by the auto grader.
func ScoreRubric(p quiz.ScoringPolicy, awarded map[string]float64) (float64, []string) {
	total := 0.0
	notes := make([]string, 0, len(p.Criteria))
	for _, c := range p.Criteria {
		v := clamp(awarded[c.Key], 0, c.MaxPoints)
		total += v
		notes = append(notes, fmt.Sprintf("%s:%.2f", c.Key, v))
	}
	if p.MaxPoints > 0 && total > p.MaxPoints {
		total = p.MaxPoints
	}
	return total, notes
}
