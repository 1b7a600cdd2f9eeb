package grading

import (
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// rankingStrategy compares the submitted order position by position. Under
// exact-order mode a partially-correct order earns nothing.
type rankingStrategy struct{}

func (rankingStrategy) Grade(q quiz.Question, a quiz.Answer) Result {
	return allOrNothing(q, sameOrder(a.MultipleChoiceAnswers, q.CorrectOrder))
}

func sameOrder(got, want []string) bool {
	if len(got) != len(want) || len(want) == 0 {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
