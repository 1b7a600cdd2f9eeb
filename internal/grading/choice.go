package grading

import (
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) Grade(q quiz.Question, a quiz.Answer) Result {
	selected := a.SelectedAnswer
	if selected == "" && len(a.MultipleChoiceAnswers) == 1 {
		selected = a.MultipleChoiceAnswers[0]
	}
	// Exactly one key may be selected; anything else is simply wrong.
	if len(a.MultipleChoiceAnswers) > 1 {
		return allOrNothing(q, false)
	}
	return allOrNothing(q, selected != "" && selected == q.CorrectAnswer)
}

type choiceStrategy struct{}

func (choiceStrategy) Grade(q quiz.Question, a quiz.Answer) Result {
	selected := a.MultipleChoiceAnswers
	if len(selected) == 0 && a.SelectedAnswer != "" {
		// single-key framing used for true/false
		selected = []string{a.SelectedAnswer}
	}
	correct := q.CorrectAnswers
	if len(correct) == 0 && q.CorrectAnswer != "" {
		correct = []string{q.CorrectAnswer}
	}

	correctSet := toSet(correct)
	selectedSet := toSet(selected)
	exact := setEqual(correctSet, selectedSet)

	p := q.Policy()
	if p.Kind != quiz.ScoringWeighted {
		return allOrNothing(q, exact)
	}
	hits, misses := tally(selectedSet, correctSet)
	return weightedResult(q, p, exact, hits, misses, len(correctSet))
}

// weightedResult applies the weighted policy refinement shared by the
// choice family and per-blank fill-in-the-blank grading.
func weightedResult(q quiz.Question, p quiz.ScoringPolicy, exact bool, hits, misses, total int) Result {
	res := Result{MaxPoints: p.MaxPoints, CorrectAnswer: echoCorrect(q)}
	c := exact
	res.IsCorrect = &c

	switch p.Mode {
	case quiz.ModePartialNoPenalty, quiz.ModePartialWithPenalty:
		ppc := p.PointsPerCorrect
		if ppc == 0 && total > 0 {
			ppc = p.MaxPoints / float64(total)
		}
		pts := ppc * float64(hits)
		if p.Mode == quiz.ModePartialWithPenalty {
			pts -= p.PenaltyPerIncorrect * float64(misses)
		}
		res.PointsEarned = clamp(pts, 0, p.MaxPoints)
	default:
		// implicit all-or-nothing
		if exact {
			res.PointsEarned = p.MaxPoints
		}
	}

	if exact {
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = incorrectFeedback(q)
	}
	return res
}

func toSet(keys []string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// tally counts selections inside and outside the correct set.
func tally(selected, correct map[string]struct{}) (hits, misses int) {
	for k := range selected {
		if _, ok := correct[k]; ok {
			hits++
		} else {
			misses++
		}
	}
	return
}
