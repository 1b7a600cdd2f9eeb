package grading

import (
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// Result is the outcome of grading a single question.
type Result struct {
	PointsEarned  float64 `json:"points_earned"`
	MaxPoints     float64 `json:"max_points"`
	IsCorrect     *bool   `json:"is_correct,omitempty"` // nil when not auto-gradable
	NeedsManual   bool    `json:"needs_manual,omitempty"`
	Feedback      string  `json:"feedback"`
	CorrectAnswer string  `json:"correct_answer,omitempty"` // echoed for review
}

// Grading never fails a submission: every outcome, including "we could not
// grade this", is expressed as a Result with explanatory feedback.
const (
	feedbackNoAnswer  = "No answer provided"
	feedbackCorrect   = "Correct!"
	feedbackIncorrect = "Incorrect"
	feedbackManual    = "Manual grading required"
	feedbackTooShort  = "Answer too short"
	feedbackNoGrader  = "Automatic grading is not available for this question type"
)

// Strategy grades one question type.
type Strategy interface {
	Grade(q quiz.Question, a quiz.Answer) Result
}

// Grader routes a (question, answer) pair to the right Strategy.
type Grader interface {
	Grade(q quiz.Question, a *quiz.Answer) Result
}

type defaultGrader struct {
	strategies map[quiz.QuestionType]Strategy
}

// Option tweaks the default grader.
type Option func(map[quiz.QuestionType]Strategy)

// WithStrategy overrides or adds the strategy for one question type.
func WithStrategy(t quiz.QuestionType, s Strategy) Option {
	return func(m map[quiz.QuestionType]Strategy) { m[t] = s }
}

// NewDefaultGrader installs the built-in strategies, one per question type in
// quiz.QuestionTypes.
func NewDefaultGrader(opts ...Option) Grader {
	essay := essayStrategy{minChars: 100}
	m := map[quiz.QuestionType]Strategy{
		quiz.TypeMultipleChoice: multipleChoiceStrategy{},
		quiz.TypeChoice:         choiceStrategy{},
		quiz.TypeShortAnswer:    shortAnswerStrategy{},
		quiz.TypeLongAnswer:     essay,
		quiz.TypeArticle:        essay,
		quiz.TypeFillInBlank:    fillBlankStrategy{},
		quiz.TypeRanking:        rankingStrategy{},
		quiz.TypeMatrixSingle:   matrixStrategy{multi: false},
		quiz.TypeMatrixMultiple: matrixStrategy{multi: true},
		quiz.TypeWhiteboard:     whiteboardStrategy{},
	}
	for _, o := range opts {
		o(m)
	}
	return &defaultGrader{strategies: m}
}

func (g *defaultGrader) Grade(q quiz.Question, a *quiz.Answer) Result {
	p := q.Policy()
	if a == nil {
		f := false
		return Result{
			MaxPoints:     p.MaxPoints,
			IsCorrect:     &f,
			Feedback:      feedbackNoAnswer,
			CorrectAnswer: echoCorrect(q),
		}
	}
	if p.Kind == quiz.ScoringRubric {
		// Rubric grading is fully deferred to a human.
		return Result{
			MaxPoints:     p.MaxPoints,
			NeedsManual:   true,
			Feedback:      feedbackManual,
			CorrectAnswer: echoCorrect(q),
		}
	}
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{
			MaxPoints:   p.MaxPoints,
			NeedsManual: true,
			Feedback:    feedbackNoGrader,
		}
	}
	return s.Grade(q, *a)
}

// allOrNothing builds the common full-credit / zero-credit result.
func allOrNothing(q quiz.Question, correct bool) Result {
	p := q.Policy()
	res := Result{MaxPoints: p.MaxPoints, CorrectAnswer: echoCorrect(q)}
	c := correct
	res.IsCorrect = &c
	if correct {
		res.PointsEarned = p.MaxPoints
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = incorrectFeedback(q)
	}
	return res
}

// incorrectFeedback appends the author's static feedback, which is only
// surfaced on incorrect answers.
func incorrectFeedback(q quiz.Question) string {
	if q.Feedback != "" {
		return feedbackIncorrect + ". " + q.Feedback
	}
	return feedbackIncorrect
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
