package grading

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// QuestionResult is one question's grading outcome within a quiz.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Result
}

// QuizResult is the aggregate grading report for one submission.
type QuizResult struct {
	TotalScore     float64          `json:"total_score"`
	MaxScore       float64          `json:"max_score"`
	Percentage     float64          `json:"percentage"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Questions      []QuestionResult `json:"questions"`
	Summary        string           `json:"summary"`
}

// Engine grades whole submissions against a quiz config.
type Engine struct {
	grader Grader
}

func NewEngine(g Grader) *Engine {
	if g == nil {
		g = NewDefaultGrader()
	}
	return &Engine{grader: g}
}

// CalculateQuizGrade grades every question of cfg in document order against
// the submitted answers. It never fails: missing answers, unknown types and
// ungradable content all degrade to zero-credit results with feedback, since
// grading must explain a submission rather than block it. Structural
// validation of cfg is the caller's job.
func (e *Engine) CalculateQuizGrade(cfg quiz.QuizConfig, answers []quiz.Answer) QuizResult {
	questions := quiz.ExtractQuestions(cfg)

	res := QuizResult{
		TotalQuestions: len(questions),
		Questions:      make([]QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		r := e.grader.Grade(q, findAnswer(answers, q.ID))
		res.TotalScore += r.PointsEarned
		res.MaxScore += r.MaxPoints
		if r.IsCorrect != nil && *r.IsCorrect {
			res.CorrectCount++
		}
		res.Questions = append(res.Questions, QuestionResult{QuestionID: q.ID, Result: r})
	}

	if res.MaxScore > 0 {
		res.Percentage = round2(100 * res.TotalScore / res.MaxScore)
	}
	res.Summary = fmt.Sprintf(
		"Quiz completed! You scored %s/%s points (%s%%). You got %d/%d questions correct.",
		formatPoints(res.TotalScore), formatPoints(res.MaxScore),
		formatPoints(res.Percentage), res.CorrectCount, res.TotalQuestions)
	return res
}

// CalculateQuizGrade grades with the default strategy set.
func CalculateQuizGrade(cfg quiz.QuizConfig, answers []quiz.Answer) QuizResult {
	return NewEngine(nil).CalculateQuizGrade(cfg, answers)
}

// findAnswer returns the first answer addressing the question, or nil.
// Duplicate ids are not deduplicated; configs guarantee uniqueness.
func findAnswer(answers []quiz.Answer, questionID string) *quiz.Answer {
	for i := range answers {
		if quiz.ParseQuestionRef(answers[i].QuestionID).QuestionID == questionID {
			return &answers[i]
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatPoints prints a score without trailing zeros (87, 12.5, 66.67).
func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
