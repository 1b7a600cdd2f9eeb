package submission

import (
	"github.com/gradeworks/gradeworks-lms/internal/grading"
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)

// Submission is one learner's answer set for one quiz config, together with
// the grading result once submitted. The result is computed first and the
// whole record persisted second, atomically.
type Submission struct {
	ID          string              `json:"id"`
	QuizID      string              `json:"quiz_id"`
	UserID      string              `json:"user_id"`
	Status      string              `json:"status"`
	Answers     []quiz.Answer       `json:"answers"`
	Result      *grading.QuizResult `json:"result,omitempty"`
	StartedAt   int64               `json:"started_at"`
	SubmittedAt int64               `json:"submitted_at,omitempty"`
}

// ListOpts filters submission listings for dashboards.
type ListOpts struct {
	QuizID string
	UserID string
	Status string
	Limit  int
	Offset int
}
