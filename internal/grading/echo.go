package grading

import (
	"sort"
	"strings"

	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// echoCorrect renders a question's correct answer as a review string.
func echoCorrect(q quiz.Question) string {
	switch q.Type {
	case quiz.TypeMultipleChoice, quiz.TypeShortAnswer:
		return q.CorrectAnswer
	case quiz.TypeChoice:
		if len(q.CorrectAnswers) > 0 {
			return strings.Join(q.CorrectAnswers, ", ")
		}
		return q.CorrectAnswer
	case quiz.TypeRanking:
		return strings.Join(q.CorrectOrder, " > ")
	case quiz.TypeFillInBlank:
		if len(q.Blanks) == 0 {
			return strings.Join(q.CorrectAnswers, ", ")
		}
		names := make([]string, 0, len(q.Blanks))
		for name := range q.Blanks {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, name+": "+q.Blanks[name])
		}
		return strings.Join(parts, "; ")
	case quiz.TypeMatrixSingle, quiz.TypeMatrixMultiple:
		parts := make([]string, 0, len(q.Rows))
		for _, row := range q.Rows {
			parts = append(parts, row.ID+": "+strings.Join(row.Expected, ", "))
		}
		return strings.Join(parts, "; ")
	default:
		// long-answer, article, whiteboard: nothing meaningful to echo
		return ""
	}
}
