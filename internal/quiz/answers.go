package quiz

import (
	"errors"
	"fmt"
)

// Answer is the flattened storage shape of one submitted response. Which
// field carries the value depends on QuestionType:
//
//	SelectedAnswer          free text or a single option key
//	MultipleChoiceAnswers   multi-select keys or a ranking order
//	BlankAnswers            fill-in-the-blank: blank name -> value
//	MatrixAnswers           matrix: row id -> selected column key(s)
//	Payload                 whiteboard: opaque drawing payload
type Answer struct {
	QuestionID            string              `json:"question_id"`
	QuestionType          QuestionType        `json:"question_type"`
	SelectedAnswer        string              `json:"selected_answer,omitempty"`
	MultipleChoiceAnswers []string            `json:"multiple_choice_answers,omitempty"`
	BlankAnswers          map[string]string   `json:"blank_answers,omitempty"`
	MatrixAnswers         map[string][]string `json:"matrix_answers,omitempty"`
	Payload               string              `json:"payload,omitempty"`
}

// IsEmpty reports whether the answer carries no submitted value at all. An
// empty answer is still "an answer provided" for grading purposes; absence of
// the record is what grades as "No answer provided".
func (a Answer) IsEmpty() bool {
	return a.SelectedAnswer == "" &&
		len(a.MultipleChoiceAnswers) == 0 &&
		len(a.BlankAnswers) == 0 &&
		len(a.MatrixAnswers) == 0 &&
		a.Payload == ""
}

// ErrAnswerTypeMismatch is the strict-tier rejection: an answer whose declared
// type does not match the question it addresses is a contract violation by the
// caller, not a grading outcome.
var ErrAnswerTypeMismatch = errors.New("answer type does not match question type")

// CheckAnswer validates one flattened answer against its question. It returns
// an error wrapping ErrAnswerTypeMismatch on a type mismatch so callers can
// test with errors.Is.
func CheckAnswer(q Question, a Answer) error {
	if a.QuestionType != "" && !compatibleTypes(q.Type, a.QuestionType) {
		return fmt.Errorf("question %s: declared %s, want %s: %w",
			q.ID, a.QuestionType, q.Type, ErrAnswerTypeMismatch)
	}
	return nil
}

// CheckAnswers validates a whole answer list against a config. Answers that
// address unknown questions are ignored here (the tolerant grading tier skips
// them); only declared-type mismatches are rejected.
func CheckAnswers(cfg QuizConfig, answers []Answer) error {
	for _, a := range answers {
		q, ok := FindQuestion(cfg, ParseQuestionRef(a.QuestionID))
		if !ok {
			continue
		}
		if err := CheckAnswer(q, a); err != nil {
			return err
		}
	}
	return nil
}

// long-answer and article are the same shape under two tags, and choice
// accepts a single-key framing for true/false.
func compatibleTypes(q, a QuestionType) bool {
	if q == a {
		return true
	}
	switch {
	case q == TypeLongAnswer && a == TypeArticle,
		q == TypeArticle && a == TypeLongAnswer:
		return true
	case q == TypeChoice && a == TypeMultipleChoice:
		// binary true/false submitted as a single selection
		return true
	}
	return false
}
