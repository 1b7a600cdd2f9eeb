package quiz

import "strings"

// QuestionRef addresses a question inside a config. QuizID is empty for a
// regular-quiz question and names the nested quiz otherwise. The wire form is
// "<nestedQuizID>:<questionID>" or a bare question id; it is parsed once here
// instead of re-splitting strings at every call site.
type QuestionRef struct {
	QuizID     string
	QuestionID string
}

func ParseQuestionRef(s string) QuestionRef {
	if i := strings.Index(s, ":"); i >= 0 {
		return QuestionRef{QuizID: s[:i], QuestionID: s[i+1:]}
	}
	return QuestionRef{QuestionID: s}
}

func (r QuestionRef) String() string {
	if r.QuizID == "" {
		return r.QuestionID
	}
	return r.QuizID + ":" + r.QuestionID
}

// ExtractQuestions flattens a config into document order: pages in order,
// questions within a page in order, nested quizzes in order. Container and
// regular configs yield the same flat shape.
func ExtractQuestions(cfg QuizConfig) []Question {
	var out []Question
	if cfg.Type == QuizContainer {
		for _, nq := range cfg.NestedQuizzes {
			for _, p := range nq.Pages {
				out = append(out, p.Questions...)
			}
		}
		return out
	}
	for _, p := range cfg.Pages {
		out = append(out, p.Questions...)
	}
	return out
}

// FindQuestion resolves a ref against a config. A missing nested quiz or
// question id reports found=false; callers treat that as "skip", never as a
// fatal condition.
func FindQuestion(cfg QuizConfig, ref QuestionRef) (Question, bool) {
	if ref.QuizID != "" {
		for _, nq := range cfg.NestedQuizzes {
			if nq.ID != ref.QuizID {
				continue
			}
			return findInPages(nq.Pages, ref.QuestionID)
		}
		return Question{}, false
	}
	if cfg.Type == QuizContainer {
		// Bare id inside a container: search all nested quizzes in order.
		for _, nq := range cfg.NestedQuizzes {
			if q, ok := findInPages(nq.Pages, ref.QuestionID); ok {
				return q, true
			}
		}
		return Question{}, false
	}
	return findInPages(cfg.Pages, ref.QuestionID)
}

func findInPages(pages []Page, id string) (Question, bool) {
	for _, p := range pages {
		for _, q := range p.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// Sanitize returns a deep copy of cfg with every answer key removed, for
// serving configs to students.
func Sanitize(cfg QuizConfig) QuizConfig {
	out := cfg
	out.Pages = sanitizePages(cfg.Pages)
	if len(cfg.NestedQuizzes) > 0 {
		out.NestedQuizzes = make([]NestedQuiz, len(cfg.NestedQuizzes))
		for i, nq := range cfg.NestedQuizzes {
			c := nq
			c.Pages = sanitizePages(nq.Pages)
			out.NestedQuizzes[i] = c
		}
	}
	return out
}

func sanitizePages(pages []Page) []Page {
	if pages == nil {
		return nil
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		cp := p
		cp.Questions = make([]Question, len(p.Questions))
		for j, q := range p.Questions {
			cq := q
			cq.CorrectAnswer = ""
			cq.CorrectAnswers = nil
			cq.CorrectOrder = nil
			if q.Blanks != nil {
				// keep blank names so the form can render, drop the values
				blanks := make(map[string]string, len(q.Blanks))
				for name := range q.Blanks {
					blanks[name] = ""
				}
				cq.Blanks = blanks
			}
			if q.Rows != nil {
				rows := make([]MatrixRow, len(q.Rows))
				for k, row := range q.Rows {
					cr := row
					cr.Expected = nil
					rows[k] = cr
				}
				cq.Rows = rows
			}
			cq.Feedback = ""
			cp.Questions[j] = cq
		}
		out[i] = cp
	}
	return out
}
