package quiz

// QuestionType tags the closed set of question shapes.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeChoice         QuestionType = "choice" // multi-select, also used for true/false
	TypeShortAnswer    QuestionType = "short-answer"
	TypeLongAnswer     QuestionType = "long-answer"
	TypeArticle        QuestionType = "article" // alias shape for long-answer
	TypeFillInBlank    QuestionType = "fill-in-the-blank"
	TypeRanking        QuestionType = "ranking"
	TypeMatrixSingle   QuestionType = "single-selection-matrix"
	TypeMatrixMultiple QuestionType = "multiple-selection-matrix"
	TypeWhiteboard     QuestionType = "whiteboard"
)

// QuestionTypes lists every supported type. Graders key their strategy
// registry off this list; a test pins the two in sync so a new type cannot
// land without a grading strategy.
var QuestionTypes = []QuestionType{
	TypeMultipleChoice,
	TypeChoice,
	TypeShortAnswer,
	TypeLongAnswer,
	TypeArticle,
	TypeFillInBlank,
	TypeRanking,
	TypeMatrixSingle,
	TypeMatrixMultiple,
	TypeWhiteboard,
}

// ScoringKind selects the scoring strategy for one question.
type ScoringKind string

const (
	ScoringSimple   ScoringKind = "simple"
	ScoringManual   ScoringKind = "manual"
	ScoringWeighted ScoringKind = "weighted"
	ScoringRanking  ScoringKind = "ranking"
	ScoringMatrix   ScoringKind = "matrix"
	ScoringRubric   ScoringKind = "rubric"
)

// ScoringMode refines a ScoringKind.
type ScoringMode string

const (
	ModePartialNoPenalty   ScoringMode = "partial-no-penalty"
	ModePartialWithPenalty ScoringMode = "partial-with-penalty"
	ModeExactOrder         ScoringMode = "exact-order"
	ModePartial            ScoringMode = "partial"
)

// RubricCriterion is one row of a rubric used during manual grading.
type RubricCriterion struct {
	Key       string  `json:"key"`
	Desc      string  `json:"desc,omitempty"`
	MaxPoints float64 `json:"max_points"`
}

// ScoringPolicy configures how a question is worth points. A nil policy on a
// question means 1 point, all-or-nothing.
type ScoringPolicy struct {
	Kind                ScoringKind       `json:"kind"`
	MaxPoints           float64           `json:"max_points"`
	PointsPerCorrect    float64           `json:"points_per_correct,omitempty"`
	PenaltyPerIncorrect float64           `json:"penalty_per_incorrect,omitempty"`
	PointsPerRow        float64           `json:"points_per_row,omitempty"`
	Mode                ScoringMode       `json:"mode,omitempty"`
	Criteria            []RubricCriterion `json:"criteria,omitempty"`
}

// DefaultPolicy is what an absent scoring policy means.
func DefaultPolicy() ScoringPolicy {
	return ScoringPolicy{Kind: ScoringSimple, MaxPoints: 1}
}

// Policy returns the question's scoring policy, falling back to the default.
func (q Question) Policy() ScoringPolicy {
	if q.Scoring == nil {
		return DefaultPolicy()
	}
	p := *q.Scoring
	if p.Kind == "" {
		p.Kind = ScoringSimple
	}
	if p.MaxPoints <= 0 {
		p.MaxPoints = 1
	}
	return p
}

// MatrixRow is one row of a selection-matrix question.
type MatrixRow struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Expected []string `json:"expected,omitempty"` // column keys; one entry for single-selection
}

// Question is one authored question. Type-specific fields are optional and
// populated per the Type tag; ID must be unique within one quiz config.
type Question struct {
	ID      string            `json:"id"`
	Type    QuestionType      `json:"type"`
	Prompt  string            `json:"prompt,omitempty"`
	Options map[string]string `json:"options,omitempty"` // key -> label

	CorrectAnswer  string            `json:"correct_answer,omitempty"`  // multiple-choice, short-answer
	CorrectAnswers []string          `json:"correct_answers,omitempty"` // choice
	CorrectOrder   []string          `json:"correct_order,omitempty"`   // ranking
	Blanks         map[string]string `json:"blanks,omitempty"`          // fill-in-the-blank: name -> correct value
	Rows           []MatrixRow       `json:"rows,omitempty"`            // matrix types

	Feedback string         `json:"feedback,omitempty"` // author feedback shown on incorrect
	Scoring  *ScoringPolicy `json:"scoring,omitempty"`
}

// QuizType discriminates flat quizzes from containers of nested quizzes.
type QuizType string

const (
	QuizRegular   QuizType = "regular"
	QuizContainer QuizType = "container"
)

// Page is an ordered group of questions.
type Page struct {
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// NestedQuiz is one sub-quiz inside a container config.
type NestedQuiz struct {
	ID           string         `json:"id"`
	Title        string         `json:"title,omitempty"`
	TimeLimitSec int            `json:"time_limit_sec,omitempty"`
	Scoring      *ScoringPolicy `json:"scoring,omitempty"`
	Pages        []Page         `json:"pages"`
}

// QuizConfig is the authored quiz document, already upgraded to the canonical
// version by the version resolver. Exactly one of Pages or NestedQuizzes is
// populated, matching Type.
type QuizConfig struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Version      int          `json:"version"`
	Type         QuizType     `json:"type"`
	TimeLimitSec int          `json:"time_limit_sec,omitempty"`
	Pages        []Page       `json:"pages,omitempty"`
	NestedQuizzes []NestedQuiz `json:"nested_quizzes,omitempty"`
}
