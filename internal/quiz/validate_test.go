package quiz

import (
	"errors"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*QuizConfig)
		wantErr bool
	}{
		{"valid regular", func(c *QuizConfig) {}, false},
		{"missing id", func(c *QuizConfig) { c.ID = "" }, true},
		{"unknown quiz type", func(c *QuizConfig) { c.Type = "bundle" }, true},
		{"regular with nested quizzes", func(c *QuizConfig) {
			c.NestedQuizzes = []NestedQuiz{{ID: "n1"}}
		}, true},
		{"duplicate question id", func(c *QuizConfig) {
			c.Pages[1].Questions[0].ID = "q1"
		}, true},
		{"question without id", func(c *QuizConfig) {
			c.Pages[0].Questions[0].ID = ""
		}, true},
		{"unknown question type", func(c *QuizConfig) {
			c.Pages[0].Questions[0].Type = "essay-video"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := regularConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("want ErrInvalidConfig, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateContainer(t *testing.T) {
	cfg := containerConfig()
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("valid container rejected: %v", err)
	}

	dup := containerConfig()
	dup.NestedQuizzes[1].ID = "part-a"
	if err := ValidateConfig(dup); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("duplicate nested quiz id accepted: %v", err)
	}

	mixed := containerConfig()
	mixed.Pages = []Page{{Questions: []Question{{ID: "stray", Type: TypeShortAnswer}}}}
	if err := ValidateConfig(mixed); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("container with top-level pages accepted: %v", err)
	}
}

func TestCheckAnswers(t *testing.T) {
	cfg := regularConfig()

	ok := []Answer{
		{QuestionID: "q1", QuestionType: TypeMultipleChoice, SelectedAnswer: "b"},
		{QuestionID: "unknown-question", QuestionType: TypeRanking}, // skipped, tolerant tier's problem
	}
	if err := CheckAnswers(cfg, ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []Answer{{QuestionID: "q1", QuestionType: TypeRanking}}
	if err := CheckAnswers(cfg, bad); !errors.Is(err, ErrAnswerTypeMismatch) {
		t.Fatalf("want ErrAnswerTypeMismatch, got %v", err)
	}
}

func TestCheckAnswerAliases(t *testing.T) {
	long := Question{ID: "e1", Type: TypeLongAnswer}
	if err := CheckAnswer(long, Answer{QuestionID: "e1", QuestionType: TypeArticle}); err != nil {
		t.Fatalf("article should satisfy long-answer: %v", err)
	}
	tf := Question{ID: "t1", Type: TypeChoice}
	if err := CheckAnswer(tf, Answer{QuestionID: "t1", QuestionType: TypeMultipleChoice}); err != nil {
		t.Fatalf("single-selection true/false should satisfy choice: %v", err)
	}
	if err := CheckAnswer(tf, Answer{QuestionID: "t1", QuestionType: TypeRanking}); !errors.Is(err, ErrAnswerTypeMismatch) {
		t.Fatalf("ranking against choice should mismatch, got %v", err)
	}
}
