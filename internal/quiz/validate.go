package quiz

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the strict-tier rejection for structurally malformed
// quiz documents. Grading assumes configs were validated at the write
// boundary; this is that boundary.
var ErrInvalidConfig = errors.New("invalid quiz config")

// ValidateConfig checks structural well-formedness: the discriminant tag must
// match the populated branch, and question ids must be unique across the
// whole document (nested or flat).
func ValidateConfig(cfg QuizConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("missing quiz id: %w", ErrInvalidConfig)
	}
	switch cfg.Type {
	case QuizRegular:
		if len(cfg.NestedQuizzes) > 0 {
			return fmt.Errorf("quiz %s: regular quiz with nested quizzes: %w", cfg.ID, ErrInvalidConfig)
		}
	case QuizContainer:
		if len(cfg.Pages) > 0 {
			return fmt.Errorf("quiz %s: container quiz with top-level pages: %w", cfg.ID, ErrInvalidConfig)
		}
		seen := map[string]struct{}{}
		for _, nq := range cfg.NestedQuizzes {
			if nq.ID == "" {
				return fmt.Errorf("quiz %s: nested quiz without id: %w", cfg.ID, ErrInvalidConfig)
			}
			if _, dup := seen[nq.ID]; dup {
				return fmt.Errorf("quiz %s: duplicate nested quiz id %q: %w", cfg.ID, nq.ID, ErrInvalidConfig)
			}
			seen[nq.ID] = struct{}{}
		}
	default:
		return fmt.Errorf("quiz %s: unknown quiz type %q: %w", cfg.ID, cfg.Type, ErrInvalidConfig)
	}

	known := map[QuestionType]struct{}{}
	for _, t := range QuestionTypes {
		known[t] = struct{}{}
	}
	ids := map[string]struct{}{}
	for _, q := range ExtractQuestions(cfg) {
		if q.ID == "" {
			return fmt.Errorf("quiz %s: question without id: %w", cfg.ID, ErrInvalidConfig)
		}
		if _, dup := ids[q.ID]; dup {
			return fmt.Errorf("quiz %s: duplicate question id %q: %w", cfg.ID, q.ID, ErrInvalidConfig)
		}
		ids[q.ID] = struct{}{}
		if _, ok := known[q.Type]; !ok {
			return fmt.Errorf("quiz %s: question %s has unknown type %q: %w", cfg.ID, q.ID, q.Type, ErrInvalidConfig)
		}
	}
	return nil
}
