package submission

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gradeworks/gradeworks-lms/internal/grading"
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

var (
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("submission already submitted")
)

// Store persists quiz configs and submissions. GetQuiz is student-safe
// (answer keys stripped); GetQuizAdmin returns the full document.
type Store interface {
	PutQuiz(ctx context.Context, cfg quiz.QuizConfig) error
	GetQuiz(ctx context.Context, id string) (quiz.QuizConfig, error)
	GetQuizAdmin(ctx context.Context, id string) (quiz.QuizConfig, error)

	NewSubmission(ctx context.Context, quizID, userID string) (Submission, error)
	SaveAnswers(ctx context.Context, id string, answers []quiz.Answer) (Submission, error)
	Submit(ctx context.Context, id string) (Submission, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissions(ctx context.Context, opts ListOpts) ([]Submission, error)
}

type memoryStore struct {
	mu          sync.RWMutex
	quizzes     map[string]quiz.QuizConfig
	submissions map[string]Submission
	engine      *grading.Engine
}

func NewInMemoryStore() Store {
	return &memoryStore{
		quizzes:     map[string]quiz.QuizConfig{},
		submissions: map[string]Submission{},
		engine:      grading.NewEngine(nil),
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, cfg quiz.QuizConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[cfg.ID] = cfg
	return nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (quiz.QuizConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.quizzes[id]
	if !ok {
		return quiz.QuizConfig{}, ErrQuizNotFound
	}
	return quiz.Sanitize(cfg), nil
}

func (m *memoryStore) GetQuizAdmin(_ context.Context, id string) (quiz.QuizConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.quizzes[id]
	if !ok {
		return quiz.QuizConfig{}, ErrQuizNotFound
	}
	return cfg, nil
}

func (m *memoryStore) NewSubmission(_ context.Context, quizID, userID string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[quizID]; !ok {
		return Submission{}, ErrQuizNotFound
	}
	sub := Submission{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		UserID:    userID,
		Status:    StatusInProgress,
		StartedAt: time.Now().Unix(),
	}
	m.submissions[sub.ID] = sub
	return sub, nil
}

func (m *memoryStore) SaveAnswers(_ context.Context, id string, answers []quiz.Answer) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	if sub.Status == StatusSubmitted {
		return Submission{}, ErrAlreadySubmitted
	}
	sub.Answers = mergeAnswers(sub.Answers, answers)
	m.submissions[id] = sub
	return sub, nil
}

func (m *memoryStore) Submit(_ context.Context, id string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	if sub.Status == StatusSubmitted {
		return sub, nil
	}
	cfg, ok := m.quizzes[sub.QuizID]
	if !ok {
		return Submission{}, ErrQuizNotFound
	}
	if err := quiz.CheckAnswers(cfg, sub.Answers); err != nil {
		return Submission{}, err
	}
	result := m.engine.CalculateQuizGrade(cfg, sub.Answers)
	sub.Result = &result
	sub.Status = StatusSubmitted
	sub.SubmittedAt = time.Now().Unix()
	m.submissions[id] = sub
	return sub, nil
}

func (m *memoryStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	return sub, nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, opts ListOpts) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Submission
	for _, sub := range m.submissions {
		if opts.QuizID != "" && sub.QuizID != opts.QuizID {
			continue
		}
		if opts.UserID != "" && sub.UserID != opts.UserID {
			continue
		}
		if opts.Status != "" && sub.Status != opts.Status {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt > out[j].StartedAt })
	return paginate(out, opts.Limit, opts.Offset), nil
}

// mergeAnswers replaces answers for questions that were re-answered and keeps
// the rest, preserving first-seen order.
func mergeAnswers(existing, incoming []quiz.Answer) []quiz.Answer {
	out := make([]quiz.Answer, len(existing))
	copy(out, existing)
	for _, a := range incoming {
		replaced := false
		for i := range out {
			if out[i].QuestionID == a.QuestionID {
				out[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, a)
		}
	}
	return out
}

func paginate(subs []Submission, limit, offset int) []Submission {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(subs) {
		return nil
	}
	subs = subs[offset:]
	if limit > 0 && limit < len(subs) {
		subs = subs[:limit]
	}
	return subs
}
