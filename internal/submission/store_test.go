package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

func testQuiz() quiz.QuizConfig {
	return quiz.QuizConfig{
		ID: "quiz-1", Title: "Geography Check", Version: 1, Type: quiz.QuizRegular,
		Pages: []quiz.Page{{Questions: []quiz.Question{
			{ID: "q1", Type: quiz.TypeMultipleChoice, CorrectAnswer: "b",
				Options: map[string]string{"a": "Lyon", "b": "Paris"},
				Scoring: &quiz.ScoringPolicy{Kind: quiz.ScoringSimple, MaxPoints: 50}},
			{ID: "q2", Type: quiz.TypeShortAnswer, CorrectAnswer: "Seine",
				Scoring: &quiz.ScoringPolicy{Kind: quiz.ScoringSimple, MaxPoints: 50}},
		}}},
	}
}

func newStoreWithQuiz(t *testing.T) Store {
	t.Helper()
	s := NewInMemoryStore()
	if err := s.PutQuiz(context.Background(), testQuiz()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGetQuizIsSanitized(t *testing.T) {
	s := newStoreWithQuiz(t)
	ctx := context.Background()

	cfg, err := s.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range quiz.ExtractQuestions(cfg) {
		if q.CorrectAnswer != "" {
			t.Fatalf("student read leaked answer key for %s", q.ID)
		}
	}
	// options survive sanitizing, students need them to answer
	if len(cfg.Pages[0].Questions[0].Options) != 2 {
		t.Fatalf("options stripped: %+v", cfg.Pages[0].Questions[0])
	}

	full, err := s.GetQuizAdmin(ctx, "quiz-1")
	if err != nil {
		t.Fatal(err)
	}
	if full.Pages[0].Questions[0].CorrectAnswer != "b" {
		t.Fatalf("admin read lost the answer key: %+v", full.Pages[0].Questions[0])
	}

	if _, err := s.GetQuiz(ctx, "missing"); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("want ErrQuizNotFound, got %v", err)
	}
}

func TestSaveAnswersMerges(t *testing.T) {
	s := newStoreWithQuiz(t)
	ctx := context.Background()

	sub, err := s.NewSubmission(ctx, "quiz-1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if sub.Status != StatusInProgress || sub.ID == "" {
		t.Fatalf("new submission %+v", sub)
	}

	if _, err := s.NewSubmission(ctx, "missing", "alice"); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("submission against missing quiz: %v", err)
	}

	sub, err = s.SaveAnswers(ctx, sub.ID, []quiz.Answer{
		{QuestionID: "q1", SelectedAnswer: "a"},
	})
	if err != nil || len(sub.Answers) != 1 {
		t.Fatalf("first save: %+v, %v", sub, err)
	}

	// re-answering q1 replaces it in place; q2 is appended
	sub, err = s.SaveAnswers(ctx, sub.ID, []quiz.Answer{
		{QuestionID: "q1", SelectedAnswer: "b"},
		{QuestionID: "q2", SelectedAnswer: "Seine"},
	})
	if err != nil || len(sub.Answers) != 2 {
		t.Fatalf("second save: %+v, %v", sub, err)
	}
	if sub.Answers[0].QuestionID != "q1" || sub.Answers[0].SelectedAnswer != "b" {
		t.Fatalf("answer not replaced in place: %+v", sub.Answers)
	}

	if _, err := s.SaveAnswers(ctx, "missing", nil); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("save against missing submission: %v", err)
	}
}

func TestSubmitGradesAndIsIdempotent(t *testing.T) {
	s := newStoreWithQuiz(t)
	ctx := context.Background()

	sub, _ := s.NewSubmission(ctx, "quiz-1", "alice")
	if _, err := s.SaveAnswers(ctx, sub.ID, []quiz.Answer{
		{QuestionID: "q1", SelectedAnswer: "b"},
		{QuestionID: "q2", SelectedAnswer: "loire"},
	}); err != nil {
		t.Fatal(err)
	}

	done, err := s.Submit(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != StatusSubmitted || done.SubmittedAt == 0 {
		t.Fatalf("submitted state %+v", done)
	}
	if done.Result == nil || done.Result.TotalScore != 50 || done.Result.MaxScore != 100 {
		t.Fatalf("result %+v", done.Result)
	}
	if done.Result.Percentage != 50 {
		t.Fatalf("percentage %v", done.Result.Percentage)
	}

	// a second submit returns the stored record unchanged
	again, err := s.Submit(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.SubmittedAt != done.SubmittedAt || again.Result.TotalScore != 50 {
		t.Fatalf("resubmit changed the record: %+v", again)
	}

	// saving after submit is rejected
	if _, err := s.SaveAnswers(ctx, sub.ID, nil); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("save after submit: %v", err)
	}

	got, err := s.GetSubmission(ctx, sub.ID)
	if err != nil || got.Result == nil {
		t.Fatalf("GetSubmission: %+v, %v", got, err)
	}
}

func TestSubmitRejectsMismatchedAnswerTypes(t *testing.T) {
	s := newStoreWithQuiz(t)
	ctx := context.Background()

	sub, _ := s.NewSubmission(ctx, "quiz-1", "alice")
	if _, err := s.SaveAnswers(ctx, sub.ID, []quiz.Answer{
		{QuestionID: "q1", QuestionType: quiz.TypeRanking},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Submit(ctx, sub.ID); !errors.Is(err, quiz.ErrAnswerTypeMismatch) {
		t.Fatalf("want ErrAnswerTypeMismatch, got %v", err)
	}

	// the submission stays open so the learner can fix the payload
	got, err := s.GetSubmission(ctx, sub.ID)
	if err != nil || got.Status != StatusInProgress {
		t.Fatalf("submission after failed submit: %+v, %v", got, err)
	}
}

func TestSubmitWithNoAnswers(t *testing.T) {
	s := newStoreWithQuiz(t)
	ctx := context.Background()

	sub, _ := s.NewSubmission(ctx, "quiz-1", "alice")
	done, err := s.Submit(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Result.TotalScore != 0 || done.Result.MaxScore != 100 {
		t.Fatalf("blank submission result %+v", done.Result)
	}
	if done.Result.TotalQuestions != 2 || done.Result.CorrectCount != 0 {
		t.Fatalf("blank submission result %+v", done.Result)
	}
}

func TestListSubmissions(t *testing.T) {
	s := newStoreWithQuiz(t)
	ctx := context.Background()
	if err := s.PutQuiz(ctx, quiz.QuizConfig{ID: "quiz-2", Version: 1, Type: quiz.QuizRegular,
		Pages: []quiz.Page{{Questions: []quiz.Question{{ID: "x", Type: quiz.TypeShortAnswer, CorrectAnswer: "y"}}}}}); err != nil {
		t.Fatal(err)
	}

	a1, _ := s.NewSubmission(ctx, "quiz-1", "alice")
	if _, err := s.NewSubmission(ctx, "quiz-1", "bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.NewSubmission(ctx, "quiz-2", "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(ctx, a1.ID); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListSubmissions(ctx, ListOpts{})
	if err != nil || len(all) != 3 {
		t.Fatalf("unfiltered list: %d, %v", len(all), err)
	}

	alice, _ := s.ListSubmissions(ctx, ListOpts{UserID: "alice"})
	if len(alice) != 2 {
		t.Fatalf("user filter: %d", len(alice))
	}

	q1, _ := s.ListSubmissions(ctx, ListOpts{QuizID: "quiz-1"})
	if len(q1) != 2 {
		t.Fatalf("quiz filter: %d", len(q1))
	}

	submitted, _ := s.ListSubmissions(ctx, ListOpts{Status: StatusSubmitted})
	if len(submitted) != 1 || submitted[0].ID != a1.ID {
		t.Fatalf("status filter: %+v", submitted)
	}

	page, _ := s.ListSubmissions(ctx, ListOpts{Limit: 2})
	if len(page) != 2 {
		t.Fatalf("limit: %d", len(page))
	}
	rest, _ := s.ListSubmissions(ctx, ListOpts{Limit: 2, Offset: 2})
	if len(rest) != 1 {
		t.Fatalf("offset: %d", len(rest))
	}
	none, _ := s.ListSubmissions(ctx, ListOpts{Offset: 10})
	if len(none) != 0 {
		t.Fatalf("past-the-end offset: %d", len(none))
	}

	// negative paging values are clamped, never sliced with
	neg, err := s.ListSubmissions(ctx, ListOpts{Offset: -1, Limit: -5})
	if err != nil || len(neg) != 3 {
		t.Fatalf("negative paging: %d, %v", len(neg), err)
	}
}
