package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gradeworks/gradeworks-lms/internal/grading"
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
)

// SQLStore keeps quiz configs and answer sets as JSON documents in TEXT
// columns; only the fields the API filters on are lifted into columns.
type SQLStore struct {
	db     *sql.DB
	engine *grading.Engine
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, engine: grading.NewEngine(nil)}
}

func (s *SQLStore) PutQuiz(ctx context.Context, cfg quiz.QuizConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,title,version,config_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, version=EXCLUDED.version, config_json=EXCLUDED.config_json`,
		cfg.ID, cfg.Title, cfg.Version, string(doc), time.Now().Unix())
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (quiz.QuizConfig, error) {
	cfg, err := s.GetQuizAdmin(ctx, id)
	if err != nil {
		return quiz.QuizConfig{}, err
	}
	return quiz.Sanitize(cfg), nil
}

func (s *SQLStore) GetQuizAdmin(ctx context.Context, id string) (quiz.QuizConfig, error) {
	row := s.db.QueryRowContext(ctx, `SELECT config_json FROM quizzes WHERE id=$1`, id)
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.QuizConfig{}, ErrQuizNotFound
		}
		return quiz.QuizConfig{}, err
	}
	var cfg quiz.QuizConfig
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return quiz.QuizConfig{}, fmt.Errorf("decode quiz %s: %w", id, err)
	}
	return cfg, nil
}

func (s *SQLStore) NewSubmission(ctx context.Context, quizID, userID string) (Submission, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, quizID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrQuizNotFound
		}
		return Submission{}, err
	}
	sub := Submission{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		UserID:    userID,
		Status:    StatusInProgress,
		StartedAt: time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO submissions (id,quiz_id,user_id,status,answers_json,started_at)
		VALUES ($1,$2,$3,$4,'[]',$5)`,
		sub.ID, sub.QuizID, sub.UserID, sub.Status, sub.StartedAt)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) SaveAnswers(ctx context.Context, id string, answers []quiz.Answer) (Submission, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == StatusSubmitted {
		return Submission{}, ErrAlreadySubmitted
	}
	sub.Answers = mergeAnswers(sub.Answers, answers)
	doc, err := json.Marshal(sub.Answers)
	if err != nil {
		return Submission{}, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE submissions SET answers_json=$1 WHERE id=$2`, string(doc), id); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) Submit(ctx context.Context, id string) (Submission, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == StatusSubmitted {
		return sub, nil
	}
	cfg, err := s.GetQuizAdmin(ctx, sub.QuizID)
	if err != nil {
		return Submission{}, err
	}
	if err := quiz.CheckAnswers(cfg, sub.Answers); err != nil {
		return Submission{}, err
	}

	// Compute first, persist the whole result atomically second.
	result := s.engine.CalculateQuizGrade(cfg, sub.Answers)
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return Submission{}, err
	}
	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `UPDATE submissions
		SET status=$1, score=$2, max_score=$3, result_json=$4, submitted_at=$5 WHERE id=$6`,
		StatusSubmitted, result.TotalScore, result.MaxScore, string(resultJSON), now, id)
	if err != nil {
		return Submission{}, err
	}
	sub.Status = StatusSubmitted
	sub.Result = &result
	sub.SubmittedAt = now
	return sub, nil
}

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_id,user_id,status,answers_json,result_json,started_at,submitted_at
		FROM submissions WHERE id=$1`, id)
	return scanSubmission(row)
}

func (s *SQLStore) ListSubmissions(ctx context.Context, opts ListOpts) ([]Submission, error) {
	q := `SELECT id,quiz_id,user_id,status,answers_json,result_json,started_at,submitted_at FROM submissions WHERE 1=1`
	args := []any{}
	n := 0
	add := func(cond string, v any) {
		n++
		q += fmt.Sprintf(" AND %s=$%d", cond, n)
		args = append(args, v)
	}
	if opts.QuizID != "" {
		add("quiz_id", opts.QuizID)
	}
	if opts.UserID != "" {
		add("user_id", opts.UserID)
	}
	if opts.Status != "" {
		add("status", opts.Status)
	}
	q += " ORDER BY started_at DESC"
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		q += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanSubmission(r rowScanner) (Submission, error) {
	var sub Submission
	var answersJSON string
	var resultJSON sql.NullString
	var submittedAt sql.NullInt64
	if err := r.Scan(&sub.ID, &sub.QuizID, &sub.UserID, &sub.Status, &answersJSON, &resultJSON, &sub.StartedAt, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrSubmissionNotFound
		}
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &sub.Answers); err != nil {
		sub.Answers = nil
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var res grading.QuizResult
		if err := json.Unmarshal([]byte(resultJSON.String), &res); err == nil {
			sub.Result = &res
		}
	}
	sub.SubmittedAt = submittedAt.Int64
	return sub, nil
}
