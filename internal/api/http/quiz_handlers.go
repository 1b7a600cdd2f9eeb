package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gradeworks/gradeworks-lms/internal/quiz"
	"github.com/gradeworks/gradeworks-lms/internal/submission"
)

// POST /quizzes
func UploadQuizHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg quiz.QuizConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := quiz.ValidateConfig(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutQuiz(r.Context(), cfg); err != nil {
			http.Error(w, "store quiz: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": cfg.ID})
	}
}

// GET /quizzes/{quizID} — answer keys stripped.
func GetQuizHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, submission.ErrQuizNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		_ = json.NewEncoder(w).Encode(cfg)
	}
}

// GET /quizzes/{quizID}/full — full document, for authors and graders.
func GetQuizFullHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.GetQuizAdmin(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, submission.ErrQuizNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		_ = json.NewEncoder(w).Encode(cfg)
	}
}
