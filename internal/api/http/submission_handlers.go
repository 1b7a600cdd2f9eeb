package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/gradeworks/gradeworks-lms/internal/auth/middleware"
	"github.com/gradeworks/gradeworks-lms/internal/gradebook"
	"github.com/gradeworks/gradeworks-lms/internal/quiz"
	"github.com/gradeworks/gradeworks-lms/internal/rbac"
	"github.com/gradeworks/gradeworks-lms/internal/submission"
)

// POST /submissions
func CreateSubmissionHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID string `json:"quiz_id"`
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuizID == "" || req.UserID == "" {
			http.Error(w, "quiz_id and user_id required", http.StatusBadRequest)
			return
		}
		sub, err := store.NewSubmission(r.Context(), req.QuizID, req.UserID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}

// POST /submissions/{submissionID}/answers
func SaveAnswersHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		var answers []quiz.Answer
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		sub, err := store.SaveAnswers(r.Context(), id, answers)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}

// POST /submissions/{submissionID}/submit
//
// Grades the submission and, when the quiz is linked to a gradebook item (the
// item shares the quiz id), writes the percentage as the learner's base
// grade. A missing item just means the quiz does not feed the gradebook.
func SubmitHandler(store submission.Store, gb gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		sub, err := store.Submit(r.Context(), id)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, quiz.ErrAnswerTypeMismatch) {
				// contract violation by the answer writer, not a grading outcome
				status = http.StatusUnprocessableEntity
			}
			http.Error(w, err.Error(), status)
			return
		}
		if gb != nil && sub.Result != nil {
			pct := sub.Result.Percentage
			if _, err := gb.PutBaseGrade(r.Context(), sub.QuizID, sub.UserID, &pct); err != nil &&
				!errors.Is(err, gradebook.ErrItemNotFound) {
				log.Printf("gradebook write for submission %s: %v", sub.ID, err)
			}
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}

// GET /submissions/{submissionID}
//
// Ownership is only known after the fetch, so the check lives here rather
// than in route middleware: without submission:view-all a caller may only
// read their own record.
func GetSubmissionHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := store.GetSubmission(r.Context(), chi.URLParam(r, "submissionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if !rbac.Allowed(rbac.RoleFromContext(r.Context()), "submission:view-all") &&
			sub.UserID != auth.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}

// GET /submissions?quiz_id=&user_id=&status=&limit=&offset=
//
// Callers without submission:view-all only ever see their own submissions:
// the user_id filter is forced to the authenticated subject.
func ListSubmissionsHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		userID := q.Get("user_id")
		if !rbac.Allowed(rbac.RoleFromContext(r.Context()), "submission:view-all") {
			userID = auth.SubjectFromContext(r.Context())
		}
		subs, err := store.ListSubmissions(r.Context(), submission.ListOpts{
			QuizID: q.Get("quiz_id"),
			UserID: userID,
			Status: q.Get("status"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if subs == nil {
			subs = []submission.Submission{}
		}
		_ = json.NewEncoder(w).Encode(subs)
	}
}
