package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/gradeworks/gradeworks-lms/internal/auth/middleware"
	"github.com/gradeworks/gradeworks-lms/internal/gradebook"
)

// OwnsUserParam reports whether the authenticated subject is the {userID} the
// route addresses. Routes exposing per-learner grades pair it with
// rbac.RequireOwnerOr so view-own callers cannot read other learners.
func OwnsUserParam(r *http.Request) bool {
	sub := auth.SubjectFromContext(r.Context())
	return sub != "" && sub == chi.URLParam(r, "userID")
}

func gbStatus(err error) int {
	switch {
	case errors.Is(err, gradebook.ErrItemNotFound), errors.Is(err, gradebook.ErrGradeNotFound):
		return http.StatusNotFound
	case errors.Is(err, gradebook.ErrBadAdjustment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PUT /gradebook/categories/{categoryID}
func UpsertCategoryHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c gradebook.Category
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		c.ID = chi.URLParam(r, "categoryID")
		if c.ID == "" || c.CourseID == "" {
			http.Error(w, "category id and course_id required", http.StatusBadRequest)
			return
		}
		if err := store.UpsertCategory(r.Context(), c); err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

// PUT /gradebook/items/{itemID}
func UpsertItemHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var it gradebook.Item
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		it.ID = chi.URLParam(r, "itemID")
		if it.ID == "" || it.CourseID == "" {
			http.Error(w, "item id and course_id required", http.StatusBadRequest)
			return
		}
		if err := store.UpsertItem(r.Context(), it); err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(it)
	}
}

// GET /gradebook/items?course_id=
func ListItemsHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := store.ListItems(r.Context(), r.URL.Query().Get("course_id"))
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		if items == nil {
			items = []gradebook.Item{}
		}
		_ = json.NewEncoder(w).Encode(items)
	}
}

// PUT /gradebook/items/{itemID}/grades/{userID}
func PutBaseGradeHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BaseGrade *float64 `json:"base_grade"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		g, err := store.PutBaseGrade(r.Context(), chi.URLParam(r, "itemID"), chi.URLParam(r, "userID"), req.BaseGrade)
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// POST /gradebook/items/{itemID}/grades/{userID}/adjustments
func AddAdjustmentHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var adj gradebook.Adjustment
		if err := json.NewDecoder(r.Body).Decode(&adj); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		g, err := store.AddAdjustment(r.Context(), chi.URLParam(r, "itemID"), chi.URLParam(r, "userID"), adj)
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// PATCH /gradebook/items/{itemID}/grades/{userID}/adjustments/{index}
func SetAdjustmentActiveHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "bad adjustment index", http.StatusBadRequest)
			return
		}
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		g, err := store.SetAdjustmentActive(r.Context(), chi.URLParam(r, "itemID"), chi.URLParam(r, "userID"), idx, req.Active)
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// DELETE /gradebook/items/{itemID}/grades/{userID}/adjustments/{index}
func RemoveAdjustmentHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "bad adjustment index", http.StatusBadRequest)
			return
		}
		g, err := store.RemoveAdjustment(r.Context(), chi.URLParam(r, "itemID"), chi.URLParam(r, "userID"), idx)
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// PUT /gradebook/items/{itemID}/grades/{userID}/override
func SetOverrideHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OverrideGrade *float64 `json:"override_grade"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		itemID, userID := chi.URLParam(r, "itemID"), chi.URLParam(r, "userID")
		var g gradebook.UserGrade
		var err error
		if req.OverrideGrade == nil {
			g, err = store.ClearOverride(r.Context(), itemID, userID)
		} else {
			g, err = store.SetOverride(r.Context(), itemID, userID, *req.OverrideGrade)
		}
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// GET /gradebook/items/{itemID}/grades/{userID}
func GetUserGradeHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := store.GetUserGrade(r.Context(), chi.URLParam(r, "itemID"), chi.URLParam(r, "userID"))
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// GET /courses/{courseID}/users/{userID}/final-grade
//
// final_grade is null until the learner has graded, weighted work; callers
// must not read that as a zero score.
func FinalGradeHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fg, err := gradebook.FinalGradeFor(r.Context(), store, chi.URLParam(r, "courseID"), chi.URLParam(r, "userID"))
		if err != nil {
			http.Error(w, err.Error(), gbStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(fg)
	}
}
