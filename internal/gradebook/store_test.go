package gradebook

import (
	"context"
	"errors"
	"testing"
)

func seedCourse(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if err := s.UpsertCategory(ctx, Category{ID: "hw", CourseID: "course-1", Name: "Homework", Weight: f(40)}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertCategory(ctx, Category{ID: "exams", CourseID: "course-1", Name: "Exams", Weight: f(60)}); err != nil {
		t.Fatal(err)
	}
	items := []Item{
		{ID: "hw-1", CourseID: "course-1", Title: "Homework 1", MaxGrade: 100, Weight: f(100), CategoryID: "hw"},
		{ID: "final", CourseID: "course-1", Title: "Final Exam", MaxGrade: 100, Weight: f(100), CategoryID: "exams"},
		{ID: "extra", CourseID: "course-1", Title: "Extra Credit", MaxGrade: 100}, // unweighted
	}
	for _, it := range items {
		if err := s.UpsertItem(ctx, it); err != nil {
			t.Fatal(err)
		}
	}
}

func TestStoreItemLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	seedCourse(t, s)

	it, err := s.GetItem(ctx, "hw-1")
	if err != nil || it.Title != "Homework 1" {
		t.Fatalf("GetItem: %+v, %v", it, err)
	}
	if _, err := s.GetItem(ctx, "nope"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("want ErrItemNotFound, got %v", err)
	}

	// upsert replaces
	it.Title = "Homework 1 (revised)"
	if err := s.UpsertItem(ctx, it); err != nil {
		t.Fatal(err)
	}
	it, _ = s.GetItem(ctx, "hw-1")
	if it.Title != "Homework 1 (revised)" {
		t.Fatalf("upsert did not replace: %+v", it)
	}

	list, err := s.ListItems(ctx, "course-1")
	if err != nil || len(list) != 3 {
		t.Fatalf("ListItems: %d items, %v", len(list), err)
	}
	list, _ = s.ListItems(ctx, "other-course")
	if len(list) != 0 {
		t.Fatalf("foreign course returned %d items", len(list))
	}
}

func TestStoreGradeMutations(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	seedCourse(t, s)

	if _, err := s.PutBaseGrade(ctx, "missing-item", "alice", f(50)); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("grade against missing item: %v", err)
	}
	if _, err := s.GetUserGrade(ctx, "hw-1", "alice"); !errors.Is(err, ErrGradeNotFound) {
		t.Fatalf("ungraded lookup: %v", err)
	}

	g, err := s.PutBaseGrade(ctx, "hw-1", "alice", f(80))
	if err != nil || g.BaseGrade == nil || *g.BaseGrade != 80 {
		t.Fatalf("PutBaseGrade: %+v, %v", g, err)
	}

	g, err = s.AddAdjustment(ctx, "hw-1", "alice", Adjustment{Points: 5, Reason: "regrade", Active: true})
	if err != nil || len(g.Adjustments) != 1 {
		t.Fatalf("AddAdjustment: %+v, %v", g, err)
	}

	g, err = s.SetAdjustmentActive(ctx, "hw-1", "alice", 0, false)
	if err != nil || g.Adjustments[0].Active {
		t.Fatalf("SetAdjustmentActive: %+v, %v", g, err)
	}
	if _, err := s.SetAdjustmentActive(ctx, "hw-1", "alice", 3, true); !errors.Is(err, ErrBadAdjustment) {
		t.Fatalf("out-of-range index: %v", err)
	}

	g, err = s.SetOverride(ctx, "hw-1", "alice", 95)
	if err != nil || !g.IsOverridden || g.OverrideGrade == nil || *g.OverrideGrade != 95 {
		t.Fatalf("SetOverride: %+v, %v", g, err)
	}
	g, err = s.ClearOverride(ctx, "hw-1", "alice")
	if err != nil || g.IsOverridden || g.OverrideGrade != nil {
		t.Fatalf("ClearOverride: %+v, %v", g, err)
	}

	g, err = s.RemoveAdjustment(ctx, "hw-1", "alice", 0)
	if err != nil || len(g.Adjustments) != 0 {
		t.Fatalf("RemoveAdjustment: %+v, %v", g, err)
	}
	if _, err := s.RemoveAdjustment(ctx, "hw-1", "alice", 0); !errors.Is(err, ErrBadAdjustment) {
		t.Fatalf("remove from empty list: %v", err)
	}

	// base grade survived all of it
	g, err = s.GetUserGrade(ctx, "hw-1", "alice")
	if err != nil || g.BaseGrade == nil || *g.BaseGrade != 80 {
		t.Fatalf("GetUserGrade after mutations: %+v, %v", g, err)
	}
}

func TestListUserGradesIncludesUngraded(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	seedCourse(t, s)

	if _, err := s.PutBaseGrade(ctx, "hw-1", "alice", f(80)); err != nil {
		t.Fatal(err)
	}

	entries, err := s.ListUserGrades(ctx, "course-1", "alice")
	if err != nil || len(entries) != 3 {
		t.Fatalf("ListUserGrades: %d entries, %v", len(entries), err)
	}
	byItem := map[string]GradedItem{}
	for _, e := range entries {
		byItem[e.Item.ID] = e
	}
	if g := byItem["hw-1"].Grade; g.BaseGrade == nil || *g.BaseGrade != 80 {
		t.Fatalf("graded entry %+v", g)
	}
	if g := byItem["final"].Grade; g.BaseGrade != nil {
		t.Fatalf("ungraded entry should carry nil base grade: %+v", g)
	}
	if byItem["hw-1"].Category == nil || byItem["hw-1"].Category.ID != "hw" {
		t.Fatalf("category not joined: %+v", byItem["hw-1"].Category)
	}
	if byItem["extra"].Category != nil {
		t.Fatalf("uncategorized item got a category: %+v", byItem["extra"].Category)
	}
}

func TestFinalGradeFor(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	seedCourse(t, s)

	// nothing graded: nil grade, not zero
	fg, err := FinalGradeFor(ctx, s, "course-1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if fg.Grade != nil || fg.GradedItemCount != 0 {
		t.Fatalf("empty gradebook rollup %+v", fg)
	}

	// homework 80 at effective weight 40, final 90 at effective weight 60
	if _, err := s.PutBaseGrade(ctx, "hw-1", "alice", f(80)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PutBaseGrade(ctx, "final", "alice", f(90)); err != nil {
		t.Fatal(err)
	}
	fg, err = FinalGradeFor(ctx, s, "course-1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	wantGrade(t, fg, 86) // (80*40 + 90*60) / 100
	if fg.TotalWeight != 100 || fg.GradedItemCount != 2 {
		t.Fatalf("rollup %+v", fg)
	}

	// grading the weightless extra-credit item must not skew the rollup
	if _, err := s.PutBaseGrade(ctx, "extra", "alice", f(100)); err != nil {
		t.Fatal(err)
	}
	fg, err = FinalGradeFor(ctx, s, "course-1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	wantGrade(t, fg, 86)
	if fg.GradedItemCount != 3 {
		t.Fatalf("rollup %+v", fg)
	}

	// an override on the final exam flows through
	if _, err := s.SetOverride(ctx, "final", "alice", 100); err != nil {
		t.Fatal(err)
	}
	fg, err = FinalGradeFor(ctx, s, "course-1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	wantGrade(t, fg, 92) // (80*40 + 100*60) / 100
}
