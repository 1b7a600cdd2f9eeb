package gradebook

import "testing"

func f(v float64) *float64 { return &v }

func wantGrade(t *testing.T, fg FinalGrade, want float64) {
	t.Helper()
	if fg.Grade == nil {
		t.Fatalf("final grade is nil, want %v (%+v)", want, fg)
	}
	if *fg.Grade != want {
		t.Fatalf("final grade = %v, want %v (%+v)", *fg.Grade, want, fg)
	}
}

func TestEffectiveGrade(t *testing.T) {
	tests := []struct {
		name string
		in   ItemGrade
		want *float64
	}{
		{"no grade", ItemGrade{}, nil},
		{"base only", ItemGrade{BaseGrade: f(80)}, f(80)},
		{"active adjustment", ItemGrade{BaseGrade: f(80),
			Adjustments: []Adjustment{{Points: 5, Active: true}}}, f(85)},
		{"inactive adjustment ignored", ItemGrade{BaseGrade: f(80),
			Adjustments: []Adjustment{{Points: 5, Active: false}}}, f(80)},
		{"adjustments stack", ItemGrade{BaseGrade: f(80),
			Adjustments: []Adjustment{{Points: 5, Active: true}, {Points: -3, Active: true}}}, f(82)},
		{"override wins", ItemGrade{BaseGrade: f(80),
			Adjustments:   []Adjustment{{Points: 5, Active: true}},
			IsOverridden:  true,
			OverrideGrade: f(60)}, f(60)},
		{"override without base", ItemGrade{IsOverridden: true, OverrideGrade: f(70)}, f(70)},
		{"override flag without value falls through", ItemGrade{BaseGrade: f(80), IsOverridden: true}, f(80)},
		{"adjustments alone cannot grade an ungraded item", ItemGrade{
			Adjustments: []Adjustment{{Points: 5, Active: true}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveGrade(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("got %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Fatalf("got nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Fatalf("got %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestEffectiveWeight(t *testing.T) {
	tests := []struct {
		name string
		in   ItemGrade
		want float64
	}{
		{"nil weight is zero", ItemGrade{}, 0},
		{"uncategorized item weight passes through", ItemGrade{ItemWeight: f(30)}, 30},
		{"categorized item rescales", ItemGrade{ItemWeight: f(50), CategoryWeight: f(40)}, 20},
		{"nil category weight zeroes the item", ItemGrade{ItemWeight: f(50), CategoryWeight: f(0)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveWeight(tt.in); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFinalGrade(t *testing.T) {
	t.Run("two items equal weight", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(80), ItemWeight: f(50)},
			{BaseGrade: f(90), ItemWeight: f(50)},
		})
		wantGrade(t, fg, 85)
		if fg.TotalWeight != 100 || fg.GradedItemCount != 2 {
			t.Fatalf("rollup %+v", fg)
		}
	})

	t.Run("adjustment moves the rollup", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(80), ItemWeight: f(50),
				Adjustments: []Adjustment{{Points: 5, Active: true}}},
			{BaseGrade: f(90), ItemWeight: f(50)},
		})
		wantGrade(t, fg, 87.5)
	})

	t.Run("override replaces base plus adjustments", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(80), ItemWeight: f(50),
				Adjustments:   []Adjustment{{Points: 5, Active: true}},
				IsOverridden:  true,
				OverrideGrade: f(60)},
			{BaseGrade: f(90), ItemWeight: f(50)},
		})
		wantGrade(t, fg, 75)
	})

	t.Run("ungraded items are skipped, not zeroed", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(80), ItemWeight: f(50)},
			{ItemWeight: f(50)}, // not graded yet
		})
		wantGrade(t, fg, 80)
		if fg.TotalWeight != 50 || fg.GradedItemCount != 1 {
			t.Fatalf("rollup %+v", fg)
		}
	})

	t.Run("nothing graded yields nil, not zero", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{ItemWeight: f(50)},
			{ItemWeight: f(50)},
		})
		if fg.Grade != nil {
			t.Fatalf("final grade = %v, want nil", *fg.Grade)
		}
		if fg.TotalWeight != 0 || fg.GradedItemCount != 0 {
			t.Fatalf("rollup %+v", fg)
		}
	})

	t.Run("graded but weightless yields nil", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(95)}, // nil weight counts as zero
		})
		if fg.Grade != nil {
			t.Fatalf("final grade = %v, want nil", *fg.Grade)
		}
		if fg.GradedItemCount != 1 {
			t.Fatalf("rollup %+v", fg)
		}
	})

	t.Run("category weights rescale items", func(t *testing.T) {
		// homework category worth 40%, exams worth 60%
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(100), ItemWeight: f(100), CategoryWeight: f(40)},
			{BaseGrade: f(70), ItemWeight: f(100), CategoryWeight: f(60)},
		})
		wantGrade(t, fg, 82) // (100*40 + 70*60) / 100
	})

	t.Run("weights need not sum to 100", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(80), ItemWeight: f(20)},
			{BaseGrade: f(90), ItemWeight: f(60)},
		})
		wantGrade(t, fg, 87.5) // (80*20 + 90*60) / 80
		if fg.TotalWeight != 80 {
			t.Fatalf("total weight %v", fg.TotalWeight)
		}
	})

	t.Run("result rounds to two decimals", func(t *testing.T) {
		fg := ComputeFinalGrade([]ItemGrade{
			{BaseGrade: f(100), ItemWeight: f(1)},
			{BaseGrade: f(0), ItemWeight: f(2)},
		})
		wantGrade(t, fg, 33.33)
	})

	t.Run("empty input", func(t *testing.T) {
		fg := ComputeFinalGrade(nil)
		if fg.Grade != nil || fg.TotalWeight != 0 || fg.GradedItemCount != 0 {
			t.Fatalf("rollup %+v", fg)
		}
	})
}
