package gradebook

import "math"

// Adjustment is a manually applied signed point delta on one user's grade for
// one item. Inactive adjustments are kept for audit but contribute nothing.
type Adjustment struct {
	Points float64 `json:"points"`
	Reason string  `json:"reason,omitempty"`
	Active bool    `json:"active"`
}

// ItemGrade is the weighting engine's view of one gradebook item for one
// learner: the persisted grade plus the item's placement in the weighting
// hierarchy. Nil weights mean "unweighted", which counts as zero.
type ItemGrade struct {
	BaseGrade      *float64     `json:"base_grade"`
	Adjustments    []Adjustment `json:"adjustments,omitempty"`
	IsOverridden   bool         `json:"is_overridden,omitempty"`
	OverrideGrade  *float64     `json:"override_grade,omitempty"`
	ItemWeight     *float64     `json:"item_weight"`
	CategoryWeight *float64     `json:"category_weight,omitempty"`
}

// FinalGrade is the weight-corrected rollup. Grade is nil when no graded,
// weighted work exists yet; that is a different state from scoring zero.
type FinalGrade struct {
	Grade           *float64 `json:"final_grade"`
	TotalWeight     float64  `json:"total_weight"`
	GradedItemCount int      `json:"graded_item_count"`
}

// EffectiveGrade resolves one item's grade: an active override replaces the
// base-plus-adjustments value entirely; otherwise active adjustments stack on
// the base grade. Nil means the item has no gradable value yet.
func EffectiveGrade(g ItemGrade) *float64 {
	if g.IsOverridden && g.OverrideGrade != nil {
		v := *g.OverrideGrade
		return &v
	}
	if g.BaseGrade == nil {
		return nil
	}
	v := *g.BaseGrade
	for _, adj := range g.Adjustments {
		if adj.Active {
			v += adj.Points
		}
	}
	return &v
}

// EffectiveWeight rescales an item's weight by its category's weight. A
// categorized item at weight w in a category weighted c contributes w/100*c.
func EffectiveWeight(g ItemGrade) float64 {
	w := 0.0
	if g.ItemWeight != nil {
		w = *g.ItemWeight
	}
	if g.CategoryWeight != nil {
		return w / 100 * *g.CategoryWeight
	}
	return w
}

// ComputeFinalGrade combines per-item grades into one weight-normalized
// course grade. Weights need not sum to 100: the weighted sum is divided by
// the total contributed weight, so partially-graded gradebooks degrade
// gracefully instead of skewing toward zero.
func ComputeFinalGrade(items []ItemGrade) FinalGrade {
	var (
		weightedSum float64
		totalWeight float64
		graded      int
	)
	for _, it := range items {
		eff := EffectiveGrade(it)
		if eff == nil {
			continue
		}
		graded++
		w := EffectiveWeight(it)
		totalWeight += w
		weightedSum += *eff * w
	}
	out := FinalGrade{TotalWeight: totalWeight, GradedItemCount: graded}
	if graded == 0 || totalWeight == 0 {
		return out
	}
	v := math.Round(weightedSum/totalWeight*100) / 100
	out.Grade = &v
	return out
}
