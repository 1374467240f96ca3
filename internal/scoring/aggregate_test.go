package scoring

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCategoryPercentages(t *testing.T) {
	scores := []CriteriaScore{
		{CriterionID: "cost_a", Score: 80, MaxScore: 100},
		{CriterionID: "cost_b", Score: 60, MaxScore: 100},
		{CriterionID: "vendor_rating", Score: 45, MaxScore: 50},
		{CriterionID: "capability_cnc", Score: 18, MaxScore: 20},
	}

	b, err := CategoryPercentages(scores)
	if err != nil {
		t.Fatalf("CategoryPercentages: %v", err)
	}
	if !almostEqual(b.Cost.Percent, 70.0) {
		t.Errorf("cost percent = %v, want 70.0", b.Cost.Percent)
	}
	if !b.Cost.Evaluated || b.Cost.Count != 2 {
		t.Errorf("cost result = %+v, want evaluated with 2 criteria", b.Cost)
	}
	if !almostEqual(b.VendorRating.Percent, 90.0) {
		t.Errorf("vendor rating percent = %v, want 90.0", b.VendorRating.Percent)
	}
	if !almostEqual(b.Capability.Percent, 90.0) {
		t.Errorf("capability percent = %v, want 90.0", b.Capability.Percent)
	}
}

// No matching criteria must yield zero percentages without an error,
// with Evaluated distinguishing the empty case from a scored zero.
func TestCategoryPercentagesNoMatch(t *testing.T) {
	scores := []CriteriaScore{
		{CriterionID: "delivery_speed", Score: 10, MaxScore: 10},
		{CriterionID: "misc", Score: 5, MaxScore: 10},
	}

	b, err := CategoryPercentages(scores)
	if err != nil {
		t.Fatalf("CategoryPercentages: %v", err)
	}
	for _, cat := range Categories {
		r := b.Of(cat)
		if r.Percent != 0 || r.Evaluated {
			t.Errorf("%s = %+v, want zero and not evaluated", cat, r)
		}
	}
}

func TestCategoryPercentagesZeroMax(t *testing.T) {
	scores := []CriteriaScore{
		{CriterionID: "cost_a", Score: 0, MaxScore: 0},
	}
	_, err := CategoryPercentages(scores)
	if !errors.Is(err, ErrZeroMaxScore) {
		t.Fatalf("err = %v, want ErrZeroMaxScore", err)
	}
}

// Results stay within [0, 100] whenever 0 <= score <= maxScore.
func TestCategoryPercentagesRange(t *testing.T) {
	cases := [][]CriteriaScore{
		{{CriterionID: "cost_a", Score: 0, MaxScore: 100}},
		{{CriterionID: "cost_a", Score: 100, MaxScore: 100}},
		{{CriterionID: "cost_a", Score: 1, MaxScore: 3}, {CriterionID: "cost_b", Score: 2, MaxScore: 3}},
		{{CriterionID: "quality_x", Score: 7.5, MaxScore: 15}},
	}
	for i, scores := range cases {
		b, err := CategoryPercentages(scores)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		for _, cat := range Categories {
			p := b.Of(cat).Percent
			if p < 0 || p > 100 {
				t.Errorf("case %d: %s percent %v out of [0,100]", i, cat, p)
			}
		}
	}
}

func TestResolveStoredPrecedence(t *testing.T) {
	computed := Breakdown{
		Cost:       CategoryResult{Percent: 70, Evaluated: true, Count: 2},
		Capability: CategoryResult{Percent: 90, Evaluated: true, Count: 1},
	}
	stored := StoredScores{Cost: ptr(55.5), VendorRating: ptr(40.0)}

	out := Resolve(stored, computed)
	if !almostEqual(out.Cost.Percent, 55.5) {
		t.Errorf("stored cost not honored: %v", out.Cost.Percent)
	}
	if !almostEqual(out.VendorRating.Percent, 40.0) || !out.VendorRating.Evaluated {
		t.Errorf("stored vendor rating not honored: %+v", out.VendorRating)
	}
	// no stored capability, computed value stands
	if !almostEqual(out.Capability.Percent, 90.0) {
		t.Errorf("computed capability lost: %v", out.Capability.Percent)
	}
}

func TestOverall(t *testing.T) {
	b := Breakdown{
		Cost:         CategoryResult{Percent: 70, Evaluated: true},
		VendorRating: CategoryResult{Percent: 50, Evaluated: true},
		Capability:   CategoryResult{Percent: 90, Evaluated: true},
	}
	w := Weights{Cost: 70, VendorRating: 20, Capability: 10}

	got := Overall(b, w)
	if !almostEqual(got, 68.0) {
		t.Errorf("Overall = %v, want 68.0", got)
	}

	// pure function, same inputs -> same output
	if again := Overall(b, w); again != got {
		t.Errorf("Overall not deterministic: %v != %v", again, got)
	}
}

func TestOverallDefaultWeights(t *testing.T) {
	b := Breakdown{
		Cost:         CategoryResult{Percent: 100, Evaluated: true},
		VendorRating: CategoryResult{Percent: 100, Evaluated: true},
		Capability:   CategoryResult{Percent: 100, Evaluated: true},
	}
	if got := Overall(b, DefaultWeights()); !almostEqual(got, 100.0) {
		t.Errorf("Overall at full marks = %v, want 100.0", got)
	}
	if got := Overall(Breakdown{}, DefaultWeights()); got != 0 {
		t.Errorf("Overall of empty breakdown = %v, want 0", got)
	}
}

func ptr(v float64) *float64 { return &v }
