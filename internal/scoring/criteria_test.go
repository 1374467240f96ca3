package scoring

import "testing"

func TestInferCategory(t *testing.T) {
	cases := []struct {
		id   string
		want Category
	}{
		{"cost_a", CategoryCost},
		{"unit_price", CategoryCost},
		{"Budget Fit", CategoryCost},
		{"vendor_history", CategoryVendorRating},
		{"QUALITY_SYSTEM", CategoryVendorRating},
		{"overall rating", CategoryVendorRating},
		{"capability_cnc", CategoryCapability},
		{"technical_review", CategoryCapability},
		{"feasibility", CategoryCapability},
		{"delivery_speed", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := InferCategory(c.id); got != c.want {
			t.Errorf("InferCategory(%q) = %q, want %q", c.id, got, c.want)
		}
	}
}

// A criterion whose text matches several categories resolves to the
// first category in canonical order.
func TestInferCategoryPriority(t *testing.T) {
	if got := InferCategory("vendor_cost_review"); got != CategoryCost {
		t.Errorf("InferCategory(vendor_cost_review) = %q, want cost", got)
	}
	if got := InferCategory("technical_quality"); got != CategoryVendorRating {
		t.Errorf("InferCategory(technical_quality) = %q, want vendor_rating", got)
	}
}

func TestResolveCategoryExplicitWins(t *testing.T) {
	s := CriteriaScore{CriterionID: "cost_a", Category: CategoryCapability}
	if got := s.ResolveCategory(); got != CategoryCapability {
		t.Errorf("explicit category ignored: got %q", got)
	}

	s = CriteriaScore{CriterionID: "cost_a"}
	if got := s.ResolveCategory(); got != CategoryCost {
		t.Errorf("inference fallback broken: got %q", got)
	}
}
