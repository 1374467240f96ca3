package scoring

import "testing"

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	if w.Cost != 70 || w.VendorRating != 20 || w.Capability != 10 {
		t.Fatalf("DefaultWeights = %+v", w)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
}

func TestWeightsValidate(t *testing.T) {
	cases := []struct {
		w      Weights
		wantOK bool
	}{
		{Weights{70, 20, 10}, true},
		{Weights{100, 0, 0}, true},
		{Weights{50, 30, 10}, false},
		{Weights{-5, 95, 10}, false},
		{Weights{101, -1, 0}, false},
	}
	for _, c := range cases {
		err := c.w.Validate()
		if (err == nil) != c.wantOK {
			t.Errorf("Validate(%+v) err=%v, wantOK=%v", c.w, err, c.wantOK)
		}
	}
}

func TestWeightsRescale(t *testing.T) {
	w := Weights{Cost: 70, VendorRating: 20, Capability: 10}

	got, err := w.Rescale(CategoryCost, 50)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	want := Weights{Cost: 50, VendorRating: 33, Capability: 17}
	if got != want {
		t.Errorf("Rescale cost 70->50 = %+v, want %+v", got, want)
	}
}

// The sum must be exactly 100 after any single-weight edit.
func TestWeightsRescaleSumInvariant(t *testing.T) {
	start := []Weights{
		{70, 20, 10},
		{34, 33, 33},
		{100, 0, 0},
		{0, 50, 50},
		{1, 98, 1},
	}
	for _, w := range start {
		for _, cat := range Categories {
			for _, v := range []int{0, 1, 17, 33, 50, 99, 100} {
				got, err := w.Rescale(cat, v)
				if err != nil {
					t.Fatalf("Rescale(%+v, %s, %d): %v", w, cat, v, err)
				}
				if got.Sum() != 100 {
					t.Errorf("Rescale(%+v, %s, %d) = %+v, sum %d", w, cat, v, got, got.Sum())
				}
				if got.Of(cat) != v {
					t.Errorf("Rescale(%+v, %s, %d) target not applied: %+v", w, cat, v, got)
				}
				if got.Cost < 0 || got.VendorRating < 0 || got.Capability < 0 {
					t.Errorf("Rescale(%+v, %s, %d) produced negative weight: %+v", w, cat, v, got)
				}
			}
		}
	}
}

func TestWeightsRescaleNoChange(t *testing.T) {
	w := Weights{Cost: 70, VendorRating: 20, Capability: 10}
	got, err := w.Rescale(CategoryVendorRating, 20)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if got != w {
		t.Errorf("no-op rescale changed weights: %+v", got)
	}
}

// When both unchanged weights are zero the freed share is split evenly,
// odd remainder to the first of them.
func TestWeightsRescaleFromZeroOthers(t *testing.T) {
	w := Weights{Cost: 100, VendorRating: 0, Capability: 0}

	got, err := w.Rescale(CategoryCost, 70)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if (got != Weights{70, 15, 15}) {
		t.Errorf("even split broken: %+v", got)
	}

	got, err = w.Rescale(CategoryCost, 71)
	if err != nil {
		t.Fatalf("Rescale: %v", err)
	}
	if (got != Weights{71, 15, 14}) {
		t.Errorf("odd remainder placement broken: %+v", got)
	}
}

func TestWeightsRescaleOutOfRange(t *testing.T) {
	w := DefaultWeights()
	if _, err := w.Rescale(CategoryCost, 101); err == nil {
		t.Error("Rescale accepted 101")
	}
	if _, err := w.Rescale(CategoryCost, -1); err == nil {
		t.Error("Rescale accepted -1")
	}
}
