package scoring

import "testing"

func TestRank(t *testing.T) {
	vendors := []string{"v1", "v2", "v3"}
	values := map[string]float64{"v1": 12.5, "v2": 9.8, "v3": 15.0}

	ranks := Rank(vendors, values)
	if ranks["v2"] != 1 || ranks["v1"] != 2 || ranks["v3"] != 3 {
		t.Errorf("ranks = %v, want v2=1 v1=2 v3=3", ranks)
	}
}

// Equal values keep vendor insertion order.
func TestRankTies(t *testing.T) {
	vendors := []string{"v1", "v2", "v3"}
	values := map[string]float64{"v1": 10, "v2": 10, "v3": 5}

	ranks := Rank(vendors, values)
	if ranks["v3"] != 1 || ranks["v1"] != 2 || ranks["v2"] != 3 {
		t.Errorf("tie-break broken: %v", ranks)
	}
}

func TestRankMissingValues(t *testing.T) {
	vendors := []string{"v1", "v2", "v3"}
	values := map[string]float64{"v2": 3.0}

	ranks := Rank(vendors, values)
	if len(ranks) != 1 || ranks["v2"] != 1 {
		t.Errorf("ranks = %v, want only v2=1", ranks)
	}
}

func TestRankEmpty(t *testing.T) {
	if ranks := Rank(nil, nil); len(ranks) != 0 {
		t.Errorf("ranks of nothing = %v", ranks)
	}
}

func TestCostRowValueOf(t *testing.T) {
	row := CostRow{
		Component: "Raw material cost",
		Values:    map[string]float64{"v1": 4.2},
		Terms:     map[string]string{"v1": "NET 30"},
	}
	if v, ok := row.ValueOf("v1"); !ok || v != 4.2 {
		t.Errorf("ValueOf(v1) = (%v, %v)", v, ok)
	}
	if _, ok := row.ValueOf("v9"); ok {
		t.Error("ValueOf(v9) reported a value")
	}
}
