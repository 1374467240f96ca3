package scoring

import (
	"errors"
	"testing"
)

func TestAggregateRating(t *testing.T) {
	rows := []RatingRow{
		{Group: RatingGroupQuality, Aspect: "Incoming quality control", SectionPercent: 80, RiskPercent: 90, MinorNC: 1, MajorNC: 0},
		{Group: RatingGroupCost, Aspect: "Cost transparency", SectionPercent: 60, RiskPercent: 70, MinorNC: 2, MajorNC: 1},
	}

	s := AggregateRating(rows)
	if !almostEqual(s.SectionPercent, 70.0) {
		t.Errorf("section percent = %v, want 70.0", s.SectionPercent)
	}
	if !almostEqual(s.RiskPercent, 80.0) {
		t.Errorf("risk percent = %v, want 80.0", s.RiskPercent)
	}
	if s.MinorNC != 3 {
		t.Errorf("minor NC total = %d, want 3", s.MinorNC)
	}
	if s.MajorNC != 1 {
		t.Errorf("major NC total = %d, want 1", s.MajorNC)
	}
	if s.Rows != 2 {
		t.Errorf("rows = %d, want 2", s.Rows)
	}
}

func TestAggregateRatingEmpty(t *testing.T) {
	s := AggregateRating(nil)
	if s != (RatingSummary{}) {
		t.Errorf("empty matrix summary = %+v, want zero value", s)
	}
}

func TestDefaultRatingRows(t *testing.T) {
	rows := DefaultRatingRows()
	if len(rows) != 13 {
		t.Fatalf("default rows = %d, want 13", len(rows))
	}

	groups := map[string]int{}
	for _, r := range rows {
		groups[r.Group]++
		if r.Aspect == "" {
			t.Errorf("row with empty aspect in group %s", r.Group)
		}
		if r.SectionPercent != 0 || r.MinorNC != 0 {
			t.Errorf("default row %s not blank: %+v", r.Aspect, r)
		}
	}
	want := map[string]int{
		RatingGroupQuality:     3,
		RatingGroupCost:        2,
		RatingGroupLogistics:   2,
		RatingGroupDevelopment: 2,
		RatingGroupManagement:  2,
		RatingGroupCoreProcess: 2,
	}
	for g, n := range want {
		if groups[g] != n {
			t.Errorf("group %s has %d rows, want %d", g, groups[g], n)
		}
	}
}

func TestCapabilityPercent(t *testing.T) {
	entries := []CapabilityEntry{
		{Criterion: "CNC machining", Score: 8, MaxScore: 10},
		{Criterion: "Surface finishing", Score: 6, MaxScore: 10},
	}
	pct, ok, err := CapabilityPercent(entries)
	if err != nil {
		t.Fatalf("CapabilityPercent: %v", err)
	}
	if !ok || !almostEqual(pct, 70.0) {
		t.Errorf("CapabilityPercent = (%v, %v), want (70.0, true)", pct, ok)
	}
}

func TestCapabilityPercentEmpty(t *testing.T) {
	pct, ok, err := CapabilityPercent(nil)
	if err != nil || ok || pct != 0 {
		t.Errorf("empty entries = (%v, %v, %v), want (0, false, nil)", pct, ok, err)
	}
}

func TestCapabilityPercentZeroMax(t *testing.T) {
	_, _, err := CapabilityPercent([]CapabilityEntry{{Criterion: "x", Score: 1, MaxScore: 0}})
	if !errors.Is(err, ErrZeroMaxScore) {
		t.Fatalf("err = %v, want ErrZeroMaxScore", err)
	}
}
