package scoring

import "testing"

func TestDraftStageAndSnapshot(t *testing.T) {
	d := NewDraft()
	d.Stage("cost_a", "v1", 80)
	d.Stage("cost_b", "v1", 60)
	d.Stage("cost_a", "v2", 75)

	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}

	got := d.Snapshot()
	want := []PendingEdit{
		{CriterionID: "cost_a", VendorID: "v1", Score: 80},
		{CriterionID: "cost_b", VendorID: "v1", Score: 60},
		{CriterionID: "cost_a", VendorID: "v2", Score: 75},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// Restaging the same key overwrites the value, keeps the original position.
func TestDraftOverwrite(t *testing.T) {
	d := NewDraft()
	d.Stage("cost_a", "v1", 80)
	d.Stage("cost_b", "v1", 60)
	d.Stage("cost_a", "v1", 95)

	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
	got := d.Snapshot()
	if got[0].Score != 95 || got[0].CriterionID != "cost_a" {
		t.Errorf("snapshot[0] = %+v, want updated cost_a first", got[0])
	}
}

func TestDraftDiscard(t *testing.T) {
	d := NewDraft()
	d.Stage("cost_a", "v1", 80)
	d.Discard()

	if d.Len() != 0 {
		t.Errorf("Len after discard = %d", d.Len())
	}
	if snap := d.Snapshot(); len(snap) != 0 {
		t.Errorf("snapshot after discard = %v", snap)
	}

	// buffer is reusable after discard
	d.Stage("cost_a", "v1", 50)
	if d.Len() != 1 {
		t.Errorf("Len after restage = %d", d.Len())
	}
}
