package model

import "testing"

func TestRingKeepsArrivalOrder(t *testing.T) {
	r := NewRing(3)
	for i := int64(1); i <= 2; i++ {
		r.Push(&LogMessage{ID: i})
	}
	got, total, dropped := r.Snapshot()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("snapshot = %v, want ids 1,2", ids(got))
	}
	if total != 2 || dropped != 0 {
		t.Fatalf("total=%d dropped=%d, want 2 and 0", total, dropped)
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	r := NewRing(3)
	for i := int64(1); i <= 5; i++ {
		r.Push(&LogMessage{ID: i})
	}
	got, total, dropped := r.Snapshot()
	want := []int64{3, 4, 5}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("snapshot = %v, want %v", ids(got), want)
		}
	}
	if total != 5 || dropped != 2 {
		t.Fatalf("total=%d dropped=%d, want 5 and 2", total, dropped)
	}
}

func TestRingSnapshotIsIndependent(t *testing.T) {
	r := NewRing(4)
	r.Push(&LogMessage{ID: 1})
	first, _, _ := r.Snapshot()
	r.Push(&LogMessage{ID: 2})
	if len(first) != 1 {
		t.Fatalf("earlier snapshot grew to %d entries", len(first))
	}
}

func TestRingClearVisibleKeepsCounters(t *testing.T) {
	r := NewRing(2)
	r.Push(&LogMessage{ID: 1})
	r.Push(&LogMessage{ID: 2})
	r.Push(&LogMessage{ID: 3})
	r.ClearVisible()
	got, total, dropped := r.Snapshot()
	if len(got) != 0 || r.Len() != 0 {
		t.Fatalf("expected empty ring after clear, got %d", len(got))
	}
	if total != 3 || dropped != 1 {
		t.Fatalf("total=%d dropped=%d, want 3 and 1", total, dropped)
	}
}

func ids(ms []*LogMessage) []int64 {
	out := make([]int64, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
