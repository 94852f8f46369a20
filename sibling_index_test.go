package mutationdiff

import "testing"

func TestSiblingIndexAddLookupRemove(t *testing.T) {
	idx := NewSiblingIndex(modeMutated, Next)
	rec := newMovedNodeRecord(1)
	rec.Mutated = &PositionTriple{Parent: 9, HasParent: true, PrevSib: UnknownSibling(), NextSib: NodeSibling(2)}

	idx.Add(rec)
	found, ok := idx.Lookup(2)
	if !ok || found != rec {
		t.Fatalf("Lookup(2) = %v, %v", found, ok)
	}

	idx.Remove(rec)
	if _, ok := idx.Lookup(2); ok {
		t.Fatal("Remove should have dropped the index entry")
	}
}

func TestSiblingIndexUpdateLazilyCreatesTriple(t *testing.T) {
	idx := NewSiblingIndex(modeOriginal, Prev)
	rec := newMovedNodeRecord(1)

	idx.Update(rec, NodeSibling(5), 9, true)
	if rec.Original == nil {
		t.Fatal("Update should lazily create the original triple")
	}
	if rec.Original.Parent != 9 || !rec.Original.HasParent {
		t.Fatalf("Update did not apply parentHint: %+v", rec.Original)
	}
	if n, ok := rec.Original.PrevSib.Node(); !ok || n != 5 {
		t.Fatalf("Update did not set PrevSib: %+v", rec.Original.PrevSib)
	}
	found, ok := idx.Lookup(5)
	if !ok || found != rec {
		t.Fatal("Update should index the new slot value")
	}
}

func TestSiblingIndexUpdateReplacesStaleEntry(t *testing.T) {
	idx := NewSiblingIndex(modeMutated, Next)
	rec := newMovedNodeRecord(1)
	rec.Mutated = &PositionTriple{PrevSib: UnknownSibling(), NextSib: NodeSibling(2)}
	idx.Add(rec)

	idx.Update(rec, NodeSibling(3), 0, false)
	if _, ok := idx.Lookup(2); ok {
		t.Fatal("stale index entry for 2 should be gone")
	}
	found, ok := idx.Lookup(3)
	if !ok || found != rec {
		t.Fatal("new index entry for 3 should be present")
	}
}
