package mutationdiff_test

import (
	"testing"

	. "github.com/watchtree/mutationdiff"
	"github.com/watchtree/mutationdiff/internal/testtree"
)

func TestTreeMutationsSimpleMoveAndRevert(t *testing.T) {
	tt := testtree.New()
	root := tt.NewElement()
	a := tt.NewElement()
	b := tt.NewElement()
	c := tt.NewElement()
	tt.Append(root, a)
	tt.Append(root, b)
	tt.Append(root, c)

	tm := NewTreeMutations(&Config{})

	// Move c to the front: remove c from between b/End, add it before a.
	tm.Mutate(root, []NodeHandle{c}, nil, NodeSibling(b), EndSibling())
	tt.Remove(c)
	tm.Mutate(root, nil, []NodeHandle{c}, EndSibling(), NodeSibling(a))
	tt.Prepend(root, c)

	if tm.Floating().Len() == 0 {
		t.Fatal("moving c should leave it floating")
	}
	rec, ok := tm.Floating().Get(c)
	if !ok {
		t.Fatal("c should be in the floating set")
	}
	if n, ok := rec.Original.PrevSib.Node(); !ok || n != b {
		t.Fatalf("c's original prev should be b, got %+v", rec.Original.PrevSib)
	}
	if !rec.Original.NextSib.IsEnd() {
		t.Fatalf("c's original next should be End, got %+v", rec.Original.NextSib)
	}

	result := tm.Revert(tt)
	if result.Applied != 1 {
		t.Fatalf("Revert applied %d nodes, want 1", result.Applied)
	}
	got := tt.Children(root)
	want := []NodeHandle{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("children after revert = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children after revert = %v, want %v", got, want)
		}
	}
	if tm.Floating().Len() != 0 {
		t.Fatal("Revert should clear the floating set")
	}
}

func TestTreeMutationsRoundTripBecomesFixed(t *testing.T) {
	tt := testtree.New()
	root := tt.NewElement()
	a := tt.NewElement()
	b := tt.NewElement()
	tt.Append(root, a)
	tt.Append(root, b)

	tm := NewTreeMutations(&Config{})

	// Remove a, then put it right back in the same place.
	tm.Mutate(root, []NodeHandle{a}, nil, EndSibling(), NodeSibling(b))
	tt.Remove(a)
	tm.Mutate(root, nil, []NodeHandle{a}, EndSibling(), NodeSibling(b))
	tt.Prepend(root, a)

	if tm.Floating().Len() != 0 {
		t.Fatalf("a round-tripped node should become fixed again, %d still floating", tm.Floating().Len())
	}
}

func TestTreeMutationsPureAdditionThenRemovalCancels(t *testing.T) {
	tt := testtree.New()
	root := tt.NewElement()
	x := tt.NewElement()

	tm := NewTreeMutations(&Config{})
	tm.Mutate(root, nil, []NodeHandle{x}, EndSibling(), EndSibling())
	if tm.Floating().Len() != 1 {
		t.Fatal("a freshly added node should be floating")
	}
	tm.Mutate(root, []NodeHandle{x}, nil, EndSibling(), EndSibling())
	if tm.Floating().Len() != 0 {
		t.Fatal("removing a pure addition should cancel its record entirely")
	}
}

func TestTreeMutationsSynchronizeFillsUnknownMutatedSibling(t *testing.T) {
	tt := testtree.New()
	root := tt.NewElement()
	a := tt.NewElement()
	b := tt.NewElement()
	c := tt.NewElement()
	tt.Append(root, a)
	tt.Append(root, b)
	tt.Append(root, c)

	tm := NewTreeMutations(&Config{})
	// Report the removal of b without knowing its live neighbors.
	tm.Mutate(root, []NodeHandle{b}, nil, UnknownSibling(), UnknownSibling())
	tt.Remove(b)
	// Re-add b elsewhere, again without reporting the live neighbors.
	tt.Append(root, b)
	tm.Mutate(root, nil, []NodeHandle{b}, UnknownSibling(), UnknownSibling())

	rec, ok := tm.Floating().Get(b)
	if !ok {
		t.Fatal("b should still be floating before synchronize")
	}
	if !rec.Mutated.PrevSib.IsUnknown() {
		t.Fatalf("mutated prev should be unknown before synchronize, got %+v", rec.Mutated.PrevSib)
	}

	tm.Synchronize(tt)
	rec, ok = tm.Floating().Get(b)
	if ok {
		if n, isNode := rec.Mutated.PrevSib.Node(); isNode && n != c {
			t.Fatalf("after synchronize, mutated prev should be c, got %+v", rec.Mutated.PrevSib)
		}
	}
}
