package mutationdiff_test

import (
	. "github.com/watchtree/mutationdiff"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/watchtree/mutationdiff/internal/testtree"
)

// moveToFront relocates node to be parent's first child, recording the
// removal and re-insertion exactly as a real MutationObserver would
// report them: as two separate child-list notifications.
func moveToFront(t *testing.T, tt *testtree.Tree, d *MutationDiff, parent, node NodeHandle) {
	t.Helper()
	oldPrev, oldNext := tt.SiblingsOf(node)
	tt.Remove(node)
	require.NoError(t, d.Record(MutationRecord{Kind: RecordChildList, Parent: parent, Removed: []NodeHandle{node}, PreviousSib: oldPrev, NextSib: oldNext}))
	tt.Prepend(parent, node)
	newPrev, newNext := tt.SiblingsOf(node)
	require.NoError(t, d.Record(MutationRecord{Kind: RecordChildList, Parent: parent, Added: []NodeHandle{node}, PreviousSib: newPrev, NextSib: newNext}))
}

// moveToEnd is moveToFront's mirror image, appending instead of prepending.
func moveToEnd(t *testing.T, tt *testtree.Tree, d *MutationDiff, parent, node NodeHandle) {
	t.Helper()
	oldPrev, oldNext := tt.SiblingsOf(node)
	tt.Remove(node)
	require.NoError(t, d.Record(MutationRecord{Kind: RecordChildList, Parent: parent, Removed: []NodeHandle{node}, PreviousSib: oldPrev, NextSib: oldNext}))
	tt.Append(parent, node)
	newPrev, newNext := tt.SiblingsOf(node)
	require.NoError(t, d.Record(MutationRecord{Kind: RecordChildList, Parent: parent, Added: []NodeHandle{node}, PreviousSib: newPrev, NextSib: newNext}))
}

func newABCTree() (tt *testtree.Tree, root, a, b, c NodeHandle) {
	tt = testtree.New()
	root = tt.NewElement()
	a = tt.NewElement()
	b = tt.NewElement()
	c = tt.NewElement()
	tt.Append(root, a)
	tt.Append(root, b)
	tt.Append(root, c)
	return
}

func assertOrder(t *testing.T, tt *testtree.Tree, root NodeHandle, want ...NodeHandle) {
	t.Helper()
	require.Equal(t, want, tt.Children(root))
}

// Scenario 1: Cycle-back.
func TestScenarioCycleBack(t *testing.T) {
	tt, root, a, b, c := newABCTree()
	d := NewMutationDiff(tt)

	moveToEnd(t, tt, d, root, a)
	moveToFront(t, tt, d, root, c)
	moveToFront(t, tt, d, root, b)

	assertOrder(t, tt, root, b, c, a)

	require.True(t, d.Mutated(), "expected Mutated() == true after the cycle")
	rng, err := d.RangeUnder(root)
	require.NoError(t, err)
	require.False(t, rng.IsZero(), "expected a non-zero range covering R's content")

	result := d.Revert(nil)
	require.Empty(t, result.SkippedGroups)
	assertOrder(t, tt, root, a, b, c)
}

// Scenario 2: Rotation — three full-circle appends return the tree to its
// starting order, so nothing should remain floating.
func TestScenarioRotation(t *testing.T) {
	tt, root, a, b, c := newABCTree()
	d := NewMutationDiff(tt)

	moveToEnd(t, tt, d, root, a)
	moveToEnd(t, tt, d, root, b)
	moveToEnd(t, tt, d, root, c)

	assertOrder(t, tt, root, a, b, c)

	require.False(t, d.Mutated(), "a full rotation back to the original order should leave nothing mutated")
	rng, err := d.RangeUnder(root)
	require.NoError(t, err)
	require.True(t, rng.IsZero(), "expected a zero range, got %+v", rng)
}

// Scenario 3: Mixed remove.
func TestScenarioMixedRemove(t *testing.T) {
	tt, root, a, b, c := newABCTree()
	d := NewMutationDiff(tt)

	moveToEnd(t, tt, d, root, a)
	moveToEnd(t, tt, d, root, b)

	oldPrev, oldNext := tt.SiblingsOf(c)
	tt.Remove(c)
	require.NoError(t, d.Record(MutationRecord{Kind: RecordChildList, Parent: root, Removed: []NodeHandle{c}, PreviousSib: oldPrev, NextSib: oldNext}))

	assertOrder(t, tt, root, a, b)

	result := d.Revert(nil)
	assertOrder(t, tt, root, a, b, c)
	require.Positive(t, result.MovedNodes, "expected at least one node to be placed back by Revert")
}

// Scenario 4: Attribute toggle-and-restore.
func TestScenarioAttributeToggleAndRestore(t *testing.T) {
	tt := testtree.New()
	a := tt.NewElement()
	tt.SetAttribute(a, "class", "x")
	d := NewMutationDiff(tt)

	tt.SetAttribute(a, "class", "y")
	require.NoError(t, d.Record(MutationRecord{Kind: RecordAttribute, Target: a, AttrName: "class", AttrOldValue: "x", AttrHadValue: true}))
	tt.SetAttribute(a, "class", "x")
	require.NoError(t, d.Record(MutationRecord{Kind: RecordAttribute, Target: a, AttrName: "class", AttrOldValue: "y", AttrHadValue: true}))

	require.False(t, d.Mutated(), "toggling an attribute back to its original value should leave nothing dirty")
}

// Scenario 5: Character-data edit-then-revert.
func TestScenarioCharacterDataEditThenRevert(t *testing.T) {
	tt := testtree.New()
	text := tt.NewText("hi")
	d := NewMutationDiff(tt)

	tt.SetData(text, "hello")
	require.NoError(t, d.Record(MutationRecord{Kind: RecordCharacterData, Target: text, DataOldValue: "hi"}))
	tt.SetData(text, "hi")
	require.NoError(t, d.Record(MutationRecord{Kind: RecordCharacterData, Target: text, DataOldValue: "hello"}))

	require.False(t, d.Mutated(), "editing character data back to its original value should leave nothing dirty")
}

// Scenario 6: Unknown-sibling promise. X is inserted outside the
// tracked notification stream, so A's removal can only report its
// previous sibling as Unknown; synchronize() is what discovers X.
func TestScenarioUnknownSiblingPromise(t *testing.T) {
	tt := testtree.New()
	root := tt.NewElement()
	a := tt.NewElement()
	x := tt.NewElement()
	tt.Append(root, a)

	d := NewMutationDiff(tt)

	// X is inserted before A without ever being recorded.
	tt.InsertBefore(root, x, a)

	// A is removed; the embedder can't determine what's now before it.
	tt.Remove(a)
	require.NoError(t, d.Record(MutationRecord{
		Kind:        RecordChildList,
		Parent:      root,
		Removed:     []NodeHandle{a},
		PreviousSib: UnknownSibling(),
		NextSib:     EndSibling(),
	}))

	d.Synchronize()

	result, err := d.Diff(DiffOriginal|DiffChildren, nil)
	require.NoError(t, err)

	var originalPrev NodeHandle
	var hasOriginalPrev bool
	for _, nd := range result.Nodes {
		if nd.Node == a && nd.Original != nil {
			originalPrev, hasOriginalPrev = nd.Original.PrevSib.Node()
		}
	}
	require.True(t, hasOriginalPrev, "expected A's original prev to be known after synchronize")
	require.Equal(t, x, originalPrev, "expected A's original prev to resolve to X after synchronize")
}
