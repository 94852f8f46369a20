package mutationdiff

// MovedNodeRecord is {node, original, mutated} from spec.md §3. Original
// nil means the node did not exist in tracked scope when tracking began
// (a pure addition); Mutated nil means the node is presently removed.
// The two are never both nil except transiently mid-ingest.
type MovedNodeRecord struct {
	Node     NodeHandle
	Original *PositionTriple
	Mutated  *PositionTriple

	// tried records, per original side, whether the latest reversion
	// check during the current Mutate/Synchronize call found that side
	// not (yet) reverted. propagateFixedness writes it; no check reads it
	// to skip a side, so every re-check tests both sides again.
	tried [2]bool
}

func newMovedNodeRecord(n NodeHandle) *MovedNodeRecord {
	return &MovedNodeRecord{Node: n}
}

// isPureAddition reports whether this record describes a node that
// didn't exist in the tracked tree at all when tracking began.
func (r *MovedNodeRecord) isPureAddition() bool { return r.Original == nil }

// isRemoved reports whether the node is presently detached.
func (r *MovedNodeRecord) isRemoved() bool { return r.Mutated == nil }

// resetTried clears the per-call "already tried this side" bits. Called
// at the start of each mutation()/synchronize() pass, per the ordering
// guarantee that fixedness propagation never revisits a record already
// marked fixed *within one call*, but may be reconsidered on the next.
func (r *MovedNodeRecord) resetTried() { r.tried = [2]bool{} }

// equalPositions reports whether Original and Mutated currently describe
// the same place in the tree (candidate for M4's "drop the record" rule).
func (r *MovedNodeRecord) equalPositions() bool {
	if r.Original == nil || r.Mutated == nil {
		return false
	}
	return equalPosition(*r.Original, *r.Mutated)
}

// FloatingSet is the Node -> MovedNodeRecord map from spec.md §3
// ("Floating set"), satisfying invariants F1/F2.
type FloatingSet struct {
	byNode map[NodeHandle]*MovedNodeRecord
}

// NewFloatingSet constructs an empty floating set.
func NewFloatingSet() *FloatingSet {
	return &FloatingSet{byNode: make(map[NodeHandle]*MovedNodeRecord)}
}

// Get returns the record for n, if it is floating.
func (f *FloatingSet) Get(n NodeHandle) (*MovedNodeRecord, bool) {
	r, ok := f.byNode[n]
	return r, ok
}

// GetOrCreate returns n's existing record, or allocates and inserts a
// fresh one.
func (f *FloatingSet) GetOrCreate(n NodeHandle) (*MovedNodeRecord, bool) {
	if r, ok := f.byNode[n]; ok {
		return r, true
	}
	r := newMovedNodeRecord(n)
	f.byNode[n] = r
	return r, false
}

// Delete removes n's record, if present.
func (f *FloatingSet) Delete(n NodeHandle) {
	delete(f.byNode, n)
}

// Len reports the number of floating nodes.
func (f *FloatingSet) Len() int { return len(f.byNode) }

// Each iterates every floating record. Mutating the set from inside the
// callback is not supported.
func (f *FloatingSet) Each(fn func(*MovedNodeRecord)) {
	for _, r := range f.byNode {
		fn(r)
	}
}

// Clear drops every floating record.
func (f *FloatingSet) Clear() {
	f.byNode = make(map[NodeHandle]*MovedNodeRecord)
}
