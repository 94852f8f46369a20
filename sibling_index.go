package mutationdiff

// siblingMode selects which position triple a SiblingIndex is keyed
// against: the node's original position at tracking start, or its
// current (mutated) position.
type siblingMode int

const (
	modeOriginal siblingMode = iota
	modeMutated
)

// SiblingIndex is a bidirectional map from a sibling node to the
// MovedNodeRecord that names it on one side of one mode, per spec.md
// §3/§4.2. Four instances exist in practice (original/prev,
// original/next, mutated/prev, mutated/next); TreeMutations owns all
// four and keeps them in lockstep with the records themselves (S1).
type SiblingIndex struct {
	mode    siblingMode
	side    Side
	byNode  map[NodeHandle]*MovedNodeRecord
}

// NewSiblingIndex constructs an empty index for one (mode, side) pair.
func NewSiblingIndex(mode siblingMode, side Side) *SiblingIndex {
	return &SiblingIndex{mode: mode, side: side, byNode: make(map[NodeHandle]*MovedNodeRecord)}
}

func (idx *SiblingIndex) triple(r *MovedNodeRecord) *PositionTriple {
	if idx.mode == modeOriginal {
		return r.Original
	}
	return r.Mutated
}

// Add indexes r under whatever concrete node currently sits in its
// (mode, side) slot. No-op if that slot isn't a concrete node.
func (idx *SiblingIndex) Add(r *MovedNodeRecord) {
	t := idx.triple(r)
	if t == nil {
		return
	}
	if n, ok := t.sibling(idx.side).Node(); ok {
		idx.byNode[n] = r
	}
}

// Remove un-indexes r from whatever concrete node currently sits in its
// (mode, side) slot.
func (idx *SiblingIndex) Remove(r *MovedNodeRecord) {
	t := idx.triple(r)
	if t == nil {
		return
	}
	if n, ok := t.sibling(idx.side).Node(); ok {
		if idx.byNode[n] == r {
			delete(idx.byNode, n)
		}
	}
}

// Lookup returns the record indexed under sibling n, if any.
func (idx *SiblingIndex) Lookup(n NodeHandle) (*MovedNodeRecord, bool) {
	r, ok := idx.byNode[n]
	return r, ok
}

// Update replaces r's (mode, side) slot with newSibling, removing any
// stale index entry and adding the new one. If r's position triple for
// this mode is still nil, it is lazily created first, treating
// newSibling as though it originated in parentHint (spec.md §4.2).
func (idx *SiblingIndex) Update(r *MovedNodeRecord, newSibling Sibling, parentHint NodeHandle, hasParentHint bool) {
	idx.Remove(r)
	t := idx.triple(r)
	if t == nil {
		nt := &PositionTriple{Parent: parentHint, HasParent: hasParentHint, PrevSib: UnknownSibling(), NextSib: UnknownSibling()}
		if idx.mode == modeOriginal {
			r.Original = nt
		} else {
			r.Mutated = nt
		}
		t = nt
	}
	t.setSibling(idx.side, newSibling)
	idx.Add(r)
}

// Clear drops every indexed entry.
func (idx *SiblingIndex) Clear() {
	idx.byNode = make(map[NodeHandle]*MovedNodeRecord)
}

// Len reports the number of indexed entries.
func (idx *SiblingIndex) Len() int { return len(idx.byNode) }
