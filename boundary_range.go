package mutationdiff

// BoundarySide names which edge of a node a Boundary anchors to.
type BoundarySide int

const (
	Before BoundarySide = iota
	After
)

// Boundary is a node-anchored point: (node, side, inclusive). Unlike a
// DOM Range's (container, offset) pair, a Boundary names a node directly
// and a side of it, which is the cheaper representation to maintain
// incrementally as nodes move rather than recomputing offsets.
type Boundary struct {
	Node      NodeHandle
	HasNode   bool
	Side      BoundarySide
	Inclusive bool
}

func nodeBoundary(n NodeHandle, side BoundarySide, inclusive bool) Boundary {
	return Boundary{Node: n, HasNode: true, Side: side, Inclusive: inclusive}
}

// BoundaryRange is a pair of boundaries used only to report the bounding
// extent of tracked mutations (spec.md §4.8). It is a pure value type:
// copying a BoundaryRange never aliases mutable state.
type BoundaryRange struct {
	Start Boundary
	End   Boundary
	valid bool
}

// IsZero reports whether the range has never been set.
func (r BoundaryRange) IsZero() bool { return !r.valid }

// SelectNode sets the range to exactly bracket n: start before n,
// end after n.
func (r *BoundaryRange) SelectNode(n NodeHandle) {
	r.Start = nodeBoundary(n, Before, true)
	r.End = nodeBoundary(n, After, true)
	r.valid = true
}

// SetStart moves the range's start boundary to n. If after is true the
// boundary sits just after n instead of just before it. If collapse is
// true the end boundary is pulled in to match.
func (r *BoundaryRange) SetStart(n NodeHandle, after, collapse bool) {
	side := Before
	if after {
		side = After
	}
	r.Start = nodeBoundary(n, side, true)
	if collapse {
		r.End = r.Start
	}
	r.valid = true
}

// SetEnd moves the range's end boundary to n. If before is true the
// boundary sits just before n instead of just after it.
func (r *BoundaryRange) SetEnd(n NodeHandle, before, collapse bool) {
	side := After
	if before {
		side = Before
	}
	r.End = nodeBoundary(n, side, true)
	if collapse {
		r.Start = r.End
	}
	r.valid = true
}

// CloneRange returns an independent copy.
func (r BoundaryRange) CloneRange() BoundaryRange { return r }

// IsEqual reports whether two ranges have identical start/end boundaries.
func (r BoundaryRange) IsEqual(o BoundaryRange) bool {
	return r.valid == o.valid && r.Start == o.Start && r.End == o.End
}

// Extend unions other into r, honoring containment: the earlier of the
// two starts wins, the later of the two ends wins. order reports the
// document-order comparison between a node in r and a node in other,
// matching Tree.ComparePosition's convention (PositionPreceding means
// the first argument comes first).
func (r *BoundaryRange) Extend(other BoundaryRange, order func(a, b NodeHandle) DocumentPosition) {
	if other.IsZero() {
		return
	}
	if r.IsZero() {
		*r = other
		return
	}
	if boundaryPrecedes(other.Start, r.Start, order) {
		r.Start = other.Start
	}
	if boundaryPrecedes(r.End, other.End, order) {
		r.End = other.End
	}
}

// boundaryPrecedes reports whether a comes strictly before b in document
// order. Boundaries on the same node are ordered by side (Before < After).
func boundaryPrecedes(a, b Boundary, order func(x, y NodeHandle) DocumentPosition) bool {
	if !a.HasNode || !b.HasNode {
		return false
	}
	if a.Node == b.Node {
		return a.Side == Before && b.Side == After
	}
	pos := order(a.Node, b.Node)
	switch {
	case pos&PositionContains != 0:
		// a's node is an ancestor of b's: its start precedes, its end follows.
		return a.Side == Before
	case pos&PositionContainedBy != 0:
		// a's node is inside b's: a precedes only b's end.
		return b.Side == After
	}
	return pos&PositionPreceding != 0
}
