package mutationdiff

// NodeHandle identifies a tracked node. The core never touches a node
// directly; every tree-shaped lookup is keyed on the handle the embedder
// hands back from Tree.ParentOf / Tree.SiblingsOf (see tree.go).
type NodeHandle uint64

// Side names one of the two directions a sibling can sit in.
type Side int

const (
	Prev Side = iota
	Next
)

func (s Side) String() string {
	if s == Prev {
		return "prev"
	}
	return "next"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Prev {
		return Next
	}
	return Prev
}

// siblingKind distinguishes the four states a prev/next slot can hold:
// a concrete node, the end of the parent, "not yet observed", or a
// pending SiblingPromise. Modeling this as a tagged union (rather than
// overloading nil) makes every call site that switches on it exhaustive.
type siblingKind int

const (
	siblingUnknown siblingKind = iota // undefined: not yet observed
	siblingEnd                        // null: end of parent, no sibling
	siblingNode                       // a concrete NodeHandle
	siblingPromise                    // a SiblingPromise is pending here
)

// Sibling is the tagged prev/next slot value described in spec.md §3.
type Sibling struct {
	kind    siblingKind
	node    NodeHandle
	promise PromiseID
}

// UnknownSibling marks a slot that has not yet been observed.
func UnknownSibling() Sibling { return Sibling{kind: siblingUnknown} }

// EndSibling marks "end of parent" (no sibling on that side).
func EndSibling() Sibling { return Sibling{kind: siblingEnd} }

// NodeSibling wraps a concrete sibling node.
func NodeSibling(n NodeHandle) Sibling { return Sibling{kind: siblingNode, node: n} }

// PromiseSibling wraps a pending SiblingPromise.
func PromiseSibling(id PromiseID) Sibling { return Sibling{kind: siblingPromise, promise: id} }

func (s Sibling) IsUnknown() bool { return s.kind == siblingUnknown }
func (s Sibling) IsEnd() bool     { return s.kind == siblingEnd }
func (s Sibling) IsNode() bool    { return s.kind == siblingNode }
func (s Sibling) IsPromise() bool { return s.kind == siblingPromise }

// Node returns the sibling's node handle; ok is false unless IsNode().
func (s Sibling) Node() (NodeHandle, bool) {
	if s.kind != siblingNode {
		return 0, false
	}
	return s.node, true
}

// Promise returns the pending promise id; ok is false unless IsPromise().
func (s Sibling) Promise() (PromiseID, bool) {
	if s.kind != siblingPromise {
		return 0, false
	}
	return s.promise, true
}

func (s Sibling) equal(o Sibling) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case siblingNode:
		return s.node == o.node
	case siblingPromise:
		return s.promise == o.promise
	default:
		return true
	}
}

// PositionTriple is {parent, prev, next} from spec.md §3. HasParent is
// false for a node that has no tracked parent at all (root-like), which
// is distinct from Parent == 0 (handle zero value).
type PositionTriple struct {
	Parent    NodeHandle
	HasParent bool
	PrevSib   Sibling
	NextSib   Sibling
}

func (p PositionTriple) sibling(side Side) Sibling {
	if side == Prev {
		return p.PrevSib
	}
	return p.NextSib
}

func (p *PositionTriple) setSibling(side Side, s Sibling) {
	if side == Prev {
		p.PrevSib = s
	} else {
		p.NextSib = s
	}
}

// equalPosition reports whether two triples describe the same place in
// the tree: same parent and the same node (or both "end") on each side
// that is concretely known. Unknown/promise sides never compare equal,
// matching spec.md M4 ("up to pending promises").
func equalPosition(a, b PositionTriple) bool {
	if a.HasParent != b.HasParent || a.Parent != b.Parent {
		return false
	}
	return a.PrevSib.equal(b.PrevSib) && a.NextSib.equal(b.NextSib) &&
		(a.PrevSib.IsNode() || a.PrevSib.IsEnd()) &&
		(a.NextSib.IsNode() || a.NextSib.IsEnd())
}

// RecordKind distinguishes the three notification shapes from spec.md §6.
type RecordKind int

const (
	RecordAttribute RecordKind = iota
	RecordCharacterData
	RecordChildList
)

// MutationRecord is the wire shape the embedder feeds into
// MutationDiff.Record. Exactly one of the kind-specific field groups is
// meaningful, selected by Kind.
type MutationRecord struct {
	Kind RecordKind

	// RecordAttribute
	Target        NodeHandle
	AttrName      string
	AttrNamespace string
	AttrOldValue  string
	AttrHadValue  bool // false means the attribute did not exist before

	// RecordCharacterData
	DataOldValue string

	// RecordChildList
	Parent       NodeHandle
	Removed      []NodeHandle
	Added        []NodeHandle
	PreviousSib  Sibling
	NextSib      Sibling
}
