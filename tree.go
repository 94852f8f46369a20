package mutationdiff

// DocumentPosition mirrors the bitmask returned by
// Tree.ComparePosition, modeled after the DOM's
// compareDocumentPosition: the core inspects PRECEDING / CONTAINS /
// CONTAINED_BY when ordering range boundaries, and DISCONNECTED when
// Range checks whether the mutations span separate trees.
type DocumentPosition int

const (
	PositionDisconnected DocumentPosition = 1 << iota
	PositionPreceding
	PositionFollowing
	PositionContains
	PositionContainedBy
)

// Tree is the embedder trait spec.md §6 names: the tree-access surface
// the core reads from for Synchronize/Revert, and the mutation surface
// Revert writes through. TreeMutations never walks the tree during
// Mutate; it only consults Tree from Synchronize (to read live siblings)
// and Revert (to move nodes back). MutationDiff also reads current
// attribute/data values in Record and Diff, and uses Contains /
// ComparePosition in the scoped and Range queries.
type Tree interface {
	// ParentOf returns the current parent of n, and false if n is a root
	// or untracked.
	ParentOf(n NodeHandle) (parent NodeHandle, ok bool)

	// SiblingsOf returns n's current prev/next as Sibling values (Node or
	// End only — never Unknown/Promise, since this reads the live tree).
	SiblingsOf(n NodeHandle) (prev, next Sibling)

	// ChildIndex returns n's index among parent's children.
	ChildIndex(parent, n NodeHandle) (index int, ok bool)

	// FirstChild returns parent's current first child, if it has one.
	// Used by Synchronize/Revert to anchor a group whose only known edge
	// is "start of parent" (an Original/Mutated side holding End).
	FirstChild(parent NodeHandle) (child NodeHandle, ok bool)

	// LastChild returns parent's current last child, if it has one.
	LastChild(parent NodeHandle) (child NodeHandle, ok bool)

	// Contains reports whether ancestor is an ancestor of (or equal to) n.
	Contains(ancestor, n NodeHandle) bool

	// ComparePosition reports the relative document position of a to b,
	// from a's point of view (e.g. a PRECEDING b means a comes first).
	ComparePosition(a, b NodeHandle) DocumentPosition

	// Remove detaches n from its current parent. No-op if n has no parent.
	Remove(n NodeHandle)

	// InsertBefore inserts n into parent immediately before ref.
	InsertBefore(parent, n, ref NodeHandle)

	// Append adds n as parent's last child.
	Append(parent, n NodeHandle)

	// Prepend adds n as parent's first child.
	Prepend(parent, n NodeHandle)

	// GetAttribute reads an element's current attribute value.
	GetAttribute(n NodeHandle, name string) (value string, ok bool)

	// SetAttribute sets an element's attribute value.
	SetAttribute(n NodeHandle, name, value string)

	// RemoveAttribute removes an element's attribute.
	RemoveAttribute(n NodeHandle, name string)

	// GetData reads a character-data node's current data.
	GetData(n NodeHandle) string

	// SetData sets a character-data node's data.
	SetData(n NodeHandle, data string)
}
