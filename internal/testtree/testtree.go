// Package testtree is a synthetic in-memory tree used to exercise
// mutationdiff.Tree without a real DOM, for unit and scenario tests.
package testtree

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/watchtree/mutationdiff"
)

type node struct {
	handle   mutationdiff.NodeHandle
	parent   mutationdiff.NodeHandle
	hasParent bool
	children []mutationdiff.NodeHandle
	attrs    map[string]string
	data     string
}

// Tree is a minimal ordered tree satisfying mutationdiff.Tree, built for
// tests to assemble by hand and mutate directly.
type Tree struct {
	nodes map[mutationdiff.NodeHandle]*node
}

// New constructs an empty tree.
func New() *Tree {
	return &Tree{nodes: make(map[mutationdiff.NodeHandle]*node)}
}

func mintHandle() mutationdiff.NodeHandle {
	id := uuid.New()
	return mutationdiff.NodeHandle(binary.BigEndian.Uint64(id[:8]))
}

// NewElement creates a detached element-like node (attributes, no text).
func (t *Tree) NewElement() mutationdiff.NodeHandle {
	h := mintHandle()
	t.nodes[h] = &node{handle: h, attrs: make(map[string]string)}
	return h
}

// NewText creates a detached character-data node holding data.
func (t *Tree) NewText(data string) mutationdiff.NodeHandle {
	h := mintHandle()
	t.nodes[h] = &node{handle: h, data: data}
	return h
}

func (t *Tree) get(h mutationdiff.NodeHandle) *node {
	n, ok := t.nodes[h]
	if !ok {
		panic(&mutationdiff.AssertionError{Invariant: "testtree", Detail: "unknown handle"})
	}
	return n
}

func (t *Tree) detach(h mutationdiff.NodeHandle) {
	n := t.get(h)
	if !n.hasParent {
		return
	}
	p := t.get(n.parent)
	for i, c := range p.children {
		if c == h {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.hasParent = false
}

func (t *Tree) ParentOf(h mutationdiff.NodeHandle) (mutationdiff.NodeHandle, bool) {
	n := t.get(h)
	return n.parent, n.hasParent
}

func (t *Tree) SiblingsOf(h mutationdiff.NodeHandle) (prev, next mutationdiff.Sibling) {
	n := t.get(h)
	if !n.hasParent {
		return mutationdiff.EndSibling(), mutationdiff.EndSibling()
	}
	p := t.get(n.parent)
	idx := -1
	for i, c := range p.children {
		if c == h {
			idx = i
			break
		}
	}
	if idx > 0 {
		prev = mutationdiff.NodeSibling(p.children[idx-1])
	} else {
		prev = mutationdiff.EndSibling()
	}
	if idx >= 0 && idx < len(p.children)-1 {
		next = mutationdiff.NodeSibling(p.children[idx+1])
	} else {
		next = mutationdiff.EndSibling()
	}
	return prev, next
}

func (t *Tree) ChildIndex(parent, h mutationdiff.NodeHandle) (int, bool) {
	p := t.get(parent)
	for i, c := range p.children {
		if c == h {
			return i, true
		}
	}
	return 0, false
}

func (t *Tree) FirstChild(parent mutationdiff.NodeHandle) (mutationdiff.NodeHandle, bool) {
	p := t.get(parent)
	if len(p.children) == 0 {
		return 0, false
	}
	return p.children[0], true
}

func (t *Tree) LastChild(parent mutationdiff.NodeHandle) (mutationdiff.NodeHandle, bool) {
	p := t.get(parent)
	if len(p.children) == 0 {
		return 0, false
	}
	return p.children[len(p.children)-1], true
}

func (t *Tree) Contains(ancestor, h mutationdiff.NodeHandle) bool {
	cur, ok := h, true
	for ok {
		if cur == ancestor {
			return true
		}
		cur, ok = t.ParentOf(cur)
	}
	return false
}

func (t *Tree) ComparePosition(a, b mutationdiff.NodeHandle) mutationdiff.DocumentPosition {
	if a == b {
		return 0
	}
	if t.Contains(a, b) {
		return mutationdiff.PositionContains
	}
	if t.Contains(b, a) {
		return mutationdiff.PositionContainedBy
	}
	ca, cb := t.chain(a), t.chain(b)
	if len(ca) == 0 || len(cb) == 0 || ca[0] != cb[0] {
		return mutationdiff.PositionDisconnected
	}
	i := 0
	for i < len(ca) && i < len(cb) && ca[i] == cb[i] {
		i++
	}
	if i == 0 {
		return mutationdiff.PositionDisconnected
	}
	parent := t.get(ca[i-1])
	leftIdx, rightIdx := -1, -1
	for idx, c := range parent.children {
		if c == ca[i] {
			leftIdx = idx
		}
		if c == cb[i] {
			rightIdx = idx
		}
	}
	if leftIdx < rightIdx {
		return mutationdiff.PositionPreceding
	}
	return mutationdiff.PositionFollowing
}

func (t *Tree) chain(h mutationdiff.NodeHandle) []mutationdiff.NodeHandle {
	var out []mutationdiff.NodeHandle
	cur, ok := h, true
	for ok {
		out = append(out, cur)
		cur, ok = t.ParentOf(cur)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (t *Tree) Remove(h mutationdiff.NodeHandle) {
	t.detach(h)
}

func (t *Tree) InsertBefore(parent, h, ref mutationdiff.NodeHandle) {
	t.detach(h)
	p := t.get(parent)
	n := t.get(h)
	idx := len(p.children)
	for i, c := range p.children {
		if c == ref {
			idx = i
			break
		}
	}
	p.children = append(p.children, 0)
	copy(p.children[idx+1:], p.children[idx:])
	p.children[idx] = h
	n.parent = parent
	n.hasParent = true
}

func (t *Tree) Append(parent, h mutationdiff.NodeHandle) {
	t.detach(h)
	p := t.get(parent)
	n := t.get(h)
	p.children = append(p.children, h)
	n.parent = parent
	n.hasParent = true
}

func (t *Tree) Prepend(parent, h mutationdiff.NodeHandle) {
	t.detach(h)
	p := t.get(parent)
	n := t.get(h)
	p.children = append([]mutationdiff.NodeHandle{h}, p.children...)
	n.parent = parent
	n.hasParent = true
}

func (t *Tree) GetAttribute(h mutationdiff.NodeHandle, name string) (string, bool) {
	n := t.get(h)
	v, ok := n.attrs[name]
	return v, ok
}

func (t *Tree) SetAttribute(h mutationdiff.NodeHandle, name, value string) {
	t.get(h).attrs[name] = value
}

func (t *Tree) RemoveAttribute(h mutationdiff.NodeHandle, name string) {
	delete(t.get(h).attrs, name)
}

func (t *Tree) GetData(h mutationdiff.NodeHandle) string {
	return t.get(h).data
}

func (t *Tree) SetData(h mutationdiff.NodeHandle, data string) {
	t.get(h).data = data
}

// Children returns parent's current children, for test assertions.
func (t *Tree) Children(parent mutationdiff.NodeHandle) []mutationdiff.NodeHandle {
	return append([]mutationdiff.NodeHandle{}, t.get(parent).children...)
}

var _ mutationdiff.Tree = (*Tree)(nil)
