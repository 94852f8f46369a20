// Package htmldom adapts golang.org/x/net/html's parsed node tree to the
// mutationdiff.Tree trait, minting an opaque handle per node the first
// time it's seen rather than exposing *html.Node identity directly
// (spec.md §9's "stable opaque identifier" guidance).
package htmldom

import (
	"encoding/binary"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/watchtree/mutationdiff"
)

// Adapter binds one parsed html.Node tree to the mutationdiff.Tree
// surface. Handles mint lazily and persist for the Adapter's lifetime.
type Adapter struct {
	byHandle map[mutationdiff.NodeHandle]*html.Node
	byNode   map[*html.Node]mutationdiff.NodeHandle
}

// New constructs an adapter with no nodes minted yet.
func New() *Adapter {
	return &Adapter{
		byHandle: make(map[mutationdiff.NodeHandle]*html.Node),
		byNode:   make(map[*html.Node]mutationdiff.NodeHandle),
	}
}

// Handle returns n's opaque handle, minting one on first use.
func (a *Adapter) Handle(n *html.Node) mutationdiff.NodeHandle {
	if n == nil {
		return 0
	}
	if h, ok := a.byNode[n]; ok {
		return h
	}
	var h mutationdiff.NodeHandle
	for {
		id := uuid.New()
		h = mutationdiff.NodeHandle(binary.BigEndian.Uint64(id[:8]))
		if h != 0 {
			if _, collide := a.byHandle[h]; !collide {
				break
			}
		}
	}
	a.byHandle[h] = n
	a.byNode[n] = h
	glog.V(3).Infof("[htmldom] minted handle %d for <%s>", h, n.Data)
	return h
}

// Node resolves a handle back to its html.Node, if still known.
func (a *Adapter) Node(h mutationdiff.NodeHandle) (*html.Node, bool) {
	n, ok := a.byHandle[h]
	return n, ok
}

func (a *Adapter) mustNode(h mutationdiff.NodeHandle) *html.Node {
	n, ok := a.byHandle[h]
	if !ok {
		panic(&mutationdiff.AssertionError{Invariant: "htmldom", Detail: "unknown handle"})
	}
	return n
}

func (a *Adapter) ParentOf(h mutationdiff.NodeHandle) (mutationdiff.NodeHandle, bool) {
	n := a.mustNode(h)
	if n.Parent == nil {
		return 0, false
	}
	return a.Handle(n.Parent), true
}

func (a *Adapter) SiblingsOf(h mutationdiff.NodeHandle) (prev, next mutationdiff.Sibling) {
	n := a.mustNode(h)
	if n.PrevSibling == nil {
		prev = mutationdiff.EndSibling()
	} else {
		prev = mutationdiff.NodeSibling(a.Handle(n.PrevSibling))
	}
	if n.NextSibling == nil {
		next = mutationdiff.EndSibling()
	} else {
		next = mutationdiff.NodeSibling(a.Handle(n.NextSibling))
	}
	return prev, next
}

func (a *Adapter) ChildIndex(parent, h mutationdiff.NodeHandle) (int, bool) {
	p := a.mustNode(parent)
	i := 0
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if a.Handle(c) == h {
			return i, true
		}
		i++
	}
	return 0, false
}

func (a *Adapter) FirstChild(parent mutationdiff.NodeHandle) (mutationdiff.NodeHandle, bool) {
	p := a.mustNode(parent)
	if p.FirstChild == nil {
		return 0, false
	}
	return a.Handle(p.FirstChild), true
}

func (a *Adapter) LastChild(parent mutationdiff.NodeHandle) (mutationdiff.NodeHandle, bool) {
	p := a.mustNode(parent)
	if p.LastChild == nil {
		return 0, false
	}
	return a.Handle(p.LastChild), true
}

func (a *Adapter) Contains(ancestor, h mutationdiff.NodeHandle) bool {
	anc := a.mustNode(ancestor)
	n := a.mustNode(h)
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// ComparePosition reports x's position relative to y by walking both
// ancestor chains to their common root, matching the bitmask semantics
// Tree.ComparePosition documents.
func (a *Adapter) ComparePosition(x, y mutationdiff.NodeHandle) mutationdiff.DocumentPosition {
	nx, ny := a.mustNode(x), a.mustNode(y)
	if nx == ny {
		return 0
	}
	if a.Contains(x, y) {
		return mutationdiff.PositionContains
	}
	if a.Contains(y, x) {
		return mutationdiff.PositionContainedBy
	}

	ax := ancestorChain(nx)
	ay := ancestorChain(ny)
	if len(ax) == 0 || len(ay) == 0 || ax[0] != ay[0] {
		return mutationdiff.PositionDisconnected
	}
	// Find the deepest common ancestor, then compare the diverging
	// children's order under it.
	i := 0
	for i < len(ax) && i < len(ay) && ax[i] == ay[i] {
		i++
	}
	if i == 0 {
		return mutationdiff.PositionDisconnected
	}
	left, right := ax[i], ay[i]
	for c := left; c != nil; c = c.NextSibling {
		if c == right {
			return mutationdiff.PositionPreceding
		}
	}
	return mutationdiff.PositionFollowing
}

// ancestorChain returns [root, ..., n] the slice of ancestors from the
// outermost node down to n inclusive.
func ancestorChain(n *html.Node) []*html.Node {
	var chain []*html.Node
	for cur := n; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (a *Adapter) Remove(h mutationdiff.NodeHandle) {
	n := a.mustNode(h)
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

func (a *Adapter) InsertBefore(parent, h, ref mutationdiff.NodeHandle) {
	p := a.mustNode(parent)
	n := a.mustNode(h)
	r := a.mustNode(ref)
	p.InsertBefore(n, r)
}

func (a *Adapter) Append(parent, h mutationdiff.NodeHandle) {
	p := a.mustNode(parent)
	n := a.mustNode(h)
	p.AppendChild(n)
}

func (a *Adapter) Prepend(parent, h mutationdiff.NodeHandle) {
	p := a.mustNode(parent)
	n := a.mustNode(h)
	if p.FirstChild == nil {
		p.AppendChild(n)
		return
	}
	p.InsertBefore(n, p.FirstChild)
}

func (a *Adapter) GetAttribute(h mutationdiff.NodeHandle, name string) (string, bool) {
	n := a.mustNode(h)
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

func (a *Adapter) SetAttribute(h mutationdiff.NodeHandle, name, value string) {
	n := a.mustNode(h)
	for i, attr := range n.Attr {
		if attr.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func (a *Adapter) RemoveAttribute(h mutationdiff.NodeHandle, name string) {
	n := a.mustNode(h)
	for i, attr := range n.Attr {
		if attr.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func (a *Adapter) GetData(h mutationdiff.NodeHandle) string {
	return a.mustNode(h).Data
}

func (a *Adapter) SetData(h mutationdiff.NodeHandle, data string) {
	a.mustNode(h).Data = data
}

var _ mutationdiff.Tree = (*Adapter)(nil)
