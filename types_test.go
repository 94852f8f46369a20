package mutationdiff

import "testing"

func TestSiblingKinds(t *testing.T) {
	u := UnknownSibling()
	if !u.IsUnknown() || u.IsNode() || u.IsEnd() || u.IsPromise() {
		t.Fatalf("UnknownSibling has wrong kind: %+v", u)
	}

	e := EndSibling()
	if !e.IsEnd() || e.IsNode() {
		t.Fatalf("EndSibling has wrong kind: %+v", e)
	}

	n := NodeSibling(42)
	got, ok := n.Node()
	if !ok || got != 42 {
		t.Fatalf("NodeSibling(42).Node() = %v, %v", got, ok)
	}

	p := PromiseSibling(7)
	pid, ok := p.Promise()
	if !ok || pid != 7 {
		t.Fatalf("PromiseSibling(7).Promise() = %v, %v", pid, ok)
	}
}

func TestSideOpposite(t *testing.T) {
	if Prev.Opposite() != Next || Next.Opposite() != Prev {
		t.Fatal("Side.Opposite() is not involutive")
	}
}

func TestPositionTripleSibling(t *testing.T) {
	p := PositionTriple{PrevSib: NodeSibling(1), NextSib: EndSibling()}
	if n, ok := p.sibling(Prev).Node(); !ok || n != 1 {
		t.Fatalf("sibling(Prev) = %v", p.sibling(Prev))
	}
	if !p.sibling(Next).IsEnd() {
		t.Fatalf("sibling(Next) = %v, want End", p.sibling(Next))
	}
	p.setSibling(Next, NodeSibling(2))
	if n, ok := p.NextSib.Node(); !ok || n != 2 {
		t.Fatalf("setSibling(Next) did not update NextSib: %+v", p)
	}
}

func TestEqualPosition(t *testing.T) {
	a := PositionTriple{Parent: 1, HasParent: true, PrevSib: NodeSibling(2), NextSib: EndSibling()}
	b := PositionTriple{Parent: 1, HasParent: true, PrevSib: NodeSibling(2), NextSib: EndSibling()}
	if !equalPosition(a, b) {
		t.Fatal("identical triples should compare equal")
	}

	c := PositionTriple{Parent: 1, HasParent: true, PrevSib: UnknownSibling(), NextSib: EndSibling()}
	if equalPosition(a, c) {
		t.Fatal("a triple with an unresolved side should never compare equal")
	}

	d := PositionTriple{Parent: 2, HasParent: true, PrevSib: NodeSibling(2), NextSib: EndSibling()}
	if equalPosition(a, d) {
		t.Fatal("differing parents should not compare equal")
	}
}
