package mutationdiff

import "testing"

// linearOrder treats node handles as already being in document order,
// for tests that don't need a real tree to exercise Extend/boundaryPrecedes.
func linearOrder(a, b NodeHandle) DocumentPosition {
	switch {
	case a < b:
		return PositionPreceding
	case a > b:
		return PositionFollowing
	default:
		return 0
	}
}

func TestBoundaryRangeSelectNode(t *testing.T) {
	var r BoundaryRange
	if !r.IsZero() {
		t.Fatal("zero-value BoundaryRange should be IsZero")
	}
	r.SelectNode(5)
	if r.IsZero() {
		t.Fatal("SelectNode should clear IsZero")
	}
	if r.Start.Node != 5 || r.Start.Side != Before {
		t.Fatalf("unexpected start boundary: %+v", r.Start)
	}
	if r.End.Node != 5 || r.End.Side != After {
		t.Fatalf("unexpected end boundary: %+v", r.End)
	}
}

func TestBoundaryRangeExtendGrows(t *testing.T) {
	var r BoundaryRange
	r.SelectNode(5)

	var other BoundaryRange
	other.SelectNode(2)
	r.Extend(other, linearOrder)
	if r.Start.Node != 2 {
		t.Fatalf("Extend should pull start earlier, got %+v", r.Start)
	}

	var later BoundaryRange
	later.SelectNode(9)
	r.Extend(later, linearOrder)
	if r.End.Node != 9 {
		t.Fatalf("Extend should push end later, got %+v", r.End)
	}
}

func TestBoundaryRangeExtendZeroIsNoop(t *testing.T) {
	var r BoundaryRange
	r.SelectNode(5)
	before := r
	r.Extend(BoundaryRange{}, linearOrder)
	if !r.IsEqual(before) {
		t.Fatal("extending with a zero range must not change r")
	}
}

func TestBoundaryRangeCloneIsIndependent(t *testing.T) {
	var r BoundaryRange
	r.SelectNode(1)
	clone := r.CloneRange()
	r.SelectNode(2)
	if clone.Start.Node != 1 {
		t.Fatal("CloneRange should not alias the original")
	}
}
