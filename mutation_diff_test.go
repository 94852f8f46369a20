package mutationdiff_test

import (
	"testing"

	. "github.com/watchtree/mutationdiff"
	"github.com/watchtree/mutationdiff/internal/testtree"
)

func TestMutationDiffRecordAttributeAndRevert(t *testing.T) {
	tt := testtree.New()
	el := tt.NewElement()
	tt.SetAttribute(el, "class", "a")

	d := NewMutationDiff(tt)
	tt.SetAttribute(el, "class", "b")
	if err := d.Record(MutationRecord{
		Kind:         RecordAttribute,
		Target:       el,
		AttrName:     "class",
		AttrOldValue: "a",
		AttrHadValue: true,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if !d.Mutated() {
		t.Fatal("Mutated() should report true after an attribute change")
	}

	result, err := d.Diff(DiffAll, nil)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	_ = result

	d.Revert(nil)
	got, _ := tt.GetAttribute(el, "class")
	if got != "a" {
		t.Fatalf("attribute after Revert = %q, want %q", got, "a")
	}
	if d.Mutated() {
		t.Fatal("Mutated() should be false after Revert")
	}
}

func TestMutationDiffRecordCharacterData(t *testing.T) {
	tt := testtree.New()
	text := tt.NewText("hello")

	d := NewMutationDiff(tt)
	tt.SetData(text, "world")
	if err := d.Record(MutationRecord{Kind: RecordCharacterData, Target: text, DataOldValue: "hello"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	diffResult, err := d.Diff(DiffAll, nil)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	var found bool
	for _, nd := range diffResult.Nodes {
		if nd.Node == text && nd.Data != nil {
			found = true
			if nd.Data.Original != "hello" || nd.Data.Current != "world" {
				t.Fatalf("unexpected data diff: %+v", nd.Data)
			}
		}
	}
	if !found {
		t.Fatal("expected a data diff entry for the text node")
	}
}

func TestMutationDiffDiffRejectsEmptyFilter(t *testing.T) {
	tt := testtree.New()
	d := NewMutationDiff(tt)
	if _, err := d.Diff(0, nil); err != ErrInvalidFilter {
		t.Fatalf("Diff(0, nil) error = %v, want ErrInvalidFilter", err)
	}
}

func TestMutationDiffRecordUnknownKind(t *testing.T) {
	tt := testtree.New()
	d := NewMutationDiff(tt)
	if err := d.Record(MutationRecord{Kind: RecordKind(99)}); err != ErrUnknownRecordKind {
		t.Fatalf("Record with bad kind error = %v, want ErrUnknownRecordKind", err)
	}
}

func TestMutationDiffClear(t *testing.T) {
	tt := testtree.New()
	el := tt.NewElement()
	tt.SetAttribute(el, "class", "a")
	d := NewMutationDiff(tt)
	tt.SetAttribute(el, "class", "b")
	d.Record(MutationRecord{Kind: RecordAttribute, Target: el, AttrName: "class", AttrOldValue: "a", AttrHadValue: true})
	d.Clear()
	if d.Mutated() {
		t.Fatal("Clear should drop all tracked state")
	}
}
