package mutationdiff

import (
	"errors"
	"fmt"
)

// Argument errors (spec.md §7 "invalid-argument"): rejected synchronously,
// before any state is touched.
var (
	// ErrUnknownRecordKind is returned by Record when MutationRecord.Kind
	// doesn't match any of RecordAttribute/RecordCharacterData/RecordChildList.
	ErrUnknownRecordKind = errors.New("mutationdiff: unknown mutation record kind")

	// ErrInvalidFilter is returned by Diff when the requested DiffFilter
	// sets none of the original, mutated, property or children bits (for
	// example a zero filter). A filter with ORIGINAL or MUTATED but no
	// property/children bit is accepted and yields an empty result.
	ErrInvalidFilter = errors.New("mutationdiff: invalid diff filter")
)

// ErrDisconnectedRange is returned by Range when no root is given and the
// floating set spans disjoint trees, per spec.md §7 "disconnected-range".
// The caller is expected to retry with a wider root.
var ErrDisconnectedRange = errors.New("mutationdiff: mutations span disconnected trees")

// ErrInsufficientInformation is the per-group diagnostic recorded in
// RevertResult.SkippedGroups when a move group can't be placed because
// neither side of its target position is a known node, per spec.md §7
// "insufficient-information". Revert() does not return this as its own
// error; it logs the group and continues with the rest.
var ErrInsufficientInformation = errors.New("mutationdiff: insufficient information to place group")

// AssertionError reports a broken internal invariant (spec.md §4.4
// M1-M4). It is fatal: encountering one means the engine's bookkeeping
// has desynchronized from reality, not that the caller did anything
// wrong. Callers should treat a panic carrying this type as a bug report.
type AssertionError struct {
	Invariant string
	Detail    string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("mutationdiff: assertion %s violated: %s", e.Invariant, e.Detail)
}

func assertInvariant(ok bool, invariant, detail string) {
	if !ok {
		panic(&AssertionError{Invariant: invariant, Detail: detail})
	}
}
