package mutationdiff

// DiffFilter selects which facets Diff reports, as a bitmask so callers
// can ask for exactly the slices they need (spec.md §5).
type DiffFilter uint32

const (
	DiffOriginal DiffFilter = 1 << iota
	DiffMutated
	DiffAttribute
	DiffData
	DiffCustom
	DiffChildren

	// FilterUntracked is reserved for a future per-record visibility tier
	// and has no effect on Diff's output today; it exists so embedders can
	// start passing it now without a breaking change later (spec.md §9
	// open question (a)).
	FilterUntracked

	DiffProperty = DiffAttribute | DiffData | DiffCustom
	DiffAll      = DiffOriginal | DiffMutated | DiffProperty | DiffChildren
)

// PropertyDiff is one dirty attribute, character-data, or custom-property
// entry surfaced by Diff.
type PropertyDiff struct {
	Key         any
	Original    string
	HadOriginal bool
	Current     string
}

// NodeDiff is everything Diff knows changed about one node.
type NodeDiff struct {
	Node       NodeHandle
	Original   *PositionTriple
	Mutated    *PositionTriple
	Attributes []PropertyDiff
	Data       *PropertyDiff
	Custom     []PropertyDiff
}

// DiffResult is Diff's full structured report, per spec.md §5.
type DiffResult struct {
	Nodes []NodeDiff
}

// CustomPropertyGetter reads a custom property's live value, so Diff can
// report Current alongside the cached Original for embedder-defined keys.
type CustomPropertyGetter func(n NodeHandle, key any) (value string, ok bool)

// MutationDiff is the façade spec.md §2 describes: one instance per
// tracked tree, combining the mutation engine with the property cache and
// exposing the five public queries (Mutated, Range, Diff, Revert,
// Synchronize) plus lifecycle (Record, Clear, StorageSize) over a Tree
// the embedder supplies.
type MutationDiff struct {
	tree  Tree
	tm    *TreeMutations
	props *PropertyCache
	cfg   *Config
}

// NewMutationDiff constructs a façade bound to tree, which must remain
// valid for the façade's lifetime.
func NewMutationDiff(tree Tree, opts ...Option) *MutationDiff {
	cfg := newConfig(opts)
	return &MutationDiff{
		tree:  tree,
		tm:    NewTreeMutations(cfg),
		props: NewPropertyCache(),
		cfg:   cfg,
	}
}

// Record ingests one batched notification, dispatching on Kind.
func (d *MutationDiff) Record(rec MutationRecord) error {
	switch rec.Kind {
	case RecordAttribute:
		key := rec.AttrName
		if rec.AttrNamespace != "" {
			key = rec.AttrNamespace + ":" + rec.AttrName
		}
		current, ok := d.tree.GetAttribute(rec.Target, rec.AttrName)
		_ = ok
		d.props.markNative(rec.Target, key, current, rec.AttrHadValue, rec.AttrOldValue)
		d.cfg.trace("attribute %s on node %d", key, rec.Target)
	case RecordCharacterData:
		current := d.tree.GetData(rec.Target)
		d.props.markNative(rec.Target, characterDataKey, current, true, rec.DataOldValue)
		d.cfg.trace("character data on node %d", rec.Target)
	case RecordChildList:
		d.tm.Mutate(rec.Parent, rec.Removed, rec.Added, rec.PreviousSib, rec.NextSib)
	default:
		return ErrUnknownRecordKind
	}
	if d.cfg.eagerSynchronize {
		d.tm.Synchronize(d.tree)
	}
	return nil
}

// RecordCustom marks an observation of an embedder-defined property key,
// the Custom counterpart to Record's native RecordAttribute/RecordCharacterData
// handling (spec.md §4.1's custom-property extension).
func (d *MutationDiff) RecordCustom(n NodeHandle, key any, current string, hadOld bool, old string) {
	d.props.markCustom(n, key, current, hadOld, old)
}

// Mutated reports whether anything is currently different from tracking
// start, anywhere in the tree.
func (d *MutationDiff) Mutated() bool {
	return d.tm.Floating().Len() > 0 || d.props.Dirty()
}

// MutatedUnder reports whether anything under root (inclusive) differs
// from tracking start.
func (d *MutationDiff) MutatedUnder(root NodeHandle) bool {
	if d.props.DirtyUnder(root, d.tree.Contains) {
		return true
	}
	return d.tm.MutatedUnder(root, d.tree.Contains)
}

// Range returns the minimal BoundaryRange bounding every tracked
// mutation anywhere in the tree. If no mutation has occurred it returns
// a zero range (IsZero() true, no error).
func (d *MutationDiff) Range() (BoundaryRange, error) {
	return d.rangeOver(0, false)
}

// RangeUnder is Range scoped to mutations whose current or original
// position falls under root.
func (d *MutationDiff) RangeUnder(root NodeHandle) (BoundaryRange, error) {
	return d.rangeOver(root, true)
}

// gapAnchor returns a representative node from gap, for disconnection
// checks — either boundary names one, since OriginalGap never returns an
// empty pair.
func gapAnchor(gap BoundaryRange) (NodeHandle, bool) {
	if gap.Start.HasNode {
		return gap.Start.Node, true
	}
	if gap.End.HasNode {
		return gap.End.Node, true
	}
	return 0, false
}

func (d *MutationDiff) rangeOver(root NodeHandle, hasRoot bool) (BoundaryRange, error) {
	var rng BoundaryRange
	var refNode NodeHandle
	hasRef := false
	disconnected := false

	extend := func(box BoundaryRange, anchor NodeHandle) {
		if !hasRoot {
			if !hasRef {
				refNode, hasRef = anchor, true
			} else if d.tree.ComparePosition(refNode, anchor) == PositionDisconnected {
				disconnected = true
				return
			}
		}
		rng.Extend(box, d.tree.ComparePosition)
	}

	d.tm.Floating().Each(func(r *MovedNodeRecord) {
		if r.Mutated != nil && r.Mutated.HasParent {
			if !hasRoot || d.tree.Contains(root, r.Node) {
				var box BoundaryRange
				box.SelectNode(r.Node)
				extend(box, r.Node)
			}
		}
		if gap, ok := d.tm.OriginalGap(r); ok {
			inScope := !hasRoot ||
				(gap.Start.HasNode && d.tree.Contains(root, gap.Start.Node)) ||
				(gap.End.HasNode && d.tree.Contains(root, gap.End.Node))
			if inScope {
				if anchor, ok := gapAnchor(gap); ok {
					extend(gap, anchor)
				}
			}
		}
	})

	if disconnected {
		return BoundaryRange{}, ErrDisconnectedRange
	}
	return rng, nil
}

// Diff builds the structured report Diff(filter) describes in spec.md
// §5: one NodeDiff per node with at least one requested facet dirty.
func (d *MutationDiff) Diff(filter DiffFilter, customGetter CustomPropertyGetter) (DiffResult, error) {
	if filter&(DiffOriginal|DiffMutated|DiffProperty|DiffChildren) == 0 {
		return DiffResult{}, ErrInvalidFilter
	}

	byNode := map[NodeHandle]*NodeDiff{}
	get := func(n NodeHandle) *NodeDiff {
		if nd, ok := byNode[n]; ok {
			return nd
		}
		nd := &NodeDiff{Node: n}
		byNode[n] = nd
		return nd
	}

	if filter&DiffChildren != 0 {
		d.tm.Floating().Each(func(r *MovedNodeRecord) {
			nd := get(r.Node)
			if filter&DiffOriginal != 0 {
				nd.Original = r.Original
			}
			if filter&DiffMutated != 0 {
				nd.Mutated = r.Mutated
			}
		})
	}

	if filter&DiffProperty != 0 {
		for _, n := range d.props.Nodes() {
			if filter&DiffAttribute != 0 || filter&DiffData != 0 {
				for key, e := range d.props.NativeEntries(n) {
					if !e.Dirty {
						continue
					}
					var current string
					if key == characterDataKey {
						if filter&DiffData == 0 {
							continue
						}
						current = d.tree.GetData(n)
						nd := get(n)
						nd.Data = &PropertyDiff{Key: key, Original: e.Original, HadOriginal: e.HasValue, Current: current}
						continue
					}
					if filter&DiffAttribute == 0 {
						continue
					}
					current, _ = d.tree.GetAttribute(n, key)
					nd := get(n)
					nd.Attributes = append(nd.Attributes, PropertyDiff{Key: key, Original: e.Original, HadOriginal: e.HasValue, Current: current})
				}
			}
			if filter&DiffCustom != 0 {
				for key, e := range d.props.CustomEntries(n) {
					if !e.Dirty {
						continue
					}
					var current string
					if customGetter != nil {
						current, _ = customGetter(n, key)
					}
					nd := get(n)
					nd.Custom = append(nd.Custom, PropertyDiff{Key: key, Original: e.Original, HadOriginal: e.HasValue, Current: current})
				}
			}
		}
	}

	result := DiffResult{Nodes: make([]NodeDiff, 0, len(byNode))}
	for _, nd := range byNode {
		result.Nodes = append(result.Nodes, *nd)
	}
	return result, nil
}

// RevertResult carries the outcome of Revert.
type RevertResult struct {
	MovedNodes     int
	Properties     int
	SkippedGroups  []RevertOutcome
	SkippedCustom  map[NodeHandle][]any
}

// Revert restores the tree and every tracked property to their state at
// tracking start, then clears the engine's move state (spec.md §4.6);
// reverted property entries stay cached, marked clean. custom
// restores dirty embedder-defined properties; passing nil skips them,
// and their keys are reported in SkippedCustom (spec.md §9 open
// question (b)).
func (d *MutationDiff) Revert(custom CustomRevertFunc) RevertResult {
	engineResult := d.tm.Revert(d.tree)

	skippedCustom := map[NodeHandle][]any{}
	propCount := 0
	for _, n := range d.props.Nodes() {
		skipped := d.props.Revert(n, d.tree, custom)
		if len(skipped) > 0 {
			skippedCustom[n] = skipped
		}
		propCount++
	}

	return RevertResult{
		MovedNodes:    engineResult.Applied,
		Properties:    propCount,
		SkippedGroups: engineResult.Skipped,
		SkippedCustom: skippedCustom,
	}
}

// Synchronize reads the live tree to fill in any mutated sibling still
// unknown or promised, resolving whatever promises that reveals, and
// drops every clean property entry. Returns the number of nodes still
// floating afterward.
func (d *MutationDiff) Synchronize() int {
	floating := d.tm.Synchronize(d.tree)
	d.props.Synchronize()
	return floating
}

// Clear drops all tracked state without touching the tree.
func (d *MutationDiff) Clear() {
	d.tm.Clear()
	d.props.Clear()
}

// StorageSize reports the total number of tracked records (floating
// nodes plus nodes with cached properties), an approximation of memory use for
// embedders that want to bound it.
func (d *MutationDiff) StorageSize() int {
	return d.tm.StorageSize() + d.props.Size()
}
