package mutationdiff

import "golang.org/x/exp/slices"

// TreeMutations is the engine behind MutationDiff: the floating set, the
// four sibling indices (original/prev, original/next, mutated/prev,
// mutated/next) and the promise arena, kept in lockstep as described in
// spec.md §3/§4. MutationDiff wraps one instance per tracked tree and adds
// the property cache and the public query surface on top.
type TreeMutations struct {
	floating *FloatingSet
	origIdx  [2]*SiblingIndex
	mutIdx   [2]*SiblingIndex
	arena    *promiseArena
	cfg      *Config
}

// NewTreeMutations constructs an empty engine.
func NewTreeMutations(cfg *Config) *TreeMutations {
	return &TreeMutations{
		floating: NewFloatingSet(),
		origIdx:  [2]*SiblingIndex{NewSiblingIndex(modeOriginal, Prev), NewSiblingIndex(modeOriginal, Next)},
		mutIdx:   [2]*SiblingIndex{NewSiblingIndex(modeMutated, Prev), NewSiblingIndex(modeMutated, Next)},
		arena:    newPromiseArena(),
		cfg:      cfg,
	}
}

func (tm *TreeMutations) origIndex(side Side) *SiblingIndex { return tm.origIdx[side] }
func (tm *TreeMutations) mutIndex(side Side) *SiblingIndex  { return tm.mutIdx[side] }

// Floating exposes the underlying set for MutationDiff's diff/revert walks.
func (tm *TreeMutations) Floating() *FloatingSet { return tm.floating }

// StorageSize returns the number of floating records, one term of
// MutationDiff.StorageSize.
func (tm *TreeMutations) StorageSize() int { return tm.floating.Len() }

// Mutate ingests one batched childList notification against parent,
// implementing spec.md §4.4 steps 1-5: resolve promises revealed by this
// window, ingest removals, fill newly-floated nodes' original siblings,
// ingest additions, then propagate fixedness from every record this
// mutation touched.
func (tm *TreeMutations) Mutate(parent NodeHandle, removed, added []NodeHandle, prev, next Sibling) {
	logMutation("parent=%d removed=%d added=%d", parent, len(removed), len(added))
	tm.floating.Each(func(r *MovedNodeRecord) { r.resetTried() })

	var candidates []*MovedNodeRecord
	candidates = append(candidates, tm.resolveWindowPromises(removed, prev, next)...)

	var newlyFloated []*MovedNodeRecord
	for _, n := range removed {
		rec, existed := tm.floating.GetOrCreate(n)
		if !existed {
			rec.Original = &PositionTriple{Parent: parent, HasParent: true, PrevSib: UnknownSibling(), NextSib: UnknownSibling()}
			rec.Mutated = nil
			newlyFloated = append(newlyFloated, rec)
			continue
		}
		tm.discardPointerPromises(rec)
		tm.mutIndex(Prev).Remove(rec)
		tm.mutIndex(Next).Remove(rec)
		if rec.isPureAddition() {
			tm.floating.Delete(n)
			continue
		}
		rec.Mutated = nil
		if rec.Original.HasParent && rec.Original.Parent == parent {
			candidates = appendUniqueRecord(candidates, rec)
		}
	}

	tm.fillOriginalSiblings(newlyFloated, removed, prev, next)

	tm.ingestAdditions(parent, added, prev, next, &candidates)

	tm.propagateFixedness(candidates)
	tm.checkInvariants()
}

// resolveWindowPromises walks the revealed [prev, removed..., next]
// sequence looking for records whose mutated side currently holds a
// promise this window can now answer: a promise resolves the moment a
// fixed node (or the parent's End) turns up on its pointer side, per
// spec.md §4.3/§4.4 step 1.
func (tm *TreeMutations) resolveWindowPromises(removed []NodeHandle, prev, next Sibling) []*MovedNodeRecord {
	var resolved []*MovedNodeRecord
	normalize := func(s Sibling) Sibling {
		if n, ok := s.Node(); ok {
			if _, floating := tm.floating.Get(n); floating {
				return UnknownSibling()
			}
		}
		return s
	}

	lastFixed := normalize(prev)
	var pendingNext *SiblingPromise
	for _, n := range removed {
		rec, ok := tm.floating.Get(n)
		if !ok {
			lastFixed = NodeSibling(n)
			continue
		}
		if rec.Mutated != nil {
			if pid, isPromise := rec.Mutated.PrevSib.Promise(); isPromise {
				if p, exists := tm.arena.get(pid); exists {
					if lastFixed.IsNode() || lastFixed.IsEnd() {
						tm.resolvePromiseTo(p, lastFixed)
						resolved = append(resolved, p.Origin)
					} else if pendingNext != nil {
						tm.resolvePromiseTo(p, NodeSibling(pendingNext.Origin.Node))
						tm.resolvePromiseTo(pendingNext, NodeSibling(p.Origin.Node))
						resolved = append(resolved, p.Origin, pendingNext.Origin)
						pendingNext = nil
					}
				}
			}
			if pid, isPromise := rec.Mutated.NextSib.Promise(); isPromise {
				if p, exists := tm.arena.get(pid); exists {
					pendingNext = p
				}
			}
		}
		lastFixed = UnknownSibling()
	}
	nextFixed := normalize(next)
	if pendingNext != nil && (nextFixed.IsNode() || nextFixed.IsEnd()) {
		tm.resolvePromiseTo(pendingNext, nextFixed)
		resolved = append(resolved, pendingNext.Origin)
	}
	return resolved
}

// fillOriginalSiblings resolves the original prev/next of every
// newly-floated record from this batch, in the three-step order spec.md
// §4.4 step 3 describes: inherit from an existing index entry, pair up
// with an adjacent newly-floated neighbor, or launch a promise.
func (tm *TreeMutations) fillOriginalSiblings(newlyFloated []*MovedNodeRecord, removed []NodeHandle, prev, next Sibling) {
	pos := make(map[NodeHandle]int, len(removed))
	for i, n := range removed {
		pos[n] = i
	}
	isNewlyFloated := make(map[NodeHandle]bool, len(newlyFloated))
	for _, r := range newlyFloated {
		isNewlyFloated[r.Node] = true
	}

	resolvedSide := func(r *MovedNodeRecord, side Side) bool {
		s := r.Original.sibling(side)
		return s.IsNode() || s.IsEnd()
	}

	for _, rec := range newlyFloated {
		i := pos[rec.Node]
		for _, side := range [...]Side{Prev, Next} {
			if resolvedSide(rec, side) {
				continue
			}
			if other, ok := tm.origIndex(side.Opposite()).Lookup(rec.Node); ok {
				tm.origIndex(side).Update(rec, NodeSibling(other.Node), rec.Original.Parent, rec.Original.HasParent)
				continue
			}

			var neighborIdx int
			if side == Prev {
				neighborIdx = i - 1
			} else {
				neighborIdx = i + 1
			}
			if neighborIdx >= 0 && neighborIdx < len(removed) && isNewlyFloated[removed[neighborIdx]] {
				neighborNode := removed[neighborIdx]
				tm.origIndex(side).Update(rec, NodeSibling(neighborNode), rec.Original.Parent, rec.Original.HasParent)
				if nrec, ok := tm.floating.Get(neighborNode); ok {
					nSide := side.Opposite()
					if !resolvedSide(nrec, nSide) {
						tm.origIndex(nSide).Update(nrec, NodeSibling(rec.Node), nrec.Original.Parent, nrec.Original.HasParent)
					}
				}
				continue
			}

			var edge Sibling = UnknownSibling()
			if neighborIdx < 0 {
				edge = prev
			} else if neighborIdx >= len(removed) {
				edge = next
			}

			p := tm.arena.alloc(rec, side)
			resolvedNow := false
			if edge.IsNode() || edge.IsEnd() {
				normalized := edge
				if n, ok := edge.Node(); ok {
					if _, floating := tm.floating.Get(n); floating {
						normalized = UnknownSibling()
					}
				}
				if normalized.IsNode() || normalized.IsEnd() {
					tm.resolvePromiseTo(p, normalized)
					resolvedNow = true
				}
			}
			if resolvedNow {
				continue
			}

			rec.Original.setSibling(side, PromiseSibling(p.ID))
			logPromise("parked promise %d for node %d toward %s", p.ID, rec.Node, side)
			if neighborIdx >= 0 && neighborIdx < len(removed) {
				if nrec, ok := tm.floating.Get(removed[neighborIdx]); ok {
					tm.attachPromiseToPointer(p, nrec, side)
					continue
				}
			}
			if n, ok := edge.Node(); ok {
				if erec, floating := tm.floating.Get(n); floating {
					tm.attachPromiseToPointer(p, erec, side)
				}
			}
		}
	}
}

// ingestAdditions runs spec.md §4.4 step 4: patch the window's fixed
// endpoint records' adjacent mutated slot, then lay the added nodes into
// the floating set (or re-float them, if they were already tracked) with
// freshly-known mutated positions.
func (tm *TreeMutations) ingestAdditions(parent NodeHandle, added []NodeHandle, prev, next Sibling, candidates *[]*MovedNodeRecord) {
	var firstAdded, lastAdded Sibling = UnknownSibling(), UnknownSibling()
	if len(added) > 0 {
		firstAdded = NodeSibling(added[0])
		lastAdded = NodeSibling(added[len(added)-1])
	}

	if n, ok := prev.Node(); ok {
		if prec, floating := tm.floating.Get(n); floating && prec.Mutated != nil {
			newNext := next
			if firstAdded.IsNode() {
				newNext = firstAdded
			}
			tm.setMutatedSibling(prec, Next, newNext, candidates)
			*candidates = appendUniqueRecord(*candidates, prec)
		}
	}
	if n, ok := next.Node(); ok {
		if nrec, floating := tm.floating.Get(n); floating && nrec.Mutated != nil {
			newPrev := prev
			if lastAdded.IsNode() {
				newPrev = lastAdded
			}
			tm.setMutatedSibling(nrec, Prev, newPrev, candidates)
			*candidates = appendUniqueRecord(*candidates, nrec)
		}
	}

	for i, n := range added {
		rec, existed := tm.floating.GetOrCreate(n)
		if existed {
			tm.discardPointerPromises(rec)
			tm.mutIndex(Prev).Remove(rec)
			tm.mutIndex(Next).Remove(rec)
			if rec.Original != nil && rec.Original.HasParent && rec.Original.Parent == parent {
				*candidates = appendUniqueRecord(*candidates, rec)
			}
		}
		var prevSib, nextSib Sibling
		if i == 0 {
			prevSib = prev
		} else {
			prevSib = NodeSibling(added[i-1])
		}
		if i == len(added)-1 {
			nextSib = next
		} else {
			nextSib = NodeSibling(added[i+1])
		}
		rec.Mutated = &PositionTriple{Parent: parent, HasParent: true, PrevSib: prevSib, NextSib: nextSib}
		tm.mutIndex(Prev).Add(rec)
		tm.mutIndex(Next).Add(rec)
	}
}

// propagateFixedness is spec.md §4.4 step 5: a floating candidate becomes
// fixed the instant both of its sides agree with its original siblings
// (transparently skipping over floating nodes from a different original
// parent), per invariant F2. Becoming fixed can reveal a neighbor as a new
// candidate, so this runs to a fixpoint via a work queue.
func (tm *TreeMutations) propagateFixedness(candidates []*MovedNodeRecord) {
	queue := append([]*MovedNodeRecord{}, candidates...)
	done := map[NodeHandle]bool{}
	for len(queue) > 0 {
		rec := queue[0]
		queue = queue[1:]
		if done[rec.Node] {
			continue
		}
		if _, stillFloating := tm.floating.Get(rec.Node); !stillFloating {
			continue
		}
		if rec.Original == nil {
			continue
		}

		// M4: a record whose mutated position already equals its
		// original drops immediately, regardless of whether its
		// neighbors have sorted themselves out yet. Without this, a
		// run of same-parent floating nodes that has fully returned
		// to its original order can get stuck never collapsing, since
		// sideMatches treats a same-parent floating neighbor as an
		// automatic mismatch rather than walking through it.
		if rec.equalPositions() {
			done[rec.Node] = true
			tm.fixRecord(rec, &queue)
			continue
		}

		matches := 0
		for _, side := range [...]Side{Prev, Next} {
			if tm.sideMatches(rec, side) {
				matches++
				rec.tried[side] = false
			} else {
				rec.tried[side] = true
			}
		}
		if matches < 2 {
			continue
		}

		done[rec.Node] = true
		tm.fixRecord(rec, &queue)
	}
}

// sideMatches reports whether rec has returned to its original sibling on
// side, walking through same-parent-unaware floating nodes transparently.
func (tm *TreeMutations) sideMatches(rec *MovedNodeRecord, side Side) bool {
	target := rec.Original.sibling(side)
	if !(target.IsNode() || target.IsEnd()) {
		return false
	}
	cur := rec
	for {
		if cur.Mutated == nil {
			return false
		}
		s := cur.Mutated.sibling(side)
		if s.IsEnd() {
			return target.IsEnd()
		}
		if s.IsUnknown() || s.IsPromise() {
			return false
		}
		n, _ := s.Node()
		other, floating := tm.floating.Get(n)
		if !floating {
			if target.IsEnd() {
				return false
			}
			tn, _ := target.Node()
			return tn == n
		}
		sameParent := other.Original != nil && rec.Original.HasParent && other.Original.HasParent && other.Original.Parent == rec.Original.Parent
		if sameParent {
			return false
		}
		cur = other
	}
}

// fixRecord drops rec out of every floating index, discards any promise
// still parked on it, and enqueues its original neighbors for
// reconsideration (their own reversion may have been blocked on rec).
func (tm *TreeMutations) fixRecord(rec *MovedNodeRecord, queue *[]*MovedNodeRecord) {
	tm.discardPointerPromises(rec)
	tm.origIndex(Prev).Remove(rec)
	tm.origIndex(Next).Remove(rec)
	tm.mutIndex(Prev).Remove(rec)
	tm.mutIndex(Next).Remove(rec)
	tm.floating.Delete(rec.Node)
	logPromise("node %d reverted to its original position", rec.Node)
	for _, side := range [...]Side{Prev, Next} {
		if n, ok := rec.Original.sibling(side).Node(); ok {
			if other, floating := tm.floating.Get(n); floating {
				*queue = append(*queue, other)
			}
		}
	}
}

// attachPromiseToPointer parks p in pointer's mutated[side] slot, but only
// when that slot is genuinely Unknown: the slot's job until resolution is
// then to carry the promise id, and whichever call later overwrites it
// (via setMutatedSibling) is what drives resolution. If the slot already
// names something concrete, parking there would destroy a known mutated
// sibling (and leave the sibling index stale), so instead walk forward
// per spec.md §4.3: follow the chain of mutated[side] slots, skipping
// over floating nodes, and resolve immediately against the first fixed
// node or End that turns up. If the walk itself dead-ends on an unknown
// or still-promised slot, p is left unattached; Synchronize's
// orphan-promise pass will resolve it later from the live tree.
func (tm *TreeMutations) attachPromiseToPointer(p *SiblingPromise, pointer *MovedNodeRecord, side Side) {
	if pointer.Mutated == nil {
		pointer.Mutated = &PositionTriple{PrevSib: UnknownSibling(), NextSib: UnknownSibling()}
	}
	if pointer.Mutated.sibling(side).IsUnknown() {
		p.hasPointer = true
		p.Pointer = pointer
		p.PointerSide = side
		tm.mutIndex(side).Update(pointer, PromiseSibling(p.ID), pointer.Mutated.Parent, pointer.Mutated.HasParent)
		return
	}
	if resolved, ok := tm.forwardWalk(pointer, side); ok {
		tm.resolvePromiseTo(p, resolved)
	}
}

// forwardWalk follows start's mutated[side] chain, stepping through any
// floating neighbor it meets, until it reaches a fixed (non-floating)
// node or End. Returns ok=false if the chain runs into an unknown or
// promised slot before reaching either.
func (tm *TreeMutations) forwardWalk(start *MovedNodeRecord, side Side) (Sibling, bool) {
	cur := start
	for {
		if cur.Mutated == nil {
			return Sibling{}, false
		}
		s := cur.Mutated.sibling(side)
		if s.IsEnd() {
			return s, true
		}
		n, ok := s.Node()
		if !ok {
			return Sibling{}, false
		}
		next, floating := tm.floating.Get(n)
		if !floating {
			return s, true
		}
		cur = next
	}
}

// setMutatedSibling writes val into rec's mutated[side] slot. If that
// slot currently holds a promise, writing resolves it first (the promise
// is always resolved to exactly the value that would have overwritten its
// parked slot); the slot is then updated for real via the mutated index.
func (tm *TreeMutations) setMutatedSibling(rec *MovedNodeRecord, side Side, val Sibling, resolvedAcc *[]*MovedNodeRecord) {
	if rec.Mutated == nil {
		return
	}
	if pid, ok := rec.Mutated.sibling(side).Promise(); ok {
		if p, exists := tm.arena.get(pid); exists {
			tm.resolvePromiseTo(p, val)
			if resolvedAcc != nil {
				*resolvedAcc = appendUniqueRecord(*resolvedAcc, p.Origin)
			}
		}
	}
	tm.mutIndex(side).Update(rec, val, rec.Mutated.Parent, rec.Mutated.HasParent)
}

// resolvePromiseTo writes s into the promise's origin's original[side]
// slot, indexes it if concrete, clears whatever pointer slot the promise
// occupied, and frees it from the arena.
func (tm *TreeMutations) resolvePromiseTo(p *SiblingPromise, s Sibling) {
	p.Origin.Original.setSibling(p.Direction, s)
	if _, ok := s.Node(); ok {
		tm.origIndex(p.Direction).Add(p.Origin)
	}
	if p.hasPointer && p.Pointer.Mutated != nil {
		p.Pointer.Mutated.setSibling(p.PointerSide, UnknownSibling())
	}
	tm.arena.free(p.ID)
	logPromise("promise %d resolved for node %d", p.ID, p.Origin.Node)
}

// discardPromise frees id without resolving it: used when the pointer
// slot it occupies is being overwritten for unrelated reasons (the record
// it names is being removed, re-added or fixed). The origin's original
// side keeps the freed promise id and is not retried by a later
// Mutate/Synchronize; Revert can then place that origin only through its
// other original side.
func (tm *TreeMutations) discardPromise(id PromiseID) {
	p, ok := tm.arena.get(id)
	if !ok {
		return
	}
	if p.hasPointer && p.Pointer.Mutated != nil {
		p.Pointer.Mutated.setSibling(p.PointerSide, UnknownSibling())
	}
	tm.arena.free(id)
}

func (tm *TreeMutations) discardPointerPromises(rec *MovedNodeRecord) {
	if rec.Mutated == nil {
		return
	}
	for _, side := range [...]Side{Prev, Next} {
		if pid, ok := rec.Mutated.sibling(side).Promise(); ok {
			tm.discardPromise(pid)
			rec.Mutated.setSibling(side, UnknownSibling())
		}
	}
}

func appendUniqueRecord(list []*MovedNodeRecord, r *MovedNodeRecord) []*MovedNodeRecord {
	if slices.Contains(list, r) {
		return list
	}
	return append(list, r)
}

// Synchronize is spec.md §4.5: read the live tree for every record whose
// mutated side is still unknown or promised, then re-run fixedness
// propagation over whatever that resolves. Promises with no pointer at
// all (the window that would have resolved them carried no hint in
// either direction) fall back to asking Tree for the named parent's
// current edge child — an approximation documented in DESIGN.md.
func (tm *TreeMutations) Synchronize(tree Tree) int {
	tm.floating.Each(func(r *MovedNodeRecord) { r.resetTried() })

	var resolved []*MovedNodeRecord
	tm.floating.Each(func(r *MovedNodeRecord) {
		if r.Mutated == nil {
			return
		}
		needPrev := r.Mutated.PrevSib.IsUnknown() || r.Mutated.PrevSib.IsPromise()
		needNext := r.Mutated.NextSib.IsUnknown() || r.Mutated.NextSib.IsPromise()
		if !needPrev && !needNext {
			return
		}
		livePrev, liveNext := tree.SiblingsOf(r.Node)
		if needPrev {
			tm.setMutatedSibling(r, Prev, livePrev, &resolved)
		}
		if needNext {
			tm.setMutatedSibling(r, Next, liveNext, &resolved)
		}
		resolved = appendUniqueRecord(resolved, r)
	})

	for _, p := range tm.arena.promises {
		if p.hasPointer {
			continue
		}
		if !p.Origin.Original.HasParent {
			continue
		}
		var anchor Sibling = EndSibling()
		if p.Direction == Prev {
			if n, ok := tree.FirstChild(p.Origin.Original.Parent); ok {
				anchor = NodeSibling(n)
			}
		} else {
			if n, ok := tree.LastChild(p.Origin.Original.Parent); ok {
				anchor = NodeSibling(n)
			}
		}
		tm.resolvePromiseTo(p, anchor)
		resolved = appendUniqueRecord(resolved, p.Origin)
	}

	tm.propagateFixedness(resolved)
	tm.checkInvariants()
	logMutation("synchronize resolved %d promise(s), %d floating remain", len(resolved), tm.floating.Len())
	return tm.floating.Len()
}

// checkInvariants verifies the postconditions Mutate and Synchronize must
// leave the engine in: M1 (a floating record always has an original or a
// mutated position), M4 (a record whose mutated position equals its
// original has already been dropped), and S1 (every concrete sibling
// index entry agrees with the record it points at). A violation panics
// with AssertionError — it means the bookkeeping above has desynchronized
// from what the records themselves say, not that the caller did anything
// wrong.
func (tm *TreeMutations) checkInvariants() {
	tm.floating.Each(func(r *MovedNodeRecord) {
		assertInvariant(r.Original != nil || r.Mutated != nil, "M1", "floating record has neither an original nor a mutated position")
		assertInvariant(!r.equalPositions(), "M4", "floating record should have been dropped: mutated equals original")

		for _, side := range [...]Side{Prev, Next} {
			if r.Original != nil {
				if n, ok := r.Original.sibling(side).Node(); ok {
					found, ok2 := tm.origIndex(side).Lookup(n)
					assertInvariant(ok2 && found == r, "S1", "original sibling index missing or stale")
				}
			}
			if r.Mutated != nil {
				if n, ok := r.Mutated.sibling(side).Node(); ok {
					found, ok2 := tm.mutIndex(side).Lookup(n)
					assertInvariant(ok2 && found == r, "S1", "mutated sibling index missing or stale")
				}
			}
		}
	})
}

// MoveGroup is one maximal run of adjacent floating nodes sharing an
// original parent, ready to be reinserted as a unit by Revert.
type MoveGroup struct {
	Nodes     []NodeHandle
	Parent    NodeHandle
	HasParent bool
	Prev      Sibling
	Next      Sibling
}

// buildMoveGroups partitions every floating record with known original
// position into maximal contiguous runs, by walking each record's
// original prev/next chain as far as it stays inside the floating set
// with a consistent parent.
func (tm *TreeMutations) buildMoveGroups() []MoveGroup {
	visited := map[NodeHandle]bool{}
	var groups []MoveGroup

	sameRun := func(a, b *MovedNodeRecord) bool {
		return a.Original.HasParent == b.Original.HasParent && a.Original.Parent == b.Original.Parent
	}

	tm.floating.Each(func(r *MovedNodeRecord) {
		if r.Original == nil || visited[r.Node] {
			return
		}
		start := r
		for {
			pn, ok := start.Original.PrevSib.Node()
			if !ok {
				break
			}
			prevRec, floating := tm.floating.Get(pn)
			if !floating || prevRec.Original == nil || !sameRun(prevRec, start) {
				break
			}
			if nn, ok2 := prevRec.Original.NextSib.Node(); !ok2 || nn != start.Node {
				break
			}
			start = prevRec
		}

		var nodes []NodeHandle
		cur := start
		for {
			nodes = append(nodes, cur.Node)
			visited[cur.Node] = true
			nn, ok := cur.Original.NextSib.Node()
			if !ok {
				break
			}
			nextRec, floating := tm.floating.Get(nn)
			if !floating || nextRec.Original == nil || !sameRun(nextRec, cur) {
				break
			}
			if pp, ok2 := nextRec.Original.PrevSib.Node(); !ok2 || pp != cur.Node {
				break
			}
			cur = nextRec
		}

		groups = append(groups, MoveGroup{
			Nodes:     nodes,
			Parent:    start.Original.Parent,
			HasParent: start.Original.HasParent,
			Prev:      start.Original.PrevSib,
			Next:      cur.Original.NextSib,
		})
	})
	return groups
}

// RevertOutcome reports what happened to one move group during Revert.
type RevertOutcome struct {
	Nodes  []NodeHandle
	Reason error
}

// TreeRevertResult summarizes a Revert call: how many floating nodes
// were successfully placed back, and which groups were skipped and why.
type TreeRevertResult struct {
	Applied int
	Skipped []RevertOutcome
}

// Revert is spec.md §4.6: detach every floating node, then reinsert every
// move group at its original position, preferring whichever of
// prev/next names a concrete anchor. A pure-addition record (no original
// position) is simply left detached by the first pass. A group with no
// resolvable anchor on either side is left untouched and reported in
// TreeRevertResult.Skipped with ErrInsufficientInformation, and logged.
func (tm *TreeMutations) Revert(tree Tree) TreeRevertResult {
	var result TreeRevertResult

	tm.floating.Each(func(r *MovedNodeRecord) { tree.Remove(r.Node) })

	for _, g := range tm.buildMoveGroups() {
		if !g.HasParent {
			logMutation("revert skipped group %v: %v", g.Nodes, ErrInsufficientInformation)
			result.Skipped = append(result.Skipped, RevertOutcome{Nodes: g.Nodes, Reason: ErrInsufficientInformation})
			continue
		}
		placed := tm.placeGroup(tree, g)
		if !placed {
			logMutation("revert skipped group %v: %v", g.Nodes, ErrInsufficientInformation)
			result.Skipped = append(result.Skipped, RevertOutcome{Nodes: g.Nodes, Reason: ErrInsufficientInformation})
			continue
		}
		result.Applied += len(g.Nodes)
	}

	tm.Clear()
	return result
}

func (tm *TreeMutations) placeGroup(tree Tree, g MoveGroup) bool {
	if nextNode, ok := g.Next.Node(); ok {
		for _, n := range g.Nodes {
			tree.InsertBefore(g.Parent, n, nextNode)
		}
		return true
	}
	if g.Next.IsEnd() {
		for _, n := range g.Nodes {
			tree.Append(g.Parent, n)
		}
		return true
	}
	if prevNode, ok := g.Prev.Node(); ok {
		_, liveNext := tree.SiblingsOf(prevNode)
		if refNode, ok2 := liveNext.Node(); ok2 {
			for _, n := range g.Nodes {
				tree.InsertBefore(g.Parent, n, refNode)
			}
		} else {
			for _, n := range g.Nodes {
				tree.Append(g.Parent, n)
			}
		}
		return true
	}
	if g.Prev.IsEnd() {
		if firstChild, ok := tree.FirstChild(g.Parent); ok {
			for _, n := range g.Nodes {
				tree.InsertBefore(g.Parent, n, firstChild)
			}
		} else {
			for _, n := range g.Nodes {
				tree.Append(g.Parent, n)
			}
		}
		return true
	}
	return false
}

// Clear drops all engine state: every floating record, every index entry,
// every pending promise.
func (tm *TreeMutations) Clear() {
	tm.floating.Clear()
	tm.origIndex(Prev).Clear()
	tm.origIndex(Next).Clear()
	tm.mutIndex(Prev).Clear()
	tm.mutIndex(Next).Clear()
	tm.arena.clear()
}

// MutatedUnder reports whether any floating record has at least one side
// (original or mutated) whose parent is contained by root, per spec.md
// §4.7.
func (tm *TreeMutations) MutatedUnder(root NodeHandle, contains func(ancestor, n NodeHandle) bool) bool {
	found := false
	tm.floating.Each(func(r *MovedNodeRecord) {
		if found {
			return
		}
		origOK := r.Original != nil && r.Original.HasParent && contains(root, r.Original.Parent)
		mutOK := r.Mutated != nil && r.Mutated.HasParent && contains(root, r.Mutated.Parent)
		if origOK || mutOK {
			found = true
		}
	})
	return found
}

// OriginalGap returns the BoundaryRange bracketing the original position
// of a floating node, collapsing to one side when only one original
// sibling is concretely known, for use by MutationDiff.Range.
func (tm *TreeMutations) OriginalGap(r *MovedNodeRecord) (BoundaryRange, bool) {
	var rng BoundaryRange
	if r.Original == nil {
		return rng, false
	}
	prevN, prevOK := r.Original.PrevSib.Node()
	nextN, nextOK := r.Original.NextSib.Node()
	switch {
	case prevOK && nextOK:
		rng.SetStart(prevN, true, false)
		rng.SetEnd(nextN, true, false)
		return rng, true
	case prevOK:
		rng.SelectNode(prevN)
		return rng, true
	case nextOK:
		rng.SelectNode(nextN)
		return rng, true
	case r.Original.HasParent && r.Original.PrevSib.IsEnd() && r.Original.NextSib.IsEnd():
		rng.SelectNode(r.Original.Parent)
		return rng, true
	default:
		return rng, false
	}
}
