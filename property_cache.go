package mutationdiff

import "golang.org/x/exp/maps"

// characterDataKey is the distinguished sentinel used in the native map
// in place of an attribute name, so character-data and attributes share
// one map/counter without a null key (spec.md §9).
const characterDataKey = "\x00data"

// propEntry is one tracked key's original value plus its current dirty
// state. The original never changes after first observation; only Dirty
// toggles as later updates compare the current value back against it.
type propEntry struct {
	Original string
	HasValue bool // false means the key did not exist originally (attribute was absent)
	Dirty    bool
}

// nodeProps is one node's native (attribute/character-data) and custom
// property cache.
type nodeProps struct {
	native map[string]*propEntry
	custom map[any]*propEntry
}

func newNodeProps() *nodeProps {
	return &nodeProps{
		native: make(map[string]*propEntry),
		custom: make(map[any]*propEntry),
	}
}

// PropertyCache is the per-node attribute/character-data/custom-property
// store from spec.md §4.1. One instance is shared across every tracked
// node; per-node state lives in the nodeProps it allocates lazily.
type PropertyCache struct {
	nodes      map[NodeHandle]*nodeProps
	cleanCount int
	dirtyCount int
}

// NewPropertyCache constructs an empty cache.
func NewPropertyCache() *PropertyCache {
	return &PropertyCache{nodes: make(map[NodeHandle]*nodeProps)}
}

func (c *PropertyCache) props(n NodeHandle) *nodeProps {
	p, ok := c.nodes[n]
	if !ok {
		p = newNodeProps()
		c.nodes[n] = p
	}
	return p
}

// markNative records an observation of a native (attribute or
// character-data) key on n. current is the value observed right now;
// old is the value it had immediately before this observation (the
// notification's old_value). On first observation for this key, old
// becomes the permanent Original. hadOld=false means the key did not
// exist before (an attribute that was absent).
func (c *PropertyCache) markNative(n NodeHandle, key, current string, hadOld bool, old string) {
	m := c.props(n).native
	e, exists := m[key]
	if !exists {
		e = &propEntry{Original: old, HasValue: hadOld}
		m[key] = e
		e.Dirty = current != e.Original || hadOld != e.HasValue
		if e.Dirty {
			c.dirtyCount++
		} else {
			c.cleanCount++
		}
		return
	}
	wasDirty := e.Dirty
	e.Dirty = current != e.Original || hadOld != e.HasValue
	c.reconcileCount(wasDirty, e.Dirty)
}

// markCustom is the same as markNative but for embedder-defined keys
// (arbitrary comparable values) tracked alongside native ones.
func (c *PropertyCache) markCustom(n NodeHandle, key any, current string, hadOld bool, old string) {
	m := c.props(n).custom
	e, exists := m[key]
	if !exists {
		e = &propEntry{Original: old, HasValue: hadOld}
		m[key] = e
		e.Dirty = current != e.Original || hadOld != e.HasValue
		if e.Dirty {
			c.dirtyCount++
		} else {
			c.cleanCount++
		}
		return
	}
	wasDirty := e.Dirty
	e.Dirty = current != e.Original || hadOld != e.HasValue
	c.reconcileCount(wasDirty, e.Dirty)
}

func (c *PropertyCache) reconcileCount(was, now bool) {
	if was == now {
		return
	}
	if now {
		c.cleanCount--
		c.dirtyCount++
	} else {
		c.dirtyCount--
		c.cleanCount++
	}
}

// Dirty reports whether any property anywhere in the cache is dirty.
func (c *PropertyCache) Dirty() bool { return c.dirtyCount > 0 }

// DirtyUnder reports whether any dirty property belongs to a node
// contained by root (or root itself).
func (c *PropertyCache) DirtyUnder(root NodeHandle, contains func(ancestor, n NodeHandle) bool) bool {
	for n, p := range c.nodes {
		if !contains(root, n) {
			continue
		}
		for _, e := range p.native {
			if e.Dirty {
				return true
			}
		}
		for _, e := range p.custom {
			if e.Dirty {
				return true
			}
		}
	}
	return false
}

// Nodes returns every node handle with at least one cached entry.
func (c *PropertyCache) Nodes() []NodeHandle { return maps.Keys(c.nodes) }

// NativeEntries returns the native map for n, or nil if untracked.
func (c *PropertyCache) NativeEntries(n NodeHandle) map[string]*propEntry {
	if p, ok := c.nodes[n]; ok {
		return p.native
	}
	return nil
}

// CustomEntries returns the custom map for n, or nil if untracked.
func (c *PropertyCache) CustomEntries(n NodeHandle) map[any]*propEntry {
	if p, ok := c.nodes[n]; ok {
		return p.custom
	}
	return nil
}

// RevertTarget is the write surface PropertyCache.Revert needs: a live
// data/attribute setter. Tree satisfies this directly.
type RevertTarget interface {
	SetData(n NodeHandle, data string)
	SetAttribute(n NodeHandle, name, value string)
	RemoveAttribute(n NodeHandle, name string)
}

// CustomRevertFunc restores one dirty custom property. Called once per
// dirty custom entry during Revert.
type CustomRevertFunc func(n NodeHandle, key any, original string, hadValue bool)

// Revert restores every dirty native entry for n via target, and invokes
// custom for every dirty custom entry (if custom is nil those entries
// stay dirty and their keys are returned in skippedCustom — spec.md §9
// open question (b)). Reverted entries are left in the
// cache as clean (Dirty=false) rather than removed, since Original still
// describes the tracked baseline.
func (c *PropertyCache) Revert(n NodeHandle, target RevertTarget, custom CustomRevertFunc) (skippedCustom []any) {
	p, ok := c.nodes[n]
	if !ok {
		return nil
	}
	for key, e := range p.native {
		if !e.Dirty {
			continue
		}
		if key == characterDataKey {
			target.SetData(n, e.Original)
		} else if e.HasValue {
			target.SetAttribute(n, key, e.Original)
		} else {
			target.RemoveAttribute(n, key)
		}
		c.reconcileCount(true, false)
		e.Dirty = false
	}
	for key, e := range p.custom {
		if !e.Dirty {
			continue
		}
		if custom == nil {
			skippedCustom = append(skippedCustom, key)
			continue
		}
		custom(n, key, e.Original, e.HasValue)
		c.reconcileCount(true, false)
		e.Dirty = false
	}
	return skippedCustom
}

// Synchronize drops every clean entry across every node and returns the
// count of entries that remain (all of them dirty, by construction).
func (c *PropertyCache) Synchronize() int {
	for n, p := range c.nodes {
		for k, e := range p.native {
			if !e.Dirty {
				delete(p.native, k)
			}
		}
		for k, e := range p.custom {
			if !e.Dirty {
				delete(p.custom, k)
			}
		}
		if len(p.native) == 0 && len(p.custom) == 0 {
			delete(c.nodes, n)
		}
	}
	c.cleanCount = 0
	return c.dirtyCount
}

// Clear drops all cached state.
func (c *PropertyCache) Clear() {
	c.nodes = make(map[NodeHandle]*nodeProps)
	c.cleanCount = 0
	c.dirtyCount = 0
}

// Size returns the total number of tracked nodes (used by
// MutationDiff.StorageSize).
func (c *PropertyCache) Size() int { return len(c.nodes) }
