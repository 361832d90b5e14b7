// Package queryctx implements the per-request QueryContext described in
// spec §5: replica/strictness flags plus the dirty-PK set consulted by
// applyWhere's replica guard and populated by applySet.
//
// Lifecycle: set at request entry, cleared at request exit, mirroring
// the teacher's internal/apply.Options — a flat struct of request-scoped
// toggles threaded explicitly through the call chain rather than stashed
// in a package-level global (per spec §9's "Dirty-PK visibility across
// statements" design note).
package queryctx

import "sqlfake/internal/row"

// Context carries the flags and mutable dirty-PK tracking for one
// request.
type Context struct {
	// UseReplica marks the connection as reading from a replica.
	UseReplica bool
	// InRequest marks that we are inside a request boundary; outside
	// one, dirty-PK tracking and the replica guard are inert.
	InRequest bool
	// PreventReplicaReadsAfterWrites enables applyWhere's replica guard.
	PreventReplicaReadsAfterWrites bool
	// RelaxUniqueConstraints downgrades UniqueKeyViolation to a silent
	// continue during applySet (spec §4.5.2.5.d).
	RelaxUniqueConstraints bool
	// Query is the current SQL text, included in ReplicaAfterWriteError
	// messages.
	Query string

	// dirtyPKs is a per-table primary-key-mutated-this-request tracker.
	dirtyPKs map[string]map[row.ID]struct{}
}

// New returns a Context with empty dirty-PK tracking.
func New() *Context {
	return &Context{dirtyPKs: make(map[string]map[row.ID]struct{})}
}

// MarkDirty records id as mutated this request for table.
func (c *Context) MarkDirty(table string, id row.ID) {
	if !c.InRequest {
		return
	}
	if c.dirtyPKs == nil {
		c.dirtyPKs = make(map[string]map[row.ID]struct{})
	}
	set, ok := c.dirtyPKs[table]
	if !ok {
		set = make(map[row.ID]struct{})
		c.dirtyPKs[table] = set
	}
	set[id] = struct{}{}
}

// DirtyPKs returns the set of row-ids marked dirty for table this
// request.
func (c *Context) DirtyPKs(table string) map[row.ID]struct{} {
	return c.dirtyPKs[table]
}

// IntersectsDirty reports whether any id in ids is marked dirty for
// table — the check applyWhere's replica guard performs (spec §4.1.4).
func (c *Context) IntersectsDirty(table string, ids []row.ID) bool {
	dirty := c.dirtyPKs[table]
	if len(dirty) == 0 {
		return false
	}
	for _, id := range ids {
		if _, ok := dirty[id]; ok {
			return true
		}
	}
	return false
}

// Reset clears all dirty-PK tracking, mirroring request-exit cleanup.
func (c *Context) Reset() {
	c.dirtyPKs = make(map[string]map[row.ID]struct{})
}
