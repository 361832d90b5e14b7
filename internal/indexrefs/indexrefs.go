// Package indexrefs implements the nested-map secondary-index store
// described in spec §3 ("IndexRefs") and §9's DESIGN NOTES recursive
// variant: Node = Leaf(RowID) | LeafSet(set<RowID>) | Branch(map<Value,
// Node>), with depth equal to the indexed field count.
//
// A missing field value is encoded by the sentinel string "__NULL__"
// (spec §4.3/§4.6), which callers in internal/engine are responsible for
// substituting before calling Add/Remove — this package only walks
// whatever path it is given.
package indexrefs

import "sqlfake/internal/row"

// NullSentinel is the encoded stand-in for a missing field value at any
// position in an index-key path.
const NullSentinel = "__NULL__"

// IndexKey is one index-ref path produced by internal/engine's
// ComputeIndexKeys: the index it belongs to, the path to Add/Remove, and
// whether entries at that path should be stored as a unique leaf.
type IndexKey struct {
	IndexName     string
	Path          []string
	StoreAsUnique bool
}

// rowIDSet is a non-unique leaf: a set of row-ids sharing one index path.
type rowIDSet map[row.ID]struct{}

// node is one level of the nested index structure. Exactly one of its
// fields is meaningful at a time:
//   - leaf is set when this node is a unique leaf (path fully consumed,
//     store_as_unique == true).
//   - leafSet is set when this node is a non-unique leaf.
//   - branch is set when more path components remain.
type node struct {
	isLeaf    bool
	leaf      row.ID
	isLeafSet bool
	leafSet   rowIDSet
	branch    map[string]*node
}

// Index is one named index's nested ref structure.
type Index struct {
	root map[string]*node
}

func newIndex() *Index { return &Index{root: make(map[string]*node)} }

// Store holds every index's Index for one table, keyed by index name.
type Store struct {
	indexes map[string]*Index
}

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{indexes: make(map[string]*Index)} }

// Clone returns a deep copy of s, so callers can mutate the clone under
// the copy-on-write discipline spec §5 recommends without disturbing the
// snapshot the server store still holds.
func (s *Store) Clone() *Store {
	n := NewStore()
	for name, idx := range s.indexes {
		n.indexes[name] = cloneIndex(idx)
	}
	return n
}

func cloneIndex(idx *Index) *Index {
	n := newIndex()
	for k, v := range idx.root {
		n.root[k] = cloneNode(v)
	}
	return n
}

func cloneNode(n *node) *node {
	c := &node{isLeaf: n.isLeaf, leaf: n.leaf, isLeafSet: n.isLeafSet}
	if n.leafSet != nil {
		c.leafSet = make(rowIDSet, len(n.leafSet))
		for id := range n.leafSet {
			c.leafSet[id] = struct{}{}
		}
	}
	if n.branch != nil {
		c.branch = make(map[string]*node, len(n.branch))
		for k, v := range n.branch {
			c.branch[k] = cloneNode(v)
		}
	}
	return c
}

func (s *Store) index(name string) *Index {
	idx, ok := s.indexes[name]
	if !ok {
		idx = newIndex()
		s.indexes[name] = idx
	}
	return idx
}

// Lookup walks path within the named index and, if it terminates at a
// leaf, returns the set of matching row-ids (a single id for a unique
// leaf). ok is false if the path is entirely absent.
func (s *Store) Lookup(indexName string, path []string) (ids []row.ID, ok bool) {
	idx, present := s.indexes[indexName]
	if !present {
		return nil, false
	}
	n, present := walk(idx.root, path)
	if !present {
		return nil, false
	}
	switch {
	case n.isLeaf:
		return []row.ID{n.leaf}, true
	case n.isLeafSet:
		ids = make([]row.ID, 0, len(n.leafSet))
		for id := range n.leafSet {
			ids = append(ids, id)
		}
		return ids, true
	default:
		return nil, false
	}
}

func walk(m map[string]*node, path []string) (*node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	n, ok := m[path[0]]
	if !ok {
		return nil, false
	}
	if len(path) == 1 {
		return n, true
	}
	if n.branch == nil {
		return nil, false
	}
	return walk(n.branch, path[1:])
}

// Add inserts id at path within the named index, per spec §4.7's
// addToIndexes: a length-1 unique path overwrites the leaf; a length-1
// non-unique path inserts into a set; longer paths descend/create
// branches and recurse on the tail.
func (s *Store) Add(indexName string, path []string, unique bool, id row.ID) {
	idx := s.index(indexName)
	idx.root = addAt(idx.root, path, unique, id)
}

func addAt(m map[string]*node, path []string, unique bool, id row.ID) map[string]*node {
	if m == nil {
		m = make(map[string]*node)
	}
	if len(path) == 1 {
		if unique {
			m[path[0]] = &node{isLeaf: true, leaf: id}
			return m
		}
		n, ok := m[path[0]]
		if !ok || !n.isLeafSet {
			n = &node{isLeafSet: true, leafSet: make(rowIDSet)}
			m[path[0]] = n
		}
		n.leafSet[id] = struct{}{}
		return m
	}
	n, ok := m[path[0]]
	if !ok || n.branch == nil {
		n = &node{branch: make(map[string]*node)}
		m[path[0]] = n
	}
	n.branch = addAt(n.branch, path[1:], unique, id)
	return m
}

// Remove deletes id at path within the named index, per spec §4.7's
// removeFromIndexes. Branches that become empty after removal are
// collapsed out of their parent.
func (s *Store) Remove(indexName string, path []string, unique bool, id row.ID) {
	idx, ok := s.indexes[indexName]
	if !ok {
		return
	}
	idx.root = removeAt(idx.root, path, unique, id)
}

func removeAt(m map[string]*node, path []string, unique bool, id row.ID) map[string]*node {
	if m == nil || len(path) == 0 {
		return m
	}
	n, ok := m[path[0]]
	if !ok {
		return m
	}
	if len(path) == 1 {
		if unique {
			delete(m, path[0])
			return m
		}
		if n.isLeafSet {
			delete(n.leafSet, id)
			if len(n.leafSet) == 0 {
				delete(m, path[0])
			}
		}
		return m
	}
	if n.branch == nil {
		return m
	}
	n.branch = removeAt(n.branch, path[1:], unique, id)
	if len(n.branch) == 0 {
		delete(m, path[0])
	}
	return m
}
