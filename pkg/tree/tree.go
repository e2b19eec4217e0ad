package tree

import (
	"fmt"
)

// NodeID addresses a node within the arena of a single Tree. IDs of removed nodes may be reused by later insertions.
type NodeID int

// NoNode is returned wherever a node reference is absent (e.g. the parent of the root).
const NoNode NodeID = -1

type entry[T any] struct {
	label    string
	payload  T
	parent   NodeID
	children []NodeID
	byLabel  map[string]NodeID
	live     bool
}

// Tree is a rooted tree of labeled nodes, each holding a payload. Nodes live in an arena and refer to their parent
// and children by index, so ancestor walks are O(depth) without any cyclic ownership.
type Tree[T any] struct {
	nodes []entry[T]
	free  []NodeID
	size  int
}

// NewTree returns a tree containing only a root node with the given label and payload.
func NewTree[T any](rootLabel string, payload T) *Tree[T] {
	t := &Tree[T]{}
	t.alloc(rootLabel, payload, NoNode)
	return t
}

func (t *Tree[T]) alloc(label string, payload T, parent NodeID) NodeID {
	e := entry[T]{
		label:   label,
		payload: payload,
		parent:  parent,
		live:    true,
	}
	t.size++
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[id] = e
		return id
	}
	t.nodes = append(t.nodes, e)
	return NodeID(len(t.nodes) - 1)
}

// Root is the ID of the root node, which can never be removed.
func (t *Tree[T]) Root() NodeID {
	return 0
}

// Len is the number of live nodes, including the root.
func (t *Tree[T]) Len() int {
	return t.size
}

// Contains indicates the given ID refers to a live node.
func (t *Tree[T]) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].live
}

func (t *Tree[T]) get(id NodeID) *entry[T] {
	if !t.Contains(id) {
		panic(fmt.Sprintf("tree: no live node with id=%d", id))
	}
	return &t.nodes[id]
}

func (t *Tree[T]) Label(id NodeID) string {
	return t.get(id).label
}

func (t *Tree[T]) Payload(id NodeID) T {
	return t.get(id).payload
}

func (t *Tree[T]) SetPayload(id NodeID, payload T) {
	t.get(id).payload = payload
}

// Parent returns the parent of the given node (or NoNode if it is the root).
func (t *Tree[T]) Parent(id NodeID) NodeID {
	return t.get(id).parent
}

// Children returns the children of the given node in insertion order.
func (t *Tree[T]) Children(id NodeID) []NodeID {
	children := t.get(id).children
	if len(children) == 0 {
		return nil
	}
	return append([]NodeID(nil), children...)
}

func (t *Tree[T]) ChildCount(id NodeID) int {
	return len(t.get(id).children)
}

func (t *Tree[T]) IsLeaf(id NodeID) bool {
	return len(t.get(id).children) == 0
}

// ChildByLabel returns the direct child of the given node carrying the label.
func (t *Tree[T]) ChildByLabel(id NodeID, label string) (NodeID, bool) {
	child, ok := t.get(id).byLabel[label]
	return child, ok
}

// AddChild attaches a new node under the given parent. Labels are unique among siblings.
func (t *Tree[T]) AddChild(parent NodeID, label string, payload T) (NodeID, error) {
	p := t.get(parent)
	if _, exists := p.byLabel[label]; exists {
		return NoNode, fmt.Errorf("node label collision under parent=%d: %q", parent, label)
	}

	id := t.alloc(label, payload, parent)

	// the arena may have been reallocated
	p = &t.nodes[parent]
	if p.byLabel == nil {
		p.byLabel = make(map[string]NodeID)
	}
	p.children = append(p.children, id)
	p.byLabel[label] = id
	return id, nil
}

// RemoveChildren deletes the entire subtree beneath the given node (the node itself is kept) and returns the
// number of nodes removed.
func (t *Tree[T]) RemoveChildren(id NodeID) int {
	e := t.get(id)
	children := e.children
	e.children = nil
	e.byLabel = nil

	removed := 0
	for _, child := range children {
		removed += t.release(child)
	}
	return removed
}

// RemoveNode deletes the given node and its subtree.
func (t *Tree[T]) RemoveNode(id NodeID) (int, error) {
	e := t.get(id)
	if e.parent == NoNode {
		return 0, fmt.Errorf("cannot remove the root node")
	}
	p := t.get(e.parent)
	delete(p.byLabel, e.label)
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	return t.release(id), nil
}

func (t *Tree[T]) release(id NodeID) int {
	e := &t.nodes[id]
	removed := 1
	for _, child := range e.children {
		removed += t.release(child)
	}
	var zero entry[T]
	t.nodes[id] = zero
	t.free = append(t.free, id)
	t.size--
	return removed
}

// Depth is the number of edges between the root and the given node.
func (t *Tree[T]) Depth(id NodeID) int {
	depth := 0
	for cur := t.get(id).parent; cur != NoNode; cur = t.nodes[cur].parent {
		depth++
	}
	return depth
}

// Labels returns the labels from the first child of the root down to the given node (the root label is excluded).
func (t *Tree[T]) Labels(id NodeID) []string {
	var labels []string
	for cur := id; t.get(cur).parent != NoNode; cur = t.nodes[cur].parent {
		labels = append(labels, t.nodes[cur].label)
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}

// Ancestors returns the chain of ancestors of the given node, nearest first.
func (t *Tree[T]) Ancestors(id NodeID) []NodeID {
	var ancestors []NodeID
	for cur := t.get(id).parent; cur != NoNode; cur = t.nodes[cur].parent {
		ancestors = append(ancestors, cur)
	}
	return ancestors
}
