package tree

// Visitor is invoked for every visited node; returning an error stops the walk.
type Visitor func(NodeID) error

type WalkConditions struct {
	// Return true when the walker should stop traversing (before visiting current node)
	ShouldTerminate func(NodeID) bool

	// Whether we should visit the current node. Note: this will continue down the same traversal
	// path, only "skipping" over a single node (but still potentially visiting children later)
	// Return true to visit the current node.
	ShouldVisit func(NodeID) bool

	// Whether we should consider children of this node to be included in the traversal path.
	// Return true to traverse children of this node.
	ShouldContinueBranch func(NodeID) bool
}

type Walker interface {
	Walk(from NodeID) (NodeID, error)
}

type reader interface {
	Children(NodeID) []NodeID
}

func (c WalkConditions) terminate(id NodeID) bool {
	return c.ShouldTerminate != nil && c.ShouldTerminate(id)
}

func (c WalkConditions) visit(id NodeID) bool {
	return c.ShouldVisit == nil || c.ShouldVisit(id)
}

func (c WalkConditions) continueBranch(id NodeID) bool {
	return c.ShouldContinueBranch == nil || c.ShouldContinueBranch(id)
}

// DepthFirstWalker implements pre-order depth-first traversal, visiting siblings in insertion order.
type DepthFirstWalker struct {
	visitor    Visitor
	tree       reader
	conditions WalkConditions
}

func NewDepthFirstWalker[T any](t *Tree[T], visitor Visitor) *DepthFirstWalker {
	return &DepthFirstWalker{
		visitor: visitor,
		tree:    t,
	}
}

func NewDepthFirstWalkerWithConditions[T any](t *Tree[T], visitor Visitor, conditions WalkConditions) *DepthFirstWalker {
	return &DepthFirstWalker{
		visitor:    visitor,
		tree:       t,
		conditions: conditions,
	}
}

// Walk returns the node the walk was terminated at (NoNode if it ran to completion).
func (w *DepthFirstWalker) Walk(from NodeID) (NodeID, error) {
	stack := []NodeID{from}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.conditions.terminate(current) {
			return current, nil
		}

		// visit
		if w.visitor != nil && w.conditions.visit(current) {
			if err := w.visitor(current); err != nil {
				return current, err
			}
		}

		if !w.conditions.continueBranch(current) {
			continue
		}

		// push children in reverse so the first child is popped first
		children := w.tree.Children(current)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return NoNode, nil
}

// BreadthFirstWalker implements level-order traversal, visiting siblings in insertion order.
type BreadthFirstWalker struct {
	visitor    Visitor
	tree       reader
	conditions WalkConditions
}

func NewBreadthFirstWalker[T any](t *Tree[T], visitor Visitor) *BreadthFirstWalker {
	return &BreadthFirstWalker{
		visitor: visitor,
		tree:    t,
	}
}

func NewBreadthFirstWalkerWithConditions[T any](t *Tree[T], visitor Visitor, conditions WalkConditions) *BreadthFirstWalker {
	return &BreadthFirstWalker{
		visitor:    visitor,
		tree:       t,
		conditions: conditions,
	}
}

func (w *BreadthFirstWalker) Walk(from NodeID) (NodeID, error) {
	queue := []NodeID{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if w.conditions.terminate(current) {
			return current, nil
		}

		// visit
		if w.visitor != nil && w.conditions.visit(current) {
			if err := w.visitor(current); err != nil {
				return current, err
			}
		}

		if !w.conditions.continueBranch(current) {
			continue
		}

		// enqueue children
		queue = append(queue, w.tree.Children(current)...)
	}

	return NoNode, nil
}
