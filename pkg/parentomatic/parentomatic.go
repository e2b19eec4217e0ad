/*
Package parentomatic consolidates many candidate walk roots into a minimal covering set.

Paths are accumulated into a sparse tree of "interesting" nodes. Marking a path requests that a recursive walk start
there; two rules keep the marked set minimal:

  - Rule A: a path beneath an already marked path is redundant, so it is not marked.
  - Rule B: when every child (at least two) of a node is marked, the node is marked instead of its children.

When marked nodes only are kept, the subtree beneath each marked node is pruned, since the recursive walk from the
marked node covers it anyway.
*/
package parentomatic

import (
	"fmt"
	"strings"

	"github.com/sonatype/nexus-public-sub016/internal/log"
	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/tree"
)

// Payload is the per-node state of the consolidation tree.
type Payload struct {
	Path   file.Path
	Marked bool
}

type Option func(*ParentOMatic)

// WithKeepMarkedNodesOnly controls pruning of subtrees beneath marked nodes (default on).
func WithKeepMarkedNodesOnly(keep bool) Option {
	return func(p *ParentOMatic) {
		p.keepMarkedNodesOnly = keep
	}
}

// WithRuleA controls "a marked ancestor covers the path" consolidation (default on).
func WithRuleA(apply bool) Option {
	return func(p *ParentOMatic) {
		p.applyRuleA = apply
	}
}

// WithRuleB controls "all siblings marked promotes the parent" consolidation (default on).
func WithRuleB(apply bool) Option {
	return func(p *ParentOMatic) {
		p.applyRuleB = apply
	}
}

// ParentOMatic is a single-writer accumulator; it must not be mutated concurrently.
type ParentOMatic struct {
	keepMarkedNodesOnly bool
	applyRuleA          bool
	applyRuleB          bool
	tree                *tree.Tree[Payload]
}

func New(options ...Option) *ParentOMatic {
	p := &ParentOMatic{
		keepMarkedNodesOnly: true,
		applyRuleA:          true,
		applyRuleB:          true,
		tree:                tree.NewTree(file.DirSeparator, Payload{Path: file.RootPath}),
	}
	for _, option := range options {
		if option != nil {
			option(p)
		}
	}
	return p
}

// Tree exposes the underlying consolidation tree for inspection.
func (p *ParentOMatic) Tree() *tree.Tree[Payload] {
	return p.tree
}

func (p *ParentOMatic) Root() tree.NodeID {
	return p.tree.Root()
}

func (p *ParentOMatic) IsMarked(id tree.NodeID) bool {
	return p.tree.Payload(id).Marked
}

func (p *ParentOMatic) setMarked(id tree.NodeID, marked bool) {
	payload := p.tree.Payload(id)
	payload.Marked = marked
	p.tree.SetPayload(id, payload)
}

// AddPath inserts the path (creating intermediate nodes) without marking it. When marked nodes only are kept and an
// already marked node lies along the path, nothing deeper is created and the marked node is returned.
func (p *ParentOMatic) AddPath(path string) tree.NodeID {
	return p.addPath(path, p.keepMarkedNodesOnly)
}

func (p *ParentOMatic) addPath(path string, optimize bool) tree.NodeID {
	current := p.tree.Root()
	for _, segment := range file.Path(path).Segments() {
		if optimize && p.IsMarked(current) {
			return current
		}
		child, ok := p.tree.ChildByLabel(current, segment)
		if !ok {
			var err error
			childPath := file.RootPath.Join(append(p.tree.Labels(current), segment)...)
			child, err = p.tree.AddChild(current, segment, Payload{Path: childPath})
			if err != nil {
				// the label was just confirmed absent
				panic(err)
			}
		}
		current = child
	}
	if optimize {
		p.optimizeTreeSize(current)
	}
	return current
}

// AddAndMarkPath inserts and marks the path, then applies the consolidation rules. The returned node is the one
// whose marked state covers the path afterwards.
func (p *ParentOMatic) AddAndMarkPath(path string) tree.NodeID {
	current := p.addPath(path, false)
	p.setMarked(current, true)

	affected := p.reorganizeForRecursion(current)
	p.optimizeTreeSize(affected)

	log.Tracef("parentomatic: marked path=%q affected=%q", path, p.tree.Payload(affected).Path)
	return affected
}

func (p *ParentOMatic) reorganizeForRecursion(current tree.NodeID) tree.NodeID {
	if p.applyRuleA {
		if ancestor, ok := p.markedAncestor(current); ok {
			p.setMarked(current, false)
			return ancestor
		}
		// the newly marked node also covers anything marked beneath it
		p.unmarkDescendants(current)
	}

	if p.applyRuleB {
		parent := p.tree.Parent(current)
		if parent != tree.NoNode && p.tree.ChildCount(parent) > 1 && p.allChildrenMarked(parent) {
			p.setMarked(parent, true)
			for _, child := range p.tree.Children(parent) {
				p.setMarked(child, false)
			}
			return parent
		}
	}

	return current
}

func (p *ParentOMatic) markedAncestor(id tree.NodeID) (tree.NodeID, bool) {
	for _, ancestor := range p.tree.Ancestors(id) {
		if p.IsMarked(ancestor) {
			return ancestor, true
		}
	}
	return tree.NoNode, false
}

func (p *ParentOMatic) allChildrenMarked(id tree.NodeID) bool {
	for _, child := range p.tree.Children(id) {
		if !p.IsMarked(child) {
			return false
		}
	}
	return true
}

func (p *ParentOMatic) unmarkDescendants(id tree.NodeID) {
	for _, child := range p.tree.Children(id) {
		p.setMarked(child, false)
		p.unmarkDescendants(child)
	}
}

func (p *ParentOMatic) optimizeTreeSize(id tree.NodeID) {
	if p.keepMarkedNodesOnly && p.IsMarked(id) {
		p.tree.RemoveChildren(id)
	}
}

// MarkedPaths returns the path of every marked node, in depth-first order.
func (p *ParentOMatic) MarkedPaths() []string {
	return p.collect(func(id tree.NodeID) bool {
		return p.IsMarked(id)
	})
}

// AllLeafPaths returns the path of every node without children, in depth-first order.
func (p *ParentOMatic) AllLeafPaths() []string {
	return p.collect(p.tree.IsLeaf)
}

func (p *ParentOMatic) collect(include func(tree.NodeID) bool) []string {
	var paths []string
	walker := tree.NewDepthFirstWalkerWithConditions(p.tree, func(id tree.NodeID) error {
		paths = append(paths, string(p.tree.Payload(id).Path))
		return nil
	}, tree.WalkConditions{
		ShouldVisit: include,
	})
	_, _ = walker.Walk(p.tree.Root())
	return paths
}

// CutNodesDeeperThan removes the children of every node at the given depth, so no path deeper than maxDepth remains.
func (p *ParentOMatic) CutNodesDeeperThan(maxDepth int) {
	if maxDepth < 0 {
		maxDepth = 0
	}
	walker := tree.NewBreadthFirstWalkerWithConditions(p.tree, func(id tree.NodeID) error {
		p.tree.RemoveChildren(id)
		return nil
	}, tree.WalkConditions{
		ShouldVisit: func(id tree.NodeID) bool {
			return p.tree.Payload(id).Path.Depth() == maxDepth
		},
		ShouldContinueBranch: func(id tree.NodeID) bool {
			return p.tree.Payload(id).Path.Depth() < maxDepth
		},
	})
	_, _ = walker.Walk(p.tree.Root())
}

// Dump renders the tree, one node per line indented by depth, with marked nodes suffixed by "*".
func (p *ParentOMatic) Dump() string {
	var sb strings.Builder
	walker := tree.NewDepthFirstWalker(p.tree, func(id tree.NodeID) error {
		depth := p.tree.Depth(id)
		marker := ""
		if p.IsMarked(id) {
			marker = "*"
		}
		_, err := fmt.Fprintf(&sb, "%s%s%s\n", strings.Repeat("  ", depth), p.tree.Label(id), marker)
		return err
	})
	_, _ = walker.Walk(p.tree.Root())
	return sb.String()
}
