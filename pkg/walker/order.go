package walker

import (
	"fmt"
	"strings"
)

// Order is the traversal order of a walk.
type Order int

const (
	// DepthFirst descends into a child collection as soon as it is listed.
	DepthFirst Order = iota
	// BreadthFirst visits every child at the current level before descending into any child collection.
	BreadthFirst
)

func (o Order) String() string {
	switch o {
	case DepthFirst:
		return "depth-first"
	case BreadthFirst:
		return "breadth-first"
	}
	return fmt.Sprintf("unknown-order(%d)", int(o))
}

// ParseOrder accepts "depth-first" or "breadth-first" (case-insensitive, "_" and "-" interchangeable).
func ParseOrder(s string) (Order, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "depth-first", "dfs":
		return DepthFirst, nil
	case "breadth-first", "bfs":
		return BreadthFirst, nil
	}
	return DepthFirst, fmt.Errorf("unknown walk order: %q", s)
}
