package bvh

import "github.com/achilleasa/polaris/scene"

// Tree shape statistics.
type Stats struct {
	// Number of interior nodes.
	Nodes int

	// Number of leaf slots, counting both children of two-object nodes and
	// the shared child of single-object nodes once.
	Leaves int

	// Number of single-object nodes.
	SingleLeaves int

	// Depth of the deepest node; the root has depth 0.
	MaxDepth int

	// Number of distinct leaf objects. The builder places every object in
	// exactly one leaf slot.
	Objects int
}

// Walk the tree and collect shape statistics.
func Inspect(root *Node) Stats {
	var stats Stats
	inspect(root, 0, &stats)
	stats.Objects = stats.Leaves
	return stats
}

func inspect(n *Node, depth int, stats *Stats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	children := []scene.Intersectable{n.left, n.right}
	if n.single {
		stats.SingleLeaves++
		children = children[:1]
	}

	for _, child := range children {
		if sub, isNode := child.(*Node); isNode {
			inspect(sub, depth+1, stats)
			continue
		}
		stats.Leaves++
	}
}

// Get the leaf objects of the tree in left to right order. The shared child
// of single-object nodes is reported once.
func Leaves(root *Node) []scene.Intersectable {
	return appendLeaves(nil, root)
}

func appendLeaves(out []scene.Intersectable, n *Node) []scene.Intersectable {
	children := []scene.Intersectable{n.left, n.right}
	if n.single {
		children = children[:1]
	}

	for _, child := range children {
		if sub, isNode := child.(*Node); isNode {
			out = appendLeaves(out, sub)
			continue
		}
		out = append(out, child)
	}
	return out
}
