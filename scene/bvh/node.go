package bvh

import (
	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/types"
)

// An interior BVH node. Nodes are created by the builder and never modified
// afterwards so a tree can be queried concurrently.
//
// A node built from a single object references it as both children; the
// single flag lets traversal skip the duplicate test.
type Node struct {
	left   scene.Intersectable
	right  scene.Intersectable
	box    types.AABB
	single bool
}

// Get the left child.
func (n *Node) Left() scene.Intersectable {
	return n.left
}

// Get the right child.
func (n *Node) Right() scene.Intersectable {
	return n.right
}

// Get the cached node box.
func (n *Node) Box() types.AABB {
	return n.box
}

// Returns true if both children refer to the same object.
func (n *Node) Single() bool {
	return n.single
}

// Returns the box computed at build time. The time interval is ignored.
func (n *Node) BoundingBox(_, _ float64) (types.AABB, bool) {
	return n.box, true
}

// Find the closest intersection in this subtree for t in (tMin, tMax). The
// right child is queried with the window shrunk to the left hit so it only
// reports strictly closer hits.
func (n *Node) Hit(r types.Ray, tMin, tMax float64) (scene.HitRecord, bool) {
	if !n.box.Hit(r, tMin, tMax) {
		return scene.HitRecord{}, false
	}

	leftRec, hitLeft := n.left.Hit(r, tMin, tMax)
	if n.single {
		return leftRec, hitLeft
	}

	if hitLeft {
		tMax = leftRec.T
	}
	if rightRec, hitRight := n.right.Hit(r, tMin, tMax); hitRight {
		return rightRec, true
	}

	return leftRec, hitLeft
}
