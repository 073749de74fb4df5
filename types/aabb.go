package types

import (
	"fmt"
	"math"
)

// Directions with an absolute component below this threshold are treated as
// parallel to the slabs of that axis.
const parallelEpsilon = 1e-12

// An axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Test whether the ray overlaps the box for any t in (tMin, tMax).
//
// For each axis the ray's entry and exit distances for the axis slab are
// intersected with the running [tMin, tMax] window. The test fails as soon
// as the window becomes empty. If the ray runs parallel to an axis the slab
// test for it degenerates to checking the ray origin against the slab bounds.
func (b AABB) Hit(r Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if math.Abs(d) < parallelEpsilon {
			if o < b.Min[axis] || o > b.Max[axis] {
				return false
			}
			continue
		}

		invD := 1.0 / d
		t0 := (b.Min[axis] - o) * invD
		t1 := (b.Max[axis] - o) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}

	return true
}

// Returns true if min <= max on every axis and no bound is NaN.
func (b AABB) Valid() bool {
	for axis := 0; axis < 3; axis++ {
		if math.IsNaN(b.Min[axis]) || math.IsNaN(b.Max[axis]) || b.Min[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Returns true if b2 lies entirely inside b.
func (b AABB) Contains(b2 AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b2.Min[axis] < b.Min[axis] || b2.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Get the box center.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) String() string {
	return fmt.Sprintf("[%s - %s]", b.Min, b.Max)
}

// Get the smallest box enclosing both a and b.
func SurroundingBox(a, b AABB) AABB {
	return AABB{
		Min: MinVec3(a.Min, b.Min),
		Max: MaxVec3(a.Max, b.Max),
	}
}
