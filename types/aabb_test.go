package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAABBHit(t *testing.T) {
	box := AABB{Min: XYZ(-1, -1, -1), Max: XYZ(1, 1, 1)}

	type spec struct {
		name   string
		ray    Ray
		tMin   float64
		tMax   float64
		expHit bool
	}
	specs := []spec{
		{"towards box", Ray{Origin: XYZ(0, 0, -5), Direction: XYZ(0, 0, 1)}, 0, math.Inf(1), true},
		{"away from box", Ray{Origin: XYZ(0, 0, -5), Direction: XYZ(0, 0, -1)}, 0, math.Inf(1), false},
		{"negative direction", Ray{Origin: XYZ(0, 0, 5), Direction: XYZ(0, 0, -1)}, 0, math.Inf(1), true},
		{"window ends before box", Ray{Origin: XYZ(0, 0, -5), Direction: XYZ(0, 0, 1)}, 0, 3.5, false},
		{"window starts after box", Ray{Origin: XYZ(0, 0, -5), Direction: XYZ(0, 0, 1)}, 6.5, 10, false},
		{"origin inside box", Ray{Origin: XYZ(0, 0, 0), Direction: XYZ(1, 1, 1)}, 0.001, math.Inf(1), true},
		{"diagonal miss", Ray{Origin: XYZ(-5, 3, 0), Direction: XYZ(1, 0.1, 0)}, 0, math.Inf(1), false},
		{"parallel inside slab", Ray{Origin: XYZ(0.5, -5, 0.5), Direction: XYZ(0, 1, 0)}, 0, math.Inf(1), true},
		{"parallel outside slab", Ray{Origin: XYZ(1.5, -5, 0.5), Direction: XYZ(0, 1, 0)}, 0, math.Inf(1), false},
		{"parallel on slab boundary", Ray{Origin: XYZ(1, -5, 1), Direction: XYZ(0, 1, 0)}, 0, math.Inf(1), true},
		{"parallel tiny component", Ray{Origin: XYZ(2, -5, 0), Direction: XYZ(1e-14, 1, 0)}, 0, math.Inf(1), false},
	}

	for _, s := range specs {
		t.Run(s.name, func(t *testing.T) {
			require.Equal(t, s.expHit, box.Hit(s.ray, s.tMin, s.tMax))
		})
	}
}

func TestAABBHitEmptyWindow(t *testing.T) {
	box := AABB{Min: XYZ(-1, -1, -1), Max: XYZ(1, 1, 1)}
	r := Ray{Origin: XYZ(0, 0, -5), Direction: XYZ(0, 0, 1)}

	require.False(t, box.Hit(r, 5, 5))
	require.False(t, box.Hit(r, 5, 4))
}

func TestSurroundingBox(t *testing.T) {
	a := AABB{Min: XYZ(0, 0, 0), Max: XYZ(1, 1, 1)}
	b := AABB{Min: XYZ(-2, 0.5, 0.5), Max: XYZ(0.5, 3, 0.7)}

	box := SurroundingBox(a, b)
	require.Equal(t, AABB{Min: XYZ(-2, 0, 0), Max: XYZ(1, 3, 1)}, box)
	require.True(t, box.Contains(a))
	require.True(t, box.Contains(b))
	require.True(t, box.Valid())
	require.Equal(t, SurroundingBox(b, a), box)
}

func TestAABBValid(t *testing.T) {
	type spec struct {
		box      AABB
		expValid bool
	}
	specs := []spec{
		{AABB{Min: XYZ(0, 0, 0), Max: XYZ(1, 1, 1)}, true},
		{AABB{Min: XYZ(1, 1, 1), Max: XYZ(1, 1, 1)}, true},
		{AABB{Min: XYZ(0, 2, 0), Max: XYZ(1, 1, 1)}, false},
		{AABB{Min: XYZ(0, math.NaN(), 0), Max: XYZ(1, 1, 1)}, false},
	}

	for index, s := range specs {
		if got := s.box.Valid(); got != s.expValid {
			t.Fatalf("[spec %d] expected Valid() for %s to be %t; got %t", index, s.box, s.expValid, got)
		}
	}
}

func TestAABBCenter(t *testing.T) {
	box := AABB{Min: XYZ(-1, 0, 2), Max: XYZ(1, 4, 4)}
	require.Equal(t, XYZ(0, 2, 3), box.Center())
}
