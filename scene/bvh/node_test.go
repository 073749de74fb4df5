package bvh

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/types"
	"github.com/stretchr/testify/require"
)

func TestHitMatchesBruteForce(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		objects := randomSpheres(rng, 1+rng.Intn(150))
		list := scene.NewList(objects...)

		root, err := New(list, 0, 1, rng)
		require.NoError(t, err)

		world, _ := list.BoundingBox(0, 1)
		for i := 0; i < 200; i++ {
			r := randomRay(rng, world)
			tMax := math.Inf(1)
			if i%4 == 0 {
				tMax = types.RandomRange(rng, 1, 20)
			}

			expRec, expHit := list.Hit(r, 0.001, tMax)
			rec, hit := root.Hit(r, 0.001, tMax)
			require.Equal(t, expHit, hit, "[seed %d, ray %d] hit mismatch", seed, i)
			if !hit {
				continue
			}
			require.Equal(t, expRec.T, rec.T, "[seed %d, ray %d] distance mismatch", seed, i)
			require.Same(t, expRec.Material, rec.Material, "[seed %d, ray %d] expected the same primitive", seed, i)
		}
	}
}

func TestHitReturnsNearest(t *testing.T) {
	// A row of spheres along -z; every ray down the row must hit the first one.
	mats := make([]*scene.Lambertian, 8)
	objects := make([]scene.Intersectable, 0, len(mats))
	for i := range mats {
		mats[i] = &scene.Lambertian{Albedo: types.XYZ(float64(i), 0, 0)}
		objects = append(objects, scene.NewSphere(types.XYZ(0, 0, -3*float64(i+1)), 1, mats[i]))
	}

	for seed := int64(0); seed < 20; seed++ {
		root, err := Build(objects, 0, len(objects), 0, 1, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		rec, hit := root.Hit(types.Ray{Direction: types.XYZ(0, 0, -1)}, 0.001, math.Inf(1))
		require.True(t, hit)
		require.InDelta(t, 2.0, rec.T, 1e-9)
		require.Same(t, mats[0], rec.Material)

		// Starting past the first sphere reports the second one.
		rec, hit = root.Hit(types.Ray{Direction: types.XYZ(0, 0, -1)}, 4.5, math.Inf(1))
		require.True(t, hit)
		require.InDelta(t, 5.0, rec.T, 1e-9)
		require.Same(t, mats[1], rec.Material)

		// Reverse direction from the far end.
		rec, hit = root.Hit(types.Ray{Origin: types.XYZ(0, 0, -30), Direction: types.XYZ(0, 0, 1)}, 0.001, math.Inf(1))
		require.True(t, hit)
		require.InDelta(t, 5.0, rec.T, 1e-9)
		require.Same(t, mats[7], rec.Material)
	}
}

func TestHitPrunesMissedSubtrees(t *testing.T) {
	objects := make([]scene.Intersectable, 0, 16)
	probes := make([]*countingObject, 0, 16)
	for i := 0; i < 16; i++ {
		min := types.XYZ(float64(i), 0, 0)
		probe := &countingObject{box: types.AABB{Min: min, Max: min.Add(types.XYZ(0.5, 0.5, 0.5))}}
		probes = append(probes, probe)
		objects = append(objects, probe)
	}

	root, err := Build(objects, 0, len(objects), 0, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Passes well above every box.
	_, hit := root.Hit(types.Ray{Origin: types.XYZ(-1, 5, 0.25), Direction: types.XYZ(1, 0, 0)}, 0.001, math.Inf(1))
	require.False(t, hit)
	for _, probe := range probes {
		require.Zero(t, probe.calls.Load())
	}

	// Passes through the box of a single object. Its sibling in the tree may
	// also be tested but nothing further away.
	_, hit = root.Hit(types.Ray{Origin: types.XYZ(3.25, 5, 0.25), Direction: types.XYZ(0, -1, 0)}, 0.001, math.Inf(1))
	require.False(t, hit)
	for i, probe := range probes {
		switch {
		case i == 3:
			require.Equal(t, int64(1), probe.calls.Load())
		case i < 2 || i > 4:
			require.Zero(t, probe.calls.Load(), "expected object %d to be pruned", i)
		}
	}
}

func TestHitSingleObjectNodeTestsOnce(t *testing.T) {
	probe := &countingObject{box: types.AABB{Min: types.XYZ(-1, -1, -1), Max: types.XYZ(1, 1, 1)}}

	root, err := Build([]scene.Intersectable{probe}, 0, 1, 0, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, hit := root.Hit(types.Ray{Origin: types.XYZ(0, 0, 5), Direction: types.XYZ(0, 0, -1)}, 0.001, math.Inf(1))
	require.False(t, hit)
	require.Equal(t, int64(1), probe.calls.Load())
}

func TestNodeBoundingBox(t *testing.T) {
	objects := randomSpheres(rand.New(rand.NewSource(2)), 20)
	root, err := Build(objects, 0, len(objects), 0, 1, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	expBox, ok := scene.NewList(objects...).BoundingBox(0, 1)
	require.True(t, ok)

	box, ok := root.BoundingBox(100, 200)
	require.True(t, ok)
	require.Equal(t, expBox, box)
}

func TestConcurrentHits(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	objects := randomSpheres(rng, 300)
	list := scene.NewList(objects...)
	root, err := New(list, 0, 1, rng)
	require.NoError(t, err)
	world, _ := list.BoundingBox(0, 1)

	var (
		wg         sync.WaitGroup
		mismatches atomic.Int64
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 500; i++ {
				r := randomRay(rng, world)
				expRec, expHit := list.Hit(r, 0.001, math.Inf(1))
				rec, hit := root.Hit(r, 0.001, math.Inf(1))
				if hit != expHit || rec.T != expRec.T {
					mismatches.Add(1)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	require.Zero(t, mismatches.Load())
}

// Generate a ray that starts somewhere around the world box and points at a
// random location inside it.
func randomRay(rng *rand.Rand, world types.AABB) types.Ray {
	size := world.Max.Sub(world.Min)
	pick := func(margin float64) types.Vec3 {
		return types.XYZ(
			types.RandomRange(rng, world.Min[0]-margin*size[0], world.Max[0]+margin*size[0]),
			types.RandomRange(rng, world.Min[1]-margin*size[1], world.Max[1]+margin*size[1]),
			types.RandomRange(rng, world.Min[2]-margin*size[2], world.Max[2]+margin*size[2]),
		)
	}

	origin := pick(0.5)
	return types.Ray{Origin: origin, Direction: pick(0).Sub(origin)}
}

// A boxed object that never reports a hit but counts how many times it was
// tested.
type countingObject struct {
	box   types.AABB
	calls atomic.Int64
}

func (o *countingObject) BoundingBox(_, _ float64) (types.AABB, bool) {
	return o.box, true
}

func (o *countingObject) Hit(_ types.Ray, _, _ float64) (scene.HitRecord, bool) {
	o.calls.Add(1)
	return scene.HitRecord{}, false
}
