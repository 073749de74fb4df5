package bvh

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/types"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBuildContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	objects := randomSpheres(rng, 200)

	root, err := Build(objects, 0, len(objects), 0, 1, rng)
	require.NoError(t, err)

	var check func(n *Node)
	check = func(n *Node) {
		require.True(t, n.box.Valid())
		for _, child := range []scene.Intersectable{n.left, n.right} {
			box, ok := child.BoundingBox(0, 1)
			require.True(t, ok)
			require.True(t, n.box.Contains(box), "node box %s does not contain child box %s", n.box, box)
			if sub, isNode := child.(*Node); isNode {
				check(sub)
			}
		}
	}
	check(root)
}

func TestBuildPartitionCompleteness(t *testing.T) {
	for _, count := range []int{1, 2, 3, 4, 5, 7, 16, 33, 100} {
		rng := rand.New(rand.NewSource(int64(count)))
		objects := randomSpheres(rng, count)

		root, err := Build(objects, 0, len(objects), 0, 1, rng)
		require.NoError(t, err)

		seen := make(map[scene.Intersectable]int)
		for _, leaf := range Leaves(root) {
			seen[leaf]++
		}
		require.Len(t, seen, count)
		for _, obj := range objects {
			require.Equal(t, 1, seen[obj], "[count %d] expected each object to appear in exactly one leaf", count)
		}

		stats := Inspect(root)
		require.Equal(t, count, stats.Objects)
		require.Equal(t, count, stats.Leaves)
		require.LessOrEqual(t, stats.MaxDepth, bits.Len(uint(count)))
	}
}

func TestBuildSubRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	objects := randomSpheres(rng, 10)

	root, err := Build(objects, 2, 7, 0, 1, rng)
	require.NoError(t, err)

	leaves := Leaves(root)
	require.Len(t, leaves, 5)
	require.ElementsMatch(t, objects[2:7], leaves)
}

func TestBuildSingleObject(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	objects := randomSpheres(rng, 4)

	root, err := Build(objects, 3, 4, 0, 1, rng)
	require.NoError(t, err)
	require.True(t, root.Single())
	require.Same(t, objects[3], root.Left())
	require.Same(t, objects[3], root.Right())

	expBox, _ := objects[3].BoundingBox(0, 1)
	require.Equal(t, expBox, root.Box())

	stats := Inspect(root)
	require.Equal(t, Stats{Nodes: 1, Leaves: 1, SingleLeaves: 1, MaxDepth: 0, Objects: 1}, stats)
}

func TestBuildTwoObjects(t *testing.T) {
	// The lower sphere is smaller along every axis so it must end up on the
	// left regardless of the selected axis.
	lower := scene.NewSphere(types.XYZ(-5, -5, -5), 1, &scene.Lambertian{})
	upper := scene.NewSphere(types.XYZ(5, 5, 5), 1, &scene.Lambertian{})
	objects := []scene.Intersectable{upper, lower}

	for seed := int64(0); seed < 10; seed++ {
		root, err := Build(objects, 0, 2, 0, 1, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.False(t, root.Single())
		require.Same(t, lower, root.Left())
		require.Same(t, upper, root.Right())
		require.Equal(t, types.AABB{Min: types.XYZ(-6, -6, -6), Max: types.XYZ(6, 6, 6)}, root.Box())
	}
}

func TestBuildTwoObjectsFollowsSplitAxis(t *testing.T) {
	// a is lower on x, b is lower on y and z.
	a := scene.NewSphere(types.XYZ(-5, 5, 5), 1, &scene.Lambertian{})
	b := scene.NewSphere(types.XYZ(5, -5, -5), 1, &scene.Lambertian{})
	objects := []scene.Intersectable{a, b}

	var aLeft, bLeft int
	for seed := int64(0); seed < 60; seed++ {
		root, err := Build(objects, 0, 2, 0, 1, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		axis := rand.New(rand.NewSource(seed)).Intn(3)
		leftBox, _ := root.Left().BoundingBox(0, 1)
		rightBox, _ := root.Right().BoundingBox(0, 1)
		require.LessOrEqual(t, leftBox.Min[axis], rightBox.Min[axis], "[seed %d] children not ordered along axis %d", seed, axis)

		if axis == 0 {
			require.Same(t, a, root.Left())
			aLeft++
		} else {
			require.Same(t, b, root.Left())
			bLeft++
		}
	}
	require.NotZero(t, aLeft)
	require.NotZero(t, bLeft)
}

type sliceObject struct {
	tags []int
	box  types.AABB
}

func (o sliceObject) BoundingBox(_, _ float64) (types.AABB, bool) {
	return o.box, true
}

func (o sliceObject) Hit(_ types.Ray, _, _ float64) (scene.HitRecord, bool) {
	return scene.HitRecord{}, false
}

func TestInspectUncomparableLeaves(t *testing.T) {
	objects := []scene.Intersectable{
		sliceObject{tags: []int{1}, box: types.AABB{Min: types.XYZ(0, 0, 0), Max: types.XYZ(1, 1, 1)}},
		sliceObject{tags: []int{2}, box: types.AABB{Min: types.XYZ(2, 0, 0), Max: types.XYZ(3, 1, 1)}},
		sliceObject{tags: []int{3}, box: types.AABB{Min: types.XYZ(4, 0, 0), Max: types.XYZ(5, 1, 1)}},
	}

	root, err := Build(objects, 0, len(objects), 0, 1, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	stats := Inspect(root)
	require.Equal(t, 3, stats.Objects)
	require.Equal(t, 3, stats.Leaves)
	require.Len(t, Leaves(root), 3)
}

func TestBuildShape(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	objects := randomSpheres(rng, 5)

	root, err := Build(objects, 0, len(objects), 0, 1, rng)
	require.NoError(t, err)

	// 5 -> (2, 3 -> (1, 2))
	require.Equal(t, Stats{Nodes: 5, Leaves: 5, SingleLeaves: 1, MaxDepth: 2, Objects: 5}, Inspect(root))

	left, ok := root.Left().(*Node)
	require.True(t, ok)
	require.False(t, left.Single())
	right, ok := root.Right().(*Node)
	require.True(t, ok)
	rightLeft, ok := right.Left().(*Node)
	require.True(t, ok)
	require.True(t, rightLeft.Single())
}

func TestBuildDoesNotReorderInput(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	objects := randomSpheres(rng, 64)
	orig := append([]scene.Intersectable(nil), objects...)

	_, err := Build(objects, 0, len(objects), 0, 1, rng)
	require.NoError(t, err)
	require.Equal(t, orig, objects)

	list := scene.NewList(objects...)
	_, err = New(list, 0, 1, rng)
	require.NoError(t, err)
	require.Equal(t, orig, list.Objects())
}

func TestBuildErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	objects := randomSpheres(rng, 4)

	type spec struct {
		name       string
		objects    []scene.Intersectable
		start, end int
		expType    string
	}
	specs := []spec{
		{"empty range", objects, 2, 2, ErrTypeEmptyRange},
		{"inverted range", objects, 3, 1, ErrTypeEmptyRange},
		{"negative start", objects, -1, 2, ErrTypeEmptyRange},
		{"end past slice", objects, 0, 5, ErrTypeEmptyRange},
		{"no objects", nil, 0, 0, ErrTypeEmptyRange},
		{"unboundable object", append(append([]scene.Intersectable{}, objects...), scene.NewList()), 0, 5, ErrTypeUnboundable},
		{"nil object", []scene.Intersectable{objects[0], nil}, 0, 2, ErrTypeUnboundable},
		{"typed nil object", []scene.Intersectable{objects[0], (*scene.Sphere)(nil)}, 0, 2, ErrTypeUnboundable},
		{"invalid box", []scene.Intersectable{objects[0], badBox{}}, 0, 2, ErrTypeUnboundable},
	}

	for _, s := range specs {
		t.Run(s.name, func(t *testing.T) {
			root, err := Build(s.objects, s.start, s.end, 0, 1, rng)
			require.Error(t, err)
			require.Nil(t, root)
			require.True(t, errors.IsType(err, s.expType), "expected error type %q; got %q", s.expType, errors.Type(err))
		})
	}

	_, err := New(scene.NewList(), 0, 1, rng)
	require.True(t, errors.IsType(err, ErrTypeEmptyRange))
}

func TestBuildWithNilRng(t *testing.T) {
	objects := randomSpheres(rand.New(rand.NewSource(17)), 32)

	root, err := Build(objects, 0, len(objects), 0, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 32, Inspect(root).Objects)
}

func TestBuildIsReproducible(t *testing.T) {
	objects := randomSpheres(rand.New(rand.NewSource(19)), 50)

	root1, err := Build(objects, 0, len(objects), 0, 1, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	root2, err := Build(objects, 0, len(objects), 0, 1, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	require.Equal(t, Leaves(root1), Leaves(root2))
}

func TestBuildMovingObjects(t *testing.T) {
	mat := &scene.Lambertian{}
	objects := []scene.Intersectable{
		scene.NewMovingSphere(types.XYZ(0, 0, 0), types.XYZ(0, 10, 0), 0, 1, 1, mat),
		scene.NewSphere(types.XYZ(5, 0, 0), 1, mat),
	}

	root, err := Build(objects, 0, len(objects), 0, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, types.AABB{Min: types.XYZ(-1, -1, -1), Max: types.XYZ(6, 11, 1)}, root.Box())

	// Restricting the time interval shrinks the box.
	root, err = Build(objects, 0, len(objects), 0, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, types.AABB{Min: types.XYZ(-1, -1, -1), Max: types.XYZ(6, 1, 1)}, root.Box())
}

// Generate count non-overlapping spheres, each with its own material so
// hits can be traced back to the sphere that produced them.
func randomSpheres(rng *rand.Rand, count int) []scene.Intersectable {
	const cell = 2.0
	side := 1
	for side*side*side < count {
		side++
	}

	cells := rng.Perm(side * side * side)[:count]
	out := make([]scene.Intersectable, 0, count)
	for _, c := range cells {
		x, y, z := c%side, (c/side)%side, c/(side*side)
		radius := types.RandomRange(rng, 0.1, 0.45) * cell
		jitter := cell/2 - radius
		center := types.XYZ(
			float64(x)*cell+cell/2+types.RandomRange(rng, -jitter, jitter),
			float64(y)*cell+cell/2+types.RandomRange(rng, -jitter, jitter),
			float64(z)*cell+cell/2+types.RandomRange(rng, -jitter, jitter),
		)
		out = append(out, scene.NewSphere(center, radius, &scene.Lambertian{Albedo: types.RandomVec3(rng, 0, 1)}))
	}

	return out
}

type badBox struct{}

func (badBox) BoundingBox(_, _ float64) (types.AABB, bool) {
	return types.AABB{Min: types.XYZ(1, 1, 1), Max: types.XYZ(0, 0, 0)}, true
}

func (badBox) Hit(_ types.Ray, _, _ float64) (scene.HitRecord, bool) {
	return scene.HitRecord{}, false
}
