package bvh

import (
	"math/rand"
	"reflect"
	"sort"
	"time"

	"github.com/achilleasa/polaris/log"
	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/types"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Error types reported by the builder.
const (
	ErrTypeEmptyRange  = "bvh_empty_range"
	ErrTypeUnboundable = "bvh_unboundable"
)

// An object queued for partitioning together with its box.
type buildItem struct {
	obj scene.Intersectable
	box types.AABB
}

type buildStats struct {
	totalItems  int
	nodes       int
	leafs       int
	singleLeafs int
	maxDepth    int
}

type builder struct {
	logger log.Logger

	// The generator used for picking split axes.
	rng *rand.Rand

	// Stats
	stats buildStats
}

// Build a BVH over objects[start:end] for rays emitted in [time0, time1].
//
// At each level the builder picks a random axis, orders the objects by the
// minimum corner of their boxes along it and splits the range in two equal
// halves. Ranges of one object produce a node that references the object as
// both of its children while ranges of two objects are split directly.
//
// The caller's slice is never reordered. A nil rng is replaced with a
// generator seeded from the clock.
func Build(objects []scene.Intersectable, start, end int, time0, time1 float64, rng *rand.Rand) (*Node, error) {
	if start < 0 || end > len(objects) || end <= start {
		err := errors.New("bvh: empty object range").
			WithType(ErrTypeEmptyRange).
			WithTag("start", start).
			WithTag("end", end).
			WithTag("objects", len(objects))
		instrumentBuildError(err)
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &builder{
		logger: log.New("bvhBuilder"),
		rng:    rng,
		stats: buildStats{
			totalItems: end - start,
		},
	}

	startTime := time.Now()
	workList := make([]buildItem, 0, end-start)
	for index := start; index < end; index++ {
		box, err := objectBox(objects[index], index, time0, time1)
		if err != nil {
			instrumentBuildError(err)
			return nil, err
		}
		workList = append(workList, buildItem{obj: objects[index], box: box})
	}

	root := b.partition(workList, 0)
	instrumentBuild(len(workList), startTime)
	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d (single: %d)\n",
		time.Since(startTime).Nanoseconds()/1e6,
		b.stats.totalItems, b.stats.maxDepth, b.stats.nodes, b.stats.leafs, b.stats.singleLeafs,
	)
	return root, nil
}

// Build a BVH over all list objects.
func New(list *scene.List, time0, time1 float64, rng *rand.Rand) (*Node, error) {
	return Build(list.Objects(), 0, list.Len(), time0, time1, rng)
}

// Partition the work list and return the subtree root. The work list is
// reordered in place.
func (b *builder) partition(workList []buildItem, depth int) *Node {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}
	b.stats.nodes++

	axis := b.rng.Intn(3)
	less := func(i, j int) bool {
		return workList[i].box.Min[axis] < workList[j].box.Min[axis]
	}

	node := &Node{}
	var leftBox, rightBox types.AABB
	switch len(workList) {
	case 1:
		node.left, node.right, node.single = workList[0].obj, workList[0].obj, true
		leftBox, rightBox = workList[0].box, workList[0].box
		b.stats.leafs++
		b.stats.singleLeafs++
	case 2:
		l, r := workList[0], workList[1]
		if !less(0, 1) {
			l, r = r, l
		}
		node.left, node.right = l.obj, r.obj
		leftBox, rightBox = l.box, r.box
		b.stats.leafs += 2
	default:
		sort.SliceStable(workList, less)
		mid := len(workList) / 2
		left := b.partition(workList[:mid], depth+1)
		right := b.partition(workList[mid:], depth+1)
		node.left, node.right = left, right
		leftBox, rightBox = left.box, right.box
	}

	node.box = types.SurroundingBox(leftBox, rightBox)
	return node
}

// Fetch the box for the object at the given index of the caller's slice.
func objectBox(obj scene.Intersectable, index int, time0, time1 float64) (types.AABB, error) {
	if isNil(obj) {
		return types.AABB{}, errors.New("bvh: nil object").
			WithType(ErrTypeUnboundable).
			WithTag("index", index)
	}

	box, ok := obj.BoundingBox(time0, time1)
	if !ok {
		return types.AABB{}, errors.New("bvh: no bounding box in node constructor").
			WithType(ErrTypeUnboundable).
			WithTag("index", index)
	}
	if !box.Valid() {
		return types.AABB{}, errors.New("bvh: invalid bounding box").
			WithType(ErrTypeUnboundable).
			WithTag("index", index).
			WithTag("box", box.String())
	}

	return box, nil
}

// Reports whether obj is nil or an interface wrapping a nil pointer.
func isNil(obj scene.Intersectable) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
