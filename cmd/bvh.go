package cmd

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/scene/bvh"
	"github.com/achilleasa/polaris/types"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Error type reported by the check command when traversal results differ.
const ErrTypeMismatch = "check_mismatch"

// Wraps a scene object and counts the intersection tests performed against it.
type countingObject struct {
	scene.Intersectable
	tests *atomic.Int64
}

func (o countingObject) Hit(r types.Ray, tMin, tMax float64) (scene.HitRecord, bool) {
	o.tests.Add(1)
	return o.Intersectable.Hit(r, tMin, tMax)
}

// Build the BVH for a scene several times and display tree shape statistics
// along with the number of object tests needed for a batch of camera rays.
func ShowBVHStats(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	if sc.Camera == nil {
		return errors.New("bvh-stats: scene does not define a camera")
	}
	sc.Camera.SetupProjection(1)

	var tests atomic.Int64
	wrapped := scene.NewList()
	for _, obj := range sc.World.Objects() {
		wrapped.Add(countingObject{Intersectable: obj, tests: &tests})
	}

	builds := ctx.Int("builds")
	numRays := ctx.Int("rays")
	seed := ctx.Int64("seed")
	if builds <= 0 || numRays <= 0 {
		return errors.New("bvh-stats: builds and rays must be positive")
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Build", "Nodes", "Leaves", "Single leaves", "Max depth", "Objects", "Tests/ray", "Build time"})

	for build := 0; build < builds; build++ {
		start := time.Now()
		root, err := bvh.New(wrapped, sc.Camera.Time0, sc.Camera.Time1, rand.New(rand.NewSource(seed+int64(build))))
		if err != nil {
			return err
		}
		buildTime := time.Since(start)

		tests.Store(0)
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < numRays; i++ {
			root.Hit(sc.Camera.Ray(rng.Float64(), rng.Float64(), rng), 0.001, math.Inf(1))
		}

		stats := bvh.Inspect(root)
		table.Append([]string{
			fmt.Sprintf("%d", build),
			fmt.Sprintf("%d", stats.Nodes),
			fmt.Sprintf("%d", stats.Leaves),
			fmt.Sprintf("%d", stats.SingleLeaves),
			fmt.Sprintf("%d", stats.MaxDepth),
			fmt.Sprintf("%d", stats.Objects),
			fmt.Sprintf("%.2f", float64(tests.Load())/float64(numRays)),
			buildTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "BRUTE FORCE", fmt.Sprintf("%d", wrapped.Len()), ""})

	table.Render()
	logger.Noticef("BVH statistics\n%s", buf.String())
	return nil
}

// Trace random rays against both the BVH and the flat object list of a scene
// and report any ray where the nearest hits disagree.
func CheckBVH(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	var time0, time1 float64
	if sc.Camera != nil {
		time0, time1 = sc.Camera.Time0, sc.Camera.Time1
	}

	seed := ctx.Int64("seed")
	root, err := bvh.New(sc.World, time0, time1, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	bounds, _ := sc.World.BoundingBox(time0, time1)
	numRays := ctx.Int("rays")
	if err := compareHits(sc.World, root, bounds, time0, time1, numRays, rand.New(rand.NewSource(seed))); err != nil {
		return err
	}

	logger.Noticef("checked %d rays against %d objects; BVH and object list agree", numRays, sc.World.Len())
	return nil
}

// Fire numRays random rays from points inside bounds and compare the nearest
// hits reported by candidate against the ones reported by reference.
func compareHits(reference, candidate scene.Intersectable, bounds types.AABB, time0, time1 float64, numRays int, rng *rand.Rand) error {
	var mismatches int
	for i := 0; i < numRays; i++ {
		r := types.Ray{
			Origin:    randomPointIn(bounds, rng),
			Direction: types.RandomUnitVector(rng),
			Time:      time0 + rng.Float64()*(time1-time0),
		}

		expRec, expHit := reference.Hit(r, 0.001, math.Inf(1))
		gotRec, gotHit := candidate.Hit(r, 0.001, math.Inf(1))
		if expHit != gotHit || (expHit && math.Abs(expRec.T-gotRec.T) > 1e-9) {
			mismatches++
			logger.Warningf("ray %d (origin: %s, dir: %s): expected hit %t at %f; got hit %t at %f", i, r.Origin, r.Direction, expHit, expRec.T, gotHit, gotRec.T)
		}
	}

	if mismatches != 0 {
		return errors.Newf("check: %d of %d rays disagree", mismatches, numRays).
			WithType(ErrTypeMismatch).
			WithTag("mismatches", mismatches)
	}
	return nil
}

func randomPointIn(box types.AABB, rng *rand.Rand) types.Vec3 {
	var p types.Vec3
	for axis := 0; axis < 3; axis++ {
		p[axis] = types.RandomRange(rng, box.Min[axis], box.Max[axis])
	}
	return p
}
