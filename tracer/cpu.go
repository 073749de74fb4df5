package tracer

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/achilleasa/polaris/log"
	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/types"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Rays are spawned this far away from the surface they leave to avoid
// re-intersecting it due to rounding.
const minHitDistance = 0.001

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Speed estimate relative to a single core.
	speed float32

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[ChangeType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *Stats

	// Frame dims and the RGBA frame buffer shared with the renderer.
	frameW      uint32
	frameH      uint32
	frameBuffer []uint8

	// The applied scene state.
	world   scene.Intersectable
	camera  *scene.Camera
	bgColor types.Vec3
}

// Create a new tracer that renders blocks on a dedicated goroutine. The speed
// argument is used as the tracer's speed estimate by block schedulers.
func NewCPU(id string, speed float32) Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        speed,
		updateBuffer: make(map[ChangeType]interface{}),
		blockReqChan: make(chan BlockRequest, 1),
		stats:        &Stats{},
		bgColor:      types.XYZ(0.5, 0.7, 1.0),
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return tr.speed
}

// Attach the frame buffer and start the worker.
func (tr *cpuTracer) Setup(frameW, frameH uint32, frameBuffer []uint8) error {
	if frameW == 0 || frameH == 0 {
		return errors.New("tracer: invalid frame dimensions").
			WithType(ErrTypeInvalidSetup).
			WithTag("frame_w", frameW).
			WithTag("frame_h", frameH)
	}
	if uint64(len(frameBuffer)) != uint64(frameW)*uint64(frameH)*4 {
		return errors.New("tracer: frame buffer size does not match frame dimensions").
			WithType(ErrTypeInvalidSetup).
			WithTag("expected", uint64(frameW)*uint64(frameH)*4).
			WithTag("got", len(frameBuffer))
	}

	tr.Lock()
	tr.frameW, tr.frameH, tr.frameBuffer = frameW, frameH, frameBuffer
	tr.Unlock()

	tr.startWorker()
	return nil
}

// Shutdown the worker.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	// If the worker is running shut it down
	if closeChan != nil {
		closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-closeChan
		close(closeChan)
	}
	tr.wg.Wait()
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.Lock()
	running := tr.closeChan != nil
	tr.Unlock()

	if !running {
		blockReq.ErrChan <- errors.New("tracer: worker not running; Setup must be called first").
			WithType(ErrTypeNotReady).
			WithTag("tracer", tr.id)
		return
	}
	tr.blockReqChan <- blockReq
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) AppendChange(changeType ChangeType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()
	tr.updateBuffer[changeType] = data
}

// Apply all pending changes from the update buffer.
func (tr *cpuTracer) ApplyPendingChanges() error {
	tr.Lock()
	defer tr.Unlock()
	return tr.commitUpdates()
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Commit queued changes. This method is meant to be called while holding tr.Lock()
func (tr *cpuTracer) commitUpdates() error {
	for changeType, data := range tr.updateBuffer {
		var ok bool
		switch changeType {
		case SetWorld:
			var world scene.Intersectable
			if world, ok = data.(scene.Intersectable); ok && world != nil {
				tr.world = world
			}
			ok = ok && world != nil
		case UpdateCamera:
			var cam *scene.Camera
			if cam, ok = data.(*scene.Camera); ok && cam != nil {
				tr.camera = cam
			}
			ok = ok && cam != nil
		case SetBackground:
			var bg types.Vec3
			if bg, ok = data.(types.Vec3); ok {
				tr.bgColor = bg
			}
		}

		if !ok {
			return errors.Newf("tracer: invalid payload %T for change type %d", data, changeType).
				WithType(ErrTypeInvalidChange).
				WithTag("tracer", tr.id)
		}
	}

	tr.updateBuffer = make(map[ChangeType]interface{})
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	tr.Lock()
	defer tr.Unlock()

	// Worker already running
	if tr.closeChan != nil {
		return
	}
	tr.closeChan = make(chan struct{})
	closeChan := tr.closeChan

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq BlockRequest
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime := time.Now()

				// Apply any pending changes
				tr.Lock()
				err := tr.commitUpdates()
				world, cam, bg := tr.world, tr.camera, tr.bgColor
				tr.Unlock()
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Render block and reply with our completion status
				rays, err := tr.renderBlock(&blockReq, world, cam, bg)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.BlockTime = time.Since(startTime).Nanoseconds()
				tr.stats.Rays = rays
				tr.logger.Debugf(
					"rendered rows [%d, %d) in %d ms, rays: %d",
					blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.BlockTime/1e6, rays,
				)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render the requested rows into the frame buffer and return the number of
// traced ray segments.
func (tr *cpuTracer) renderBlock(blockReq *BlockRequest, world scene.Intersectable, cam *scene.Camera, bg types.Vec3) (uint64, error) {
	if world == nil || cam == nil {
		return 0, errors.New("tracer: no scene data").
			WithType(ErrTypeNotReady).
			WithTag("tracer", tr.id)
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH || blockReq.SamplesPerPixel == 0 {
		return 0, errors.New("tracer: invalid block request").
			WithType(ErrTypeInvalidSetup).
			WithTag("tracer", tr.id).
			WithTag("block_y", blockReq.BlockY).
			WithTag("block_h", blockReq.BlockH).
			WithTag("spp", blockReq.SamplesPerPixel)
	}

	gamma := blockReq.Gamma
	if gamma <= 0 {
		gamma = 2
	}
	invGamma := 1.0 / gamma
	scale := 1.0 / float64(blockReq.SamplesPerPixel)

	var rays uint64
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		rng := rand.New(rand.NewSource(blockReq.Seed + int64(y)))
		offset := y * tr.frameW * 4
		for x := uint32(0); x < tr.frameW; x++ {
			var color types.Vec3
			for s := uint32(0); s < blockReq.SamplesPerPixel; s++ {
				u := (float64(x) + rng.Float64()) / float64(tr.frameW)
				v := (float64(tr.frameH-1-y) + rng.Float64()) / float64(tr.frameH)
				sample, segments := trace(world, bg, cam.Ray(u, v, rng), blockReq.NumBounces, rng)
				color = color.Add(sample)
				rays += segments
			}

			px := tr.frameBuffer[offset+x*4 : offset+x*4+4]
			px[0] = encodeChannel(color[0]*scale, invGamma)
			px[1] = encodeChannel(color[1]*scale, invGamma)
			px[2] = encodeChannel(color[2]*scale, invGamma)
			px[3] = 255
		}
	}

	return rays, nil
}

// Trace a path through world for up to maxSegments ray segments and return
// the collected radiance along with the number of traced segments.
func trace(world scene.Intersectable, bg types.Vec3, r types.Ray, maxSegments uint32, rng *rand.Rand) (types.Vec3, uint64) {
	throughput := types.XYZ(1, 1, 1)
	var segments uint64
	for ; segments < uint64(maxSegments); segments++ {
		rec, hit := world.Hit(r, minHitDistance, math.Inf(1))
		if !hit {
			unitDir := r.Direction.Normalize()
			t := 0.5 * (unitDir[1] + 1.0)
			sky := types.XYZ(1, 1, 1).Mul(1.0 - t).Add(bg.Mul(t))
			return throughput.MulVec(sky), segments + 1
		}

		// Objects without a material are shaded by their normal.
		if rec.Material == nil {
			return throughput.MulVec(rec.Normal.Add(types.XYZ(1, 1, 1)).Mul(0.5)), segments + 1
		}

		scattered, attenuation, ok := rec.Material.Scatter(r, &rec, rng)
		if !ok {
			return types.Vec3{}, segments + 1
		}
		throughput = throughput.MulVec(attenuation)
		r = scattered
	}

	return types.Vec3{}, segments
}

// Gamma-encode a linear channel value and quantize it to 8 bits.
func encodeChannel(v, invGamma float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	v = math.Pow(v, invGamma)
	return uint8(256 * math.Max(0, math.Min(v, 0.999)))
}
