package renderer

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/achilleasa/polaris/log"
	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/tracer"
	"github.com/google/uuid"
)

// A renderer that splits each frame into blocks and renders them on a pool
// of CPU tracers.
type defaultRenderer struct {
	logger log.Logger

	// Serializes calls to Render.
	sync.Mutex

	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer
	options   Options

	// The RGBA frame that the tracers write into.
	frame *image.RGBA

	// Block assignments for the last rendered frame.
	blockAssignments []uint32

	// The number of rendered frames.
	frameCount int64
	stats      FrameStats

	// Closed by Close to interrupt an in-progress render.
	interruptChan chan struct{}
	closeOnce     sync.Once
}

// Create a new renderer for the given scene. If world is nil, the renderer
// traces rays against the scene's object list. Otherwise world (typically a
// BVH built from the scene objects) is used for all intersection queries.
func NewDefault(sc *scene.Scene, world scene.Intersectable, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if world == nil {
		world = sc.World
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	sc.Camera.SetupProjection(float64(opts.FrameW) / float64(opts.FrameH))

	r := &defaultRenderer{
		logger:        log.New("renderer"),
		scheduler:     scheduler,
		options:       opts,
		frame:         image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		interruptChan: make(chan struct{}),
	}

	for i := 0; i < opts.NumTracers; i++ {
		tr := tracer.NewCPU(fmt.Sprintf("cpu-%d", i), 1)
		if err := tr.Setup(opts.FrameW, opts.FrameH, r.frame.Pix); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}

		tr.AppendChange(tracer.SetWorld, world)
		tr.AppendChange(tracer.UpdateCamera, sc.Camera)
		tr.AppendChange(tracer.SetBackground, sc.BgColor)
		if err := tr.ApplyPendingChanges(); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.logger.Infof("attached %d tracers; frame: %dx%d, spp: %d, bounces: %d", len(r.tracers), opts.FrameW, opts.FrameH, opts.SamplesPerPixel, opts.NumBounces)
	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.closeOnce.Do(func() {
		close(r.interruptChan)
		for _, tr := range r.tracers {
			tr.Close()
		}
	})
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}

// Render frame.
func (r *defaultRenderer) Render() (image.Image, error) {
	r.Lock()
	defer r.Unlock()

	select {
	case <-r.interruptChan:
		return nil, ErrInterrupted
	default:
	}

	start := time.Now()
	frameH := r.options.FrameH
	r.blockAssignments = r.scheduler.Schedule(r.tracers, frameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))
	seed := r.options.Seed + r.frameCount*int64(frameH)

	var blockY uint32
	var pending int
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			NumBounces:      r.options.NumBounces,
			Gamma:           r.options.Gamma,
			Seed:            seed,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all tracers to finish. On a block error the remaining blocks
	// are still waited for so that no tracer writes into the frame once
	// Render returns. Close waits for in-flight blocks itself.
	var completedRows uint32
	var blockErr error
	for ; pending > 0; pending-- {
		select {
		case rows := <-doneChan:
			completedRows += rows
		case err := <-errChan:
			if blockErr == nil {
				blockErr = err
			}
		case <-r.interruptChan:
			return nil, ErrInterrupted
		}
	}
	if blockErr != nil {
		return nil, blockErr
	}
	r.frameCount++

	r.updateStats(time.Since(start))
	instrumentFrame(r.stats)
	r.logger.Debugf("rendered %d rows in %d ms", completedRows, r.stats.RenderTime.Nanoseconds()/1e6)

	return r.frame, nil
}

// Collect tracer statistics for the last rendered frame.
func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats = FrameStats{
		ID:         uuid.New(),
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		stat := TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockH:       r.blockAssignments[idx],
			FramePercent: 100.0 * float32(r.blockAssignments[idx]) / float32(r.options.FrameH),
		}

		// Tracers without an assigned block keep the stats of an older frame.
		if stat.BlockH != 0 {
			trStats := tr.Stats()
			stat.RenderTime = time.Duration(trStats.BlockTime)
			stat.Rays = trStats.Rays
		}

		r.stats.Tracers[idx] = stat
		r.stats.Rays += stat.Rays
	}
}
