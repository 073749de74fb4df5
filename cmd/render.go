package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/achilleasa/polaris/renderer"
	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/scene/bvh"
	"github.com/achilleasa/polaris/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startMetricsServer(runCtx, ctx)

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		NumBounces:      uint32(ctx.Int("num-bounces")),
		Gamma:           ctx.Float64("gamma"),
		NumTracers:      ctx.Int("tracers"),
		Seed:            ctx.Int64("seed"),
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	// Load scene
	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	if sc.Camera == nil {
		return renderer.ErrCameraNotDefined
	}

	// Build the acceleration structure unless brute force traversal was requested
	var world scene.Intersectable
	if ctx.Bool("brute-force") {
		logger.Notice("tracing against the flat object list")
	} else {
		root, err := bvh.New(sc.World, sc.Camera.Time0, sc.Camera.Time1, rand.New(rand.NewSource(opts.Seed)))
		if err != nil {
			return err
		}
		world = root
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, world, tracer.NaiveScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Abort rendering on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Warning("received signal; aborting render")
			r.Close()
		case <-runCtx.Done():
		}
	}()

	logger.Notice("rendering frame")
	frame, err := r.Render()
	if err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	// Export PNG
	imgFile := ctx.String("out")
	start := time.Now()
	if err = renderer.SavePNG(frame, imgFile); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)

	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Primary", "Block height", "% of frame", "Rays", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%d", stats.Rays), stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame %s statistics\n%s", stats.ID, buf.String())
}
