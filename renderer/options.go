package renderer

import (
	"runtime"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Max number of ray segments traced per sample.
	NumBounces uint32

	// Number of samples.
	SamplesPerPixel uint32

	// Gamma used for encoding the output.
	Gamma float64

	// Number of CPU tracers to attach. Each tracer runs on its own goroutine.
	NumTracers int

	// Seed for the per-frame random number generators.
	Seed int64
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:          640,
		FrameH:          360,
		NumBounces:      50,
		SamplesPerPixel: 32,
		Gamma:           2,
		NumTracers:      runtime.NumCPU(),
		Seed:            1,
	}
}

// Check that the options describe a frame that can be rendered.
func (o Options) Validate() error {
	newErr := func(msg string) error {
		return errors.New("renderer: "+msg).
			WithType(ErrTypeInvalidOptions).
			WithTag("frame_w", o.FrameW).
			WithTag("frame_h", o.FrameH).
			WithTag("spp", o.SamplesPerPixel).
			WithTag("bounces", o.NumBounces).
			WithTag("tracers", o.NumTracers)
	}

	switch {
	case o.FrameW == 0 || o.FrameH == 0:
		return newErr("frame dimensions must be positive")
	case o.SamplesPerPixel == 0:
		return newErr("samples per pixel must be positive")
	case o.NumBounces == 0:
		return newErr("number of bounces must be positive")
	case o.Gamma <= 0:
		return newErr("gamma must be positive")
	case o.NumTracers <= 0:
		return ErrNoTracers
	case uint32(o.NumTracers) > o.FrameH:
		return newErr("more tracers than frame rows")
	}
	return nil
}
