package renderer

import (
	"time"

	"github.com/google/uuid"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// True if this is the primary tracer
	IsPrimary bool

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Number of traced ray segments.
	Rays uint64
}

type FrameStats struct {
	// A unique id for the rendered frame.
	ID uuid.UUID

	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration

	// Total number of traced ray segments.
	Rays uint64
}
