package tracer

type ChangeType uint8

const (
	// The payload is the scene.Intersectable that rays are traced against.
	SetWorld ChangeType = iota

	// The payload is a *scene.Camera.
	UpdateCamera

	// The payload is the types.Vec3 color at the top of the sky gradient.
	SetBackground
)

// Error types reported by tracers.
const (
	ErrTypeInvalidSetup  = "tracer_invalid_setup"
	ErrTypeInvalidChange = "tracer_invalid_change"
	ErrTypeNotReady      = "tracer_not_ready"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// The max number of ray segments traced per sample.
	NumBounces uint32

	// The gamma value used for encoding the traced colors.
	Gamma float64

	// A seed for the tracer's random number generators. Each frame row
	// derives its own generator from it so the output does not depend on
	// how the frame is split into blocks.
	Seed int64

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block (in nanoseconds)
	BlockTime int64

	// The number of ray segments traced for this block.
	Rays uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline (single core) implementation.
	SpeedEstimate() float32

	// Setup the tracer to write into an RGBA frame buffer.
	Setup(frameW, frameH uint32, frameBuffer []uint8) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer.
	AppendChange(ChangeType, interface{})

	// Apply all pending changes from the update buffer.
	ApplyPendingChanges() error

	// Retrieve last frame statistics.
	Stats() *Stats
}
