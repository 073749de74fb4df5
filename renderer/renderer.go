package renderer

import "image"

type Renderer interface {
	// Render frame. The returned image is owned by the renderer and is
	// overwritten by the next call to Render.
	Render() (image.Image, error)

	// Shutdown renderer and any attached tracer. Calling Close while a
	// frame is being rendered makes Render return ErrInterrupted.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
