package renderer

import "github.com/aukilabs/go-tooling/pkg/errors"

// Error types reported by renderers.
const (
	ErrTypeNoTracers        = "renderer_no_tracers"
	ErrTypeSceneNotDefined  = "renderer_scene_not_defined"
	ErrTypeCameraNotDefined = "renderer_camera_not_defined"
	ErrTypeInterrupted      = "renderer_interrupted"
	ErrTypeInvalidOptions   = "renderer_invalid_options"
	ErrTypeOutput           = "renderer_output"
)

var (
	ErrNoTracers        = errors.New("renderer: no tracers attached").WithType(ErrTypeNoTracers)
	ErrSceneNotDefined  = errors.New("renderer: no scene defined").WithType(ErrTypeSceneNotDefined)
	ErrCameraNotDefined = errors.New("renderer: no camera defined").WithType(ErrTypeCameraNotDefined)
	ErrInterrupted      = errors.New("renderer: interrupted while rendering").WithType(ErrTypeInterrupted)
)
