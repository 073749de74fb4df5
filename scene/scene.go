package scene

import (
	"github.com/achilleasa/polaris/types"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// The error type for scenes that cannot be assembled.
const ErrTypeInvalidScene = "scene_invalid"

// The Surface interface is implemented by primitives that carry a material.
type Surface interface {
	SurfaceMaterial() Material
}

type Scene struct {
	Camera *Camera

	// Named scene materials.
	Materials map[string]Material

	// The scene objects in the order they were added.
	World *List

	// The color at the top of the sky gradient.
	BgColor types.Vec3
}

func NewScene() *Scene {
	return &Scene{
		Materials: make(map[string]Material),
		World:     NewList(),
		BgColor:   types.XYZ(0.5, 0.7, 1.0),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a named material to the scene.
func (s *Scene) AddMaterial(name string, material Material) error {
	if material == nil {
		return errors.New("scene: nil material").
			WithType(ErrTypeInvalidScene).
			WithTag("material", name)
	}
	if _, exists := s.Materials[name]; exists {
		return errors.New("scene: material already added").
			WithType(ErrTypeInvalidScene).
			WithTag("material", name)
	}
	s.Materials[name] = material
	return nil
}

// Add a primitive to the scene. Primitives with a surface must reference a
// material that has already been added to the scene.
func (s *Scene) AddPrimitive(primitive Intersectable) error {
	if primitive == nil {
		return errors.New("scene: nil primitive").WithType(ErrTypeInvalidScene)
	}

	if surface, ok := primitive.(Surface); ok {
		material := surface.SurfaceMaterial()
		if material == nil {
			return errors.New("scene: no material assigned to primitive").
				WithType(ErrTypeInvalidScene).
				WithTag("index", s.World.Len())
		}
		if !s.hasMaterial(material) {
			return errors.New("scene: primitive references unknown material; ensure that the material is added to the scene before adding the primitive").
				WithType(ErrTypeInvalidScene).
				WithTag("index", s.World.Len())
		}
	}

	s.World.Add(primitive)
	return nil
}

func (s *Scene) hasMaterial(material Material) bool {
	for _, mat := range s.Materials {
		if mat == material {
			return true
		}
	}
	return false
}
