package scene

import (
	"math/rand"

	"github.com/achilleasa/polaris/types"
)

// The Intersectable interface is implemented by everything that can be
// placed in a scene: leaf primitives, primitive lists and BVH nodes.
type Intersectable interface {
	// Get the box enclosing the object for every instant in [time0, time1].
	// Returns false if the object cannot be bounded.
	BoundingBox(time0, time1 float64) (types.AABB, bool)

	// Find the closest intersection with r for t in (tMin, tMax).
	Hit(r types.Ray, tMin, tMax float64) (HitRecord, bool)
}

// The Material interface is implemented by all surface materials.
type Material interface {
	// Scatter an incoming ray at the hit point described by rec. Returns
	// false if the ray is absorbed.
	Scatter(r types.Ray, rec *HitRecord, rng *rand.Rand) (scattered types.Ray, attenuation types.Vec3, ok bool)
}

// Describes a ray-object intersection.
type HitRecord struct {
	// Intersection point and the surface normal there. The normal always
	// points against the incoming ray.
	P      types.Vec3
	Normal types.Vec3

	// Distance along the ray.
	T float64

	// True if the ray hit the outside of the surface.
	FrontFace bool

	Material Material
}

// Orient the record normal so that it points against the ray. The
// outwardNormal argument must have unit length.
func (rec *HitRecord) SetFaceNormal(r types.Ray, outwardNormal types.Vec3) {
	rec.FrontFace = r.Direction.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}
