package scene

import (
	"math"

	"github.com/achilleasa/polaris/types"
)

// A static sphere.
type Sphere struct {
	Center   types.Vec3
	Radius   float64
	Material Material
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float64, material Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

func (s *Sphere) Hit(r types.Ray, tMin, tMax float64) (HitRecord, bool) {
	return hitSphere(r, s.Center, s.Radius, s.Material, tMin, tMax)
}

func (s *Sphere) BoundingBox(_, _ float64) (types.AABB, bool) {
	return sphereBox(s.Center, s.Radius), true
}

// Get the sphere material.
func (s *Sphere) SurfaceMaterial() Material {
	return s.Material
}

// A sphere whose center moves linearly from Center0 at Time0 to Center1 at
// Time1.
type MovingSphere struct {
	Center0, Center1 types.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         Material
}

// Create new moving sphere primitive.
func NewMovingSphere(center0, center1 types.Vec3, time0, time1, radius float64, material Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: material,
	}
}

// Get the sphere center at time t.
func (s *MovingSphere) Center(t float64) types.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	return s.Center0.Add(s.Center1.Sub(s.Center0).Mul((t - s.Time0) / (s.Time1 - s.Time0)))
}

func (s *MovingSphere) Hit(r types.Ray, tMin, tMax float64) (HitRecord, bool) {
	return hitSphere(r, s.Center(r.Time), s.Radius, s.Material, tMin, tMax)
}

func (s *MovingSphere) BoundingBox(time0, time1 float64) (types.AABB, bool) {
	return types.SurroundingBox(
		sphereBox(s.Center(time0), s.Radius),
		sphereBox(s.Center(time1), s.Radius),
	), true
}

// Get the sphere material.
func (s *MovingSphere) SurfaceMaterial() Material {
	return s.Material
}

func sphereBox(center types.Vec3, radius float64) types.AABB {
	r := math.Abs(radius)
	ext := types.XYZ(r, r, r)
	return types.AABB{Min: center.Sub(ext), Max: center.Add(ext)}
}

func hitSphere(r types.Ray, center types.Vec3, radius float64, material Material, tMin, tMax float64) (HitRecord, bool) {
	oc := r.Origin.Sub(center)
	a := r.Direction.LenSquared()
	if a == 0 {
		return HitRecord{}, false
	}
	halfB := oc.Dot(r.Direction)
	c := oc.LenSquared() - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtd := math.Sqrt(discriminant)

	// Find the nearest root that lies in the acceptable range.
	root := (-halfB - sqrtd) / a
	if root <= tMin || tMax <= root {
		root = (-halfB + sqrtd) / a
		if root <= tMin || tMax <= root {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{
		T:        root,
		P:        r.At(root),
		Material: material,
	}
	rec.SetFaceNormal(r, rec.P.Sub(center).Div(radius))
	return rec, true
}
