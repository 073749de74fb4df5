package scene

import (
	"math"
	"math/rand"

	"github.com/achilleasa/polaris/types"
)

// A diffuse material.
type Lambertian struct {
	Albedo types.Vec3
}

func (m *Lambertian) Scatter(r types.Ray, rec *HitRecord, rng *rand.Rand) (types.Ray, types.Vec3, bool) {
	dir := rec.Normal.Add(types.RandomUnitVector(rng))

	// Catch degenerate scatter directions.
	if dir.NearZero() {
		dir = rec.Normal
	}

	return types.Ray{Origin: rec.P, Direction: dir, Time: r.Time}, m.Albedo, true
}

// A reflective material. Fuzz controls the blurriness of reflections and is
// clamped to [0, 1].
type Metal struct {
	Albedo types.Vec3
	Fuzz   float64
}

// Create a new metal material.
func NewMetal(albedo types.Vec3, fuzz float64) *Metal {
	return &Metal{
		Albedo: albedo,
		Fuzz:   math.Max(0, math.Min(fuzz, 1)),
	}
}

func (m *Metal) Scatter(r types.Ray, rec *HitRecord, rng *rand.Rand) (types.Ray, types.Vec3, bool) {
	reflected := r.Direction.Normalize().Reflect(rec.Normal)
	scattered := types.Ray{
		Origin:    rec.P,
		Direction: reflected.Add(types.RandomInUnitSphere(rng).Mul(m.Fuzz)),
		Time:      r.Time,
	}
	return scattered, m.Albedo, scattered.Direction.Dot(rec.Normal) > 0
}

// A clear refractive material with index of refraction IR.
type Dielectric struct {
	IR float64
}

func (m *Dielectric) Scatter(r types.Ray, rec *HitRecord, rng *rand.Rand) (types.Ray, types.Vec3, bool) {
	ratio := m.IR
	if rec.FrontFace {
		ratio = 1.0 / m.IR
	}

	unitDir := r.Direction.Normalize()
	cosTheta := math.Min(unitDir.Neg().Dot(rec.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var dir types.Vec3
	if ratio*sinTheta > 1.0 || reflectance(cosTheta, ratio) > rng.Float64() {
		dir = unitDir.Reflect(rec.Normal)
	} else {
		dir = unitDir.Refract(rec.Normal, ratio)
	}

	return types.Ray{Origin: rec.P, Direction: dir, Time: r.Time}, types.XYZ(1, 1, 1), true
}

// Schlick's approximation for reflectance.
func reflectance(cosine, refIdx float64) float64 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
