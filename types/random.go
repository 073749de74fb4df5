package types

import "math/rand"

// Get a random number in [min, max).
func RandomRange(rng *rand.Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// Get a vector with each component drawn uniformly from [min, max).
func RandomVec3(rng *rand.Rand, min, max float64) Vec3 {
	return Vec3{
		RandomRange(rng, min, max),
		RandomRange(rng, min, max),
		RandomRange(rng, min, max),
	}
}

// Get a random point inside the unit sphere using rejection sampling.
func RandomInUnitSphere(rng *rand.Rand) Vec3 {
	for {
		p := RandomVec3(rng, -1, 1)
		if p.LenSquared() < 1 {
			return p
		}
	}
}

// Get a random unit length vector.
func RandomUnitVector(rng *rand.Rand) Vec3 {
	return RandomInUnitSphere(rng).Normalize()
}

// Get a random point inside the unit sphere that lies in the same hemisphere
// as normal.
func RandomInHemisphere(rng *rand.Rand, normal Vec3) Vec3 {
	p := RandomInUnitSphere(rng)
	if p.Dot(normal) > 0 {
		return p
	}
	return p.Neg()
}

// Get a random point inside the unit disk on the z = 0 plane.
func RandomInUnitDisk(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{RandomRange(rng, -1, 1), RandomRange(rng, -1, 1), 0}
		if p.LenSquared() < 1 {
			return p
		}
	}
}
