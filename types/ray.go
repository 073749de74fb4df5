package types

// A ray with an origin, a direction and the time it was emitted at. The
// direction does not need to be normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Time      float64
}

// Get the point along the ray at distance t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
