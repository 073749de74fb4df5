package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/achilleasa/polaris/types"
)

// The camera type controls the scene camera. After changing any of the
// exported fields Update must be called to recalculate the viewport.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical camera FOV in degrees.
	FOV float64

	// Lens aperture and distance to the plane of perfect focus. A zero
	// focus distance focuses on the LookAt point.
	Aperture  float64
	FocusDist float64

	// Shutter open and close times.
	Time0 float64
	Time1 float64

	aspect     float64
	origin     types.Vec3
	lowerLeft  types.Vec3
	horizontal types.Vec3
	vertical   types.Vec3
	u, v       types.Vec3
	lensRadius float64
}

func NewCamera(fov float64) *Camera {
	return &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		aspect:   1,
	}
}

// Setup camera viewport for the given aspect ratio.
func (c *Camera) SetupProjection(aspect float64) {
	c.aspect = aspect
	c.Update()
}

// Recalculate the viewport.
func (c *Camera) Update() {
	theta := c.FOV * math.Pi / 180.0
	viewportH := 2.0 * math.Tan(theta/2)
	viewportW := c.aspect * viewportH

	w := c.Position.Sub(c.LookAt).Normalize()
	c.u = c.Up.Cross(w).Normalize()
	c.v = w.Cross(c.u)

	focusDist := c.FocusDist
	if focusDist <= 0 {
		focusDist = c.Position.Sub(c.LookAt).Len()
	}

	c.origin = c.Position
	c.horizontal = c.u.Mul(focusDist * viewportW)
	c.vertical = c.v.Mul(focusDist * viewportH)
	c.lowerLeft = c.origin.
		Sub(c.horizontal.Mul(0.5)).
		Sub(c.vertical.Mul(0.5)).
		Sub(w.Mul(focusDist))
	c.lensRadius = c.Aperture / 2
}

// Generate a ray towards the viewport point (s, t) where both coordinates
// are in [0, 1] and (0, 0) is the bottom-left corner.
func (c *Camera) Ray(s, t float64, rng *rand.Rand) types.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := types.RandomInUnitDisk(rng).Mul(c.lensRadius)
		origin = origin.Add(c.u.Mul(rd[0])).Add(c.v.Mul(rd[1]))
	}

	time := c.Time0
	if c.Time1 > c.Time0 {
		time = types.RandomRange(rng, c.Time0, c.Time1)
	}

	target := c.lowerLeft.Add(c.horizontal.Mul(s)).Add(c.vertical.Mul(t))
	return types.Ray{
		Origin:    origin,
		Direction: target.Sub(origin),
		Time:      time,
	}
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"Camera: pos %s, lookAt %s, up %s, fov %3.1f, aperture %3.3f, focusDist %3.3f, shutter [%g, %g]",
		c.Position, c.LookAt, c.Up, c.FOV, c.Aperture, c.FocusDist, c.Time0, c.Time1,
	)
}
