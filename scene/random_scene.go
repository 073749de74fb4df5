package scene

import (
	"fmt"
	"math/rand"

	"github.com/achilleasa/polaris/types"
)

// Generate the "many small spheres" demo scene: a large ground sphere, a
// grid of small randomly placed spheres with random materials (diffuse ones
// bounce during the shutter interval) and three large feature spheres.
func RandomScene(rng *rand.Rand) *Scene {
	sc := NewScene()
	mustAdd := func(name string, mat Material, prim Intersectable) {
		if err := sc.AddMaterial(name, mat); err != nil {
			panic(err)
		}
		if err := sc.AddPrimitive(prim); err != nil {
			panic(err)
		}
	}

	ground := &Lambertian{Albedo: types.XYZ(0.5, 0.5, 0.5)}
	mustAdd("ground", ground, NewSphere(types.XYZ(0, -1000, 0), 1000, ground))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Float64()
			center := types.XYZ(float64(a)+0.9*rng.Float64(), 0.2, float64(b)+0.9*rng.Float64())
			if center.Sub(types.XYZ(4, 0.2, 0)).Len() <= 0.9 {
				continue
			}

			name := fmt.Sprintf("sphere-%d-%d", a, b)
			switch {
			case chooseMat < 0.8:
				mat := &Lambertian{Albedo: types.RandomVec3(rng, 0, 1).MulVec(types.RandomVec3(rng, 0, 1))}
				center2 := center.Add(types.XYZ(0, types.RandomRange(rng, 0, 0.5), 0))
				mustAdd(name, mat, NewMovingSphere(center, center2, 0, 1, 0.2, mat))
			case chooseMat < 0.95:
				mat := NewMetal(types.RandomVec3(rng, 0.5, 1), types.RandomRange(rng, 0, 0.5))
				mustAdd(name, mat, NewSphere(center, 0.2, mat))
			default:
				mat := &Dielectric{IR: 1.5}
				mustAdd(name, mat, NewSphere(center, 0.2, mat))
			}
		}
	}

	glass := &Dielectric{IR: 1.5}
	mustAdd("glass", glass, NewSphere(types.XYZ(0, 1, 0), 1, glass))

	matte := &Lambertian{Albedo: types.XYZ(0.4, 0.2, 0.1)}
	mustAdd("matte", matte, NewSphere(types.XYZ(-4, 1, 0), 1, matte))

	metal := NewMetal(types.XYZ(0.7, 0.6, 0.5), 0)
	mustAdd("metal", metal, NewSphere(types.XYZ(4, 1, 0), 1, metal))

	cam := NewCamera(20)
	cam.Position = types.XYZ(13, 2, 3)
	cam.LookAt = types.XYZ(0, 0, 0)
	cam.Aperture = 0.1
	cam.FocusDist = 10
	cam.Time0, cam.Time1 = 0, 1
	sc.SetCamera(cam)

	return sc
}
