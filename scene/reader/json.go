package reader

import (
	"strings"
	"time"

	"github.com/achilleasa/polaris/asset"
	"github.com/achilleasa/polaris/log"
	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/types"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Included scene files may nest up to this depth.
const maxIncludeDepth = 8

type jsonCamera struct {
	LookFrom  types.Vec3  `json:"lookFrom"`
	LookAt    types.Vec3  `json:"lookAt"`
	Up        *types.Vec3 `json:"vup"`
	FOV       float64     `json:"vfov"`
	Aperture  float64     `json:"aperture"`
	FocusDist float64     `json:"focusDist"`
	Time0     float64     `json:"time0"`
	Time1     float64     `json:"time1"`
}

type jsonMaterial struct {
	Type   string     `json:"type"`
	Albedo types.Vec3 `json:"albedo"`
	Fuzz   float64    `json:"fuzz"`
	IR     float64    `json:"ir"`
}

type jsonSphere struct {
	Center   types.Vec3 `json:"center"`
	Radius   float64    `json:"radius"`
	Material string     `json:"material"`
}

type jsonMovingSphere struct {
	Center0  types.Vec3 `json:"center0"`
	Center1  types.Vec3 `json:"center1"`
	Time0    float64    `json:"time0"`
	Time1    float64    `json:"time1"`
	Radius   float64    `json:"radius"`
	Material string     `json:"material"`
}

type jsonScene struct {
	Include       []string                `json:"include"`
	Camera        *jsonCamera             `json:"camera"`
	Background    *types.Vec3             `json:"background"`
	Materials     map[string]jsonMaterial `json:"materials"`
	Spheres       []jsonSphere            `json:"spheres"`
	MovingSpheres []jsonMovingSphere      `json:"movingSpheres"`
}

// A reader for JSON scene descriptions. Scene files may include other scene
// files; relative include paths are resolved against the including file.
type jsonReader struct {
	logger log.Logger

	// The chain of resources that are currently being read.
	includeStack []string
}

func newJSONReader() *jsonReader {
	return &jsonReader{
		logger: log.New("jsonSceneReader"),
	}
}

func (r *jsonReader) Read(res *asset.Resource) (*scene.Scene, error) {
	r.logger.Infof("parsing scene from %s", res.Path())
	start := time.Now()

	sc := scene.NewScene()
	if err := r.readInto(sc, res); err != nil {
		return nil, err
	}

	if sc.Camera == nil {
		return nil, r.emitError(res, "no camera defined")
	}
	if sc.World.Len() == 0 {
		return nil, r.emitError(res, "no primitives defined")
	}

	r.logger.Infof(
		"parsed scene in %d ms: %d materials, %d primitives",
		time.Since(start).Nanoseconds()/1e6, len(sc.Materials), sc.World.Len(),
	)
	return sc, nil
}

func (r *jsonReader) readInto(sc *scene.Scene, res *asset.Resource) error {
	for _, path := range r.includeStack {
		if path == res.Path() {
			return r.emitError(res, "include cycle detected")
		}
	}
	if len(r.includeStack) >= maxIncludeDepth {
		return r.emitError(res, "max include depth exceeded")
	}
	r.includeStack = append(r.includeStack, res.Path())
	defer func() {
		r.includeStack = r.includeStack[:len(r.includeStack)-1]
	}()

	var doc jsonScene
	dec := json.NewDecoder(res)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return r.emitError(res, "could not decode scene").Wrap(err)
	}

	// Includes are processed first so that their materials can be
	// referenced by this file.
	for _, include := range doc.Include {
		incRes, err := asset.NewResource(include, res)
		if err != nil {
			return r.emitError(res, "could not open included scene").
				WithTag("include", include).
				Wrap(err)
		}
		err = r.readInto(sc, incRes)
		incRes.Close()
		if err != nil {
			return err
		}
	}

	if doc.Camera != nil {
		cam, err := r.camera(res, doc.Camera)
		if err != nil {
			return err
		}
		sc.SetCamera(cam)
	}
	if doc.Background != nil {
		sc.BgColor = *doc.Background
	}

	for name, def := range doc.Materials {
		mat, err := r.material(res, name, def)
		if err != nil {
			return err
		}
		if err = sc.AddMaterial(name, mat); err != nil {
			return r.emitError(res, "could not add material").Wrap(err)
		}
	}

	for index, def := range doc.Spheres {
		if def.Radius == 0 {
			return r.emitError(res, "sphere radius must not be zero").WithTag("sphere", index)
		}
		mat, ok := sc.Materials[def.Material]
		if !ok {
			return r.emitError(res, "reference to undefined material").
				WithTag("material", def.Material).
				WithTag("sphere", index)
		}
		if err := sc.AddPrimitive(scene.NewSphere(def.Center, def.Radius, mat)); err != nil {
			return r.emitError(res, "could not add sphere").WithTag("sphere", index).Wrap(err)
		}
	}

	for index, def := range doc.MovingSpheres {
		if def.Radius == 0 {
			return r.emitError(res, "sphere radius must not be zero").WithTag("movingSphere", index)
		}
		if def.Time1 < def.Time0 {
			return r.emitError(res, "moving sphere time1 must not precede time0").WithTag("movingSphere", index)
		}
		mat, ok := sc.Materials[def.Material]
		if !ok {
			return r.emitError(res, "reference to undefined material").
				WithTag("material", def.Material).
				WithTag("movingSphere", index)
		}
		prim := scene.NewMovingSphere(def.Center0, def.Center1, def.Time0, def.Time1, def.Radius, mat)
		if err := sc.AddPrimitive(prim); err != nil {
			return r.emitError(res, "could not add moving sphere").WithTag("movingSphere", index).Wrap(err)
		}
	}

	return nil
}

func (r *jsonReader) camera(res *asset.Resource, def *jsonCamera) (*scene.Camera, error) {
	if def.FOV <= 0 || def.FOV >= 180 {
		return nil, r.emitError(res, "camera vfov must be in (0, 180)").WithTag("vfov", def.FOV)
	}
	if def.Aperture < 0 {
		return nil, r.emitError(res, "camera aperture must not be negative").WithTag("aperture", def.Aperture)
	}
	if def.Time1 < def.Time0 {
		return nil, r.emitError(res, "camera time1 must not precede time0")
	}
	if def.LookFrom == def.LookAt {
		return nil, r.emitError(res, "camera lookFrom and lookAt must differ")
	}

	cam := scene.NewCamera(def.FOV)
	cam.Position = def.LookFrom
	cam.LookAt = def.LookAt
	if def.Up != nil {
		cam.Up = *def.Up
	}
	cam.Aperture = def.Aperture
	cam.FocusDist = def.FocusDist
	cam.Time0, cam.Time1 = def.Time0, def.Time1
	return cam, nil
}

func (r *jsonReader) material(res *asset.Resource, name string, def jsonMaterial) (scene.Material, error) {
	switch strings.ToLower(def.Type) {
	case "lambertian":
		return &scene.Lambertian{Albedo: def.Albedo}, nil
	case "metal":
		return scene.NewMetal(def.Albedo, def.Fuzz), nil
	case "dielectric":
		if def.IR <= 0 {
			return nil, r.emitError(res, "dielectric index of refraction must be positive").WithTag("material", name)
		}
		return &scene.Dielectric{IR: def.IR}, nil
	default:
		return nil, r.emitError(res, "unknown material type").
			WithTag("material", name).
			WithTag("type", def.Type)
	}
}

// Generate an error that also includes the chain of included resources.
func (r *jsonReader) emitError(res *asset.Resource, msg string) errors.Error {
	return errors.New("reader: "+msg).
		WithType(ErrTypeInvalidScene).
		WithTag("resource", res.Path()).
		WithTag("include_stack", strings.Join(r.includeStack, " -> "))
}
