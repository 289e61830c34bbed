package scene

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/geometry"
	"github.com/df07/go-bidi-raytracer/pkg/lens"
	"github.com/df07/go-bidi-raytracer/pkg/material"
)

// Point-plane layout: a white plane at z = 0 lit by a point light straight
// above it, viewed from further up the same axis
const (
	PointPlaneLightHeight = 2.0
	PointPlaneIntensity   = 10.0
	PointPlaneReflectance = 1.0
)

// NewPointPlaneScene creates a point light over a diffuse plane. The radiance
// leaving the plane under the light is reflectance/π · intensity/height².
func NewPointPlaneScene() (*Scene, error) {
	camera := lens.CameraConfig{
		Center:      core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        30,
		AspectRatio: 1,
	}
	s, err := newScene("point-plane", "Point light above a white diffuse plane", camera, 64)
	if err != nil {
		return nil, err
	}

	white := material.NewLambertian(core.Gray(PointPlaneReflectance))
	s.Shapes.Add(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), white))
	s.AddPointLight(core.NewVec3(0, 0, PointPlaneLightHeight), core.Gray(PointPlaneIntensity))

	return s, s.Preprocess()
}
