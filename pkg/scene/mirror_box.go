package scene

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/geometry"
	"github.com/df07/go-bidi-raytracer/pkg/lens"
	"github.com/df07/go-bidi-raytracer/pkg/material"
)

// NewMirrorBoxScene creates an open box with a mirror back wall on a checkered
// floor, lit by a small area light and a point light under a sky gradient.
// Light reflected by the mirror onto the floor is only found by light sub-paths.
func NewMirrorBoxScene() (*Scene, error) {
	camera := lens.CameraConfig{
		Center:      core.NewVec3(0, 1.5, 4),
		LookAt:      core.NewVec3(0, 0.6, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 4.0 / 3.0,
	}
	s, err := newScene("mirror-box", "Open box with a mirror wall, a point light and an area light", camera, 320)
	if err != nil {
		return nil, err
	}
	s.Background = NewGradient(core.NewColor(0.5, 0.7, 1.0).Scale(0.2), core.Black)

	checker := material.NewTexturedLambertian(material.NewChecker(core.Gray(0.8), core.Gray(0.3), 0.5))
	white := material.NewLambertian(core.Gray(0.73))
	mirror := material.NewMirror(core.Gray(0.95))

	// Floor facing up
	s.Shapes.Add(geometry.NewQuad(core.NewVec3(-2, 0, -2), core.NewVec3(0, 0, 4), core.NewVec3(4, 0, 0), checker))
	// Mirror back wall
	s.Shapes.Add(geometry.NewQuad(core.NewVec3(-2, 0, -2), core.NewVec3(4, 0, 0), core.NewVec3(0, 2, 0), mirror))
	// Side walls
	s.Shapes.Add(geometry.NewQuad(core.NewVec3(-2, 0, -2), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 4), white))
	s.Shapes.Add(geometry.NewQuad(core.NewVec3(2, 0, -2), core.NewVec3(0, 0, 4), core.NewVec3(0, 2, 0), white))

	s.Shapes.Add(geometry.NewSphere(core.NewVec3(-0.6, 0.4, -0.5), 0.4, white))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(0.7, 0.5, 0.3), 0.5, mirror))

	s.AddQuadLight(core.NewVec3(-0.3, 1.99, -0.3), core.NewVec3(0.6, 0, 0), core.NewVec3(0, 0, 0.6), core.Gray(20))
	s.AddPointLight(core.NewVec3(1.2, 1.6, 1.5), core.Gray(3))

	return s, s.Preprocess()
}
