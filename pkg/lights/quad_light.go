package lights

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/geometry"
	"github.com/df07/go-bidi-raytracer/pkg/material"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// QuadLight represents a rectangular area light. It emits from the side its
// normal (U × V) points to. Add the embedded Quad to the scene geometry so
// that eye paths can hit it.
type QuadLight struct {
	*geometry.Quad // Embed quad for hit testing
}

// NewQuadLight creates a new quad light with uniform radiance
func NewQuadLight(corner, u, v core.Vec3, radiance core.Color) *QuadLight {
	return &QuadLight{
		Quad: geometry.NewQuad(corner, u, v, material.NewEmissive(radiance)),
	}
}

// Sample picks a uniform point on the quad surface
func (ql *QuadLight) Sample(_ *path.Info, s core.Sampler) (path.Emitter, bool) {
	if ql.Area() <= 0 {
		return nil, false
	}
	uv := s.Get2D()
	return &quadEmitter{
		light: ql,
		point: core.SurfacePoint{
			Position:  ql.PointAt(uv.X, uv.Y),
			Normal:    ql.Normal,
			Material:  ql.Material,
			Primitive: ql.Quad,
		},
	}, true
}

// SamplePDF is 1/area on the quad and zero anywhere else
func (ql *QuadLight) SamplePDF(x core.SurfacePoint) float64 {
	if x.Primitive != ql.Quad || ql.Area() <= 0 {
		return 0
	}
	return 1 / ql.Area()
}

// Power is the flux leaving the front face: π · L · area
func (ql *QuadLight) Power() float64 {
	return math.Pi * ql.Material.Emission(ql.frontPoint(), ql.Normal).Luminance() * ql.Area()
}

func (ql *QuadLight) frontPoint() core.SurfacePoint {
	return core.SurfacePoint{Position: ql.Corner, Normal: ql.Normal, Material: ql.Material, Primitive: ql.Quad}
}

type quadEmitter struct {
	light *QuadLight
	point core.SurfacePoint
}

func (e *quadEmitter) Position() core.Position { return core.PointAt(e.point.Position) }
func (e *quadEmitter) PositionPDF() float64    { return 1 / e.light.Area() }
func (e *quadEmitter) DeltaPosition() bool     { return false }

// Cosine is signed: negative behind the emitting face
func (e *quadEmitter) Cosine(v core.Vec3) float64 {
	return e.point.Normal.Dot(v.Normalize())
}

func (e *quadEmitter) Radiance(v core.Vec3) core.Color {
	return e.point.Material.Emission(e.point, v)
}

func (e *quadEmitter) DirectionPDF(v core.Vec3) float64 {
	return e.point.Material.EmissionPDF(e.point, v)
}

// SampleDirection samples a cosine-weighted direction over the front hemisphere
func (e *quadEmitter) SampleDirection(u core.Vec3) (core.ScatteredRay, bool) {
	dir := core.SampleCosineHemisphere(e.point.Normal, core.NewVec2(u.X, u.Y))
	cosTheta := dir.Dot(e.point.Normal)
	if cosTheta <= 0 {
		return core.ScatteredRay{}, false
	}
	return core.ScatteredRay{
		Ray:    core.NewRay(e.point.Position, dir),
		Weight: e.Radiance(dir).Scale(cosTheta),
		PDF:    cosTheta / math.Pi,
	}, true
}
