package lights

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// PointLight is an isotropic point source. No eye path can hit it, so it is
// only reached by connecting to its light terminal.
type PointLight struct {
	Position  core.Vec3
	Intensity core.Color // Radiant intensity in every direction
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, intensity core.Color) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

// Sample always chooses the single point
func (l *PointLight) Sample(*path.Info, core.Sampler) (path.Emitter, bool) {
	return pointEmitter{l}, true
}

// SamplePDF is zero: a point is never found by a ray
func (l *PointLight) SamplePDF(core.SurfacePoint) float64 {
	return 0
}

// Power is the total flux, 4π times the intensity luminance
func (l *PointLight) Power() float64 {
	return 4 * math.Pi * l.Intensity.Luminance()
}

type pointEmitter struct {
	light *PointLight
}

func (e pointEmitter) Position() core.Position        { return core.PointAt(e.light.Position) }
func (e pointEmitter) PositionPDF() float64           { return 1 }
func (e pointEmitter) DeltaPosition() bool            { return true }
func (e pointEmitter) Cosine(core.Vec3) float64       { return 1 }
func (e pointEmitter) Radiance(core.Vec3) core.Color  { return e.light.Intensity }
func (e pointEmitter) DirectionPDF(core.Vec3) float64 { return core.UniformSpherePDF }

// SampleDirection picks a uniform direction on the sphere
func (e pointEmitter) SampleDirection(u core.Vec3) (core.ScatteredRay, bool) {
	dir := core.SampleOnUnitSphere(core.NewVec2(u.X, u.Y))
	return core.ScatteredRay{
		Ray:    core.NewRay(e.light.Position, dir),
		Weight: e.light.Intensity,
		PDF:    core.UniformSpherePDF,
	}, true
}
