package material

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Emissive represents a light-emitting material. It emits from the front
// face only (the side the normal points to) and absorbs everything it receives.
type Emissive struct {
	Radiance core.Color // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(radiance core.Color) *Emissive {
	return &Emissive{Radiance: radiance}
}

// Scatter absorbs every incoming ray
func (e *Emissive) Scatter(core.SurfacePoint, core.Vec3, core.Vec3) (core.ScatteredRay, bool) {
	return core.ScatteredRay{}, false
}

func (e *Emissive) BSDF(core.SurfacePoint, core.Vec3, core.Vec3) core.Color { return core.Black }
func (e *Emissive) PDF(core.SurfacePoint, core.Vec3, core.Vec3) float64     { return 0 }
func (e *Emissive) Specular() bool                                          { return false }

// Emission returns the radiance leaving the front face along out
func (e *Emissive) Emission(x core.SurfacePoint, out core.Vec3) core.Color {
	if out.Dot(x.Normal) <= 0 {
		return core.Black
	}
	return e.Radiance
}

// EmissionPDF is the cosine-weighted density an area light samples out with
func (e *Emissive) EmissionPDF(x core.SurfacePoint, out core.Vec3) float64 {
	cosTheta := out.Normalize().Dot(x.Normal)
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}
