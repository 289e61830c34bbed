package material

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Mirror is a perfect specular reflector
type Mirror struct {
	noEmission
	Reflectance core.Color
}

// NewMirror creates a new mirror
func NewMirror(reflectance core.Color) *Mirror {
	return &Mirror{Reflectance: reflectance}
}

// Scatter reflects in about the normal. The event is a delta: PDF 1 and
// weight equal to the reflectance.
func (m *Mirror) Scatter(x core.SurfacePoint, in core.Vec3, u core.Vec3) (core.ScatteredRay, bool) {
	normal := faceForward(x.Normal, in)
	reflected := reflect(in.Normalize(), normal)
	if reflected.Dot(normal) <= 0 {
		return core.ScatteredRay{}, false
	}
	return core.ScatteredRay{
		Ray:      core.NewRay(x.Position, reflected),
		Weight:   m.Reflectance,
		PDF:      1,
		Specular: true,
	}, true
}

// BSDF is black: a delta cannot be evaluated for a given pair of directions
func (m *Mirror) BSDF(core.SurfacePoint, core.Vec3, core.Vec3) core.Color { return core.Black }

// PDF is zero for the same reason
func (m *Mirror) PDF(core.SurfacePoint, core.Vec3, core.Vec3) float64 { return 0 }

func (m *Mirror) Specular() bool { return true }
