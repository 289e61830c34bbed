package material

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// faceForward returns the normal flipped to the side the incoming ray arrives from
func faceForward(normal, in core.Vec3) core.Vec3 {
	if normal.Dot(in) > 0 {
		return normal.Negate()
	}
	return normal
}

// sameSide reports whether in arrives at and out leaves the same side of the
// surface, i.e. whether the pair describes a reflection
func sameSide(normal, in, out core.Vec3) bool {
	return in.Dot(normal)*out.Dot(normal) < 0
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// noEmission can be embedded by materials that never emit
type noEmission struct{}

func (noEmission) Emission(core.SurfacePoint, core.Vec3) core.Color { return core.Black }
func (noEmission) EmissionPDF(core.SurfacePoint, core.Vec3) float64 { return 0 }
