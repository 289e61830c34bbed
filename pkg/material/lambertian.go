package material

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material. It reflects from
// whichever side it is hit.
type Lambertian struct {
	noEmission
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Color) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedo ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter samples a cosine-weighted direction on the side in arrived from
func (l *Lambertian) Scatter(x core.SurfacePoint, in core.Vec3, u core.Vec3) (core.ScatteredRay, bool) {
	normal := faceForward(x.Normal, in)
	dir := core.SampleCosineHemisphere(normal, core.NewVec2(u.X, u.Y))
	cosTheta := dir.Dot(normal)
	if cosTheta <= 0 {
		return core.ScatteredRay{}, false
	}

	// BRDF: albedo / π, times the projected cosine
	albedo := l.Albedo.Evaluate(x.Position)
	return core.ScatteredRay{
		Ray:    core.NewRay(x.Position, dir),
		Weight: albedo.Scale(cosTheta / math.Pi),
		PDF:    cosTheta / math.Pi,
	}, true
}

// BSDF is albedo/π for reflections and black for transmission
func (l *Lambertian) BSDF(x core.SurfacePoint, in, out core.Vec3) core.Color {
	if !sameSide(x.Normal, in, out) {
		return core.Black
	}
	return l.Albedo.Evaluate(x.Position).Scale(1.0 / math.Pi)
}

// PDF of cosine-weighted hemisphere sampling: cos(θ) / π
func (l *Lambertian) PDF(x core.SurfacePoint, in, out core.Vec3) float64 {
	if !sameSide(x.Normal, in, out) {
		return 0
	}
	return math.Abs(out.Normalize().Dot(x.Normal)) / math.Pi
}

func (l *Lambertian) Specular() bool { return false }
