package core

// Logger is the printf-style sink behind the renderer's structured logs
type Logger interface {
	Printf(format string, args ...interface{})
}

// SurfacePoint is a ray/scene intersection
type SurfacePoint struct {
	Position  Vec3
	Normal    Vec3 // unit geometric normal, oriented as the primitive defines it
	Material  Material
	Primitive any // the shape that was hit; lights use it to recognise their own surface
	T         float64
}

// ScatteredRay is one sampled scattering or emission event.
// Weight holds the scattering function value including the projected cosine;
// Weight/PDF is the factor a path's cumulative weight is multiplied by.
// Specular events carry PDF 1 and Weight equal to the reflectance.
type ScatteredRay struct {
	Ray      Ray
	Weight   Color
	PDF      float64
	Specular bool
}

// Ratio returns Weight/PDF
func (sr ScatteredRay) Ratio() Color {
	return sr.Weight.Divide(sr.PDF)
}

// Material describes scattering and emission at a surface.
// Directions are directions of travel: in arrives at the surface, out leaves it.
type Material interface {
	// Scatter samples an outgoing direction for light arriving along in.
	// It returns false on absorption.
	Scatter(x SurfacePoint, in Vec3, u Vec3) (ScatteredRay, bool)

	// BSDF evaluates the scattering function without the cosine term
	BSDF(x SurfacePoint, in, out Vec3) Color

	// PDF is the solid angle density with which Scatter picks out given in
	PDF(x SurfacePoint, in, out Vec3) float64

	// Specular reports that scattering is a Dirac delta and BSDF is always black
	Specular() bool

	// Emission is the radiance leaving x along out
	Emission(x SurfacePoint, out Vec3) Color

	// EmissionPDF is the density with which an emitter at x would sample out
	EmissionPDF(x SurfacePoint, out Vec3) float64
}

// RayCaster finds the nearest intersection and answers occlusion queries
type RayCaster interface {
	CastRay(ray Ray) (SurfacePoint, bool)
	// Visible reports whether nothing blocks ray between tMin and tMax.
	// ray.Direction need not be normalized; t is in units of its length.
	Visible(ray Ray, tMin, tMax float64) bool
}

// Background supplies radiance for rays that leave the scene
type Background interface {
	Radiance(dir Vec3) Color
}
