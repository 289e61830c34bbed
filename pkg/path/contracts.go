package path

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Lens produces the eye terminal for a point on the unit image square.
// Image coordinates run left to right in x and top to bottom in y.
type Lens interface {
	Sample(p core.Vec2, info *Info, s core.Sampler) (Aperture, bool)
}

// Aperture is the lens-specific half of an eye terminal vertex
type Aperture interface {
	Position() core.Position

	// Ray is the primary ray through the image point the aperture was sampled for
	Ray() (core.ScatteredRay, bool)

	// Importance is the sensor response to light arriving from direction -v,
	// i.e. the eye terminal's analog of a BSDF evaluated towards v
	Importance(v core.Vec3) core.Color
	PDF(v core.Vec3) float64
	Cosine(v core.Vec3) float64

	// Project maps a scene position onto the unit image square
	Project(x core.Position) (core.Vec2, bool)
}

// Light chooses an emitter for a light sub-path
type Light interface {
	Sample(info *Info, s core.Sampler) (Emitter, bool)

	// SamplePDF is the area density (selection included) with which Sample
	// would have produced an emitter at x
	SamplePDF(x core.SurfacePoint) float64
}

// Emitter is the light-specific half of a light terminal vertex
type Emitter interface {
	Position() core.Position

	// PositionPDF is the density of having chosen this position, selection
	// included. Delta-position emitters report their selection probability.
	PositionPDF() float64
	DeltaPosition() bool

	Cosine(v core.Vec3) float64
	Radiance(v core.Vec3) core.Color
	SampleDirection(u core.Vec3) (core.ScatteredRay, bool)
	DirectionPDF(v core.Vec3) float64
}
