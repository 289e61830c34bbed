package geometry

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the nearest intersection with t in [tMin, tMax]. t is in
	// units of the ray direction's length.
	Hit(ray core.Ray, tMin, tMax float64) (core.SurfacePoint, bool)
}
