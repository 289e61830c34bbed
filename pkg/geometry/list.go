package geometry

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// MinHitDistance keeps rays leaving a surface from hitting it again
const MinHitDistance = 1e-4

// List is a ray caster over a flat list of shapes. Scenes here are small
// enough that a linear scan beats building an acceleration structure.
type List struct {
	Shapes []Shape
}

// NewList creates a list from shapes
func NewList(shapes ...Shape) *List {
	return &List{Shapes: shapes}
}

// Add appends shapes
func (l *List) Add(shapes ...Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// CastRay finds the nearest surface along the ray
func (l *List) CastRay(ray core.Ray) (core.SurfacePoint, bool) {
	tMin := MinHitDistance / ray.Direction.Length()
	closest := math.Inf(1)
	var nearest core.SurfacePoint
	found := false

	for _, shape := range l.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closest); ok {
			found = true
			closest = hit.T
			nearest = hit
		}
	}
	return nearest, found
}

// Visible reports whether no shape blocks the ray between tMin and tMax
func (l *List) Visible(ray core.Ray, tMin, tMax float64) bool {
	for _, shape := range l.Shapes {
		if _, ok := shape.Hit(ray, tMin, tMax); ok {
			return false
		}
	}
	return true
}
